package domain

import "time"

// Health-metric sources are the external integrations athletes sync from.
const (
	SourceGarmin      = "garmin"
	SourceGoogleFit   = "google_fit"
	SourceAppleHealth = "apple_health"
)

// ValidSource reports whether s names a supported integration.
func ValidSource(s string) bool {
	switch s {
	case SourceGarmin, SourceGoogleFit, SourceAppleHealth:
		return true
	}
	return false
}

// HealthMetric is a self-reported reading synced from a wearable integration.
// It carries no professional stamp: the athlete owns it outright.
type HealthMetric struct {
	ID         string    `json:"id" bson:"_id,omitempty"`
	UserID     string    `json:"user_id" bson:"user_id"`
	Source     string    `json:"source" bson:"source"`
	Type       string    `json:"type" bson:"type"`
	Value      float64   `json:"value" bson:"value"`
	Unit       string    `json:"unit" bson:"unit"`
	RecordedAt time.Time `json:"recorded_at" bson:"recorded_at"`
	Notes      string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updated_at"`
}

// PerformanceMetric is authored by a professional for one of their athletes.
type PerformanceMetric struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	UserID         string    `json:"user_id" bson:"user_id"`
	ProfessionalID string    `json:"professional_id" bson:"professional_id"`
	Metric         string    `json:"metric" bson:"metric"`
	Value          float64   `json:"value" bson:"value"`
	Unit           string    `json:"unit" bson:"unit"`
	RecordedAt     time.Time `json:"recorded_at" bson:"recorded_at"`
	Notes          string    `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"`
}

// AnthropometricRecord is a body-composition measurement session.
// LeanBodyMassKg is derived, never client-supplied.
type AnthropometricRecord struct {
	ID             string             `json:"id" bson:"_id,omitempty"`
	UserID         string             `json:"user_id" bson:"user_id"`
	ProfessionalID string             `json:"professional_id" bson:"professional_id"`
	WeightKg       float64            `json:"weight_kg" bson:"weight_kg"`
	HeightCm       float64            `json:"height_cm" bson:"height_cm"`
	BodyFatPct     float64            `json:"body_fat_pct" bson:"body_fat_pct"`
	LeanBodyMassKg float64            `json:"lean_body_mass_kg" bson:"lean_body_mass_kg"`
	Measurements   map[string]float64 `json:"measurements,omitempty" bson:"measurements,omitempty"`
	RecordedAt     time.Time          `json:"recorded_at" bson:"recorded_at"`
	Notes          string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// DeriveLeanBodyMass recomputes LeanBodyMassKg from weight and body fat.
// Called on every save that touches either input.
func (r *AnthropometricRecord) DeriveLeanBodyMass() {
	r.LeanBodyMassKg = r.WeightKg * (1 - r.BodyFatPct/100)
}

package domain

import "time"

// ReportType selects which record kinds the content snapshot includes.
type ReportType string

const (
	ReportHealth         ReportType = "health"
	ReportPerformance    ReportType = "performance"
	ReportAnthropometric ReportType = "anthropometric"
	ReportCombined       ReportType = "combined"
)

// ReportContent is a denormalized, reference-free copy of the measurement
// records assembled at generation time. Later edits to the source records do
// not affect an existing report.
type ReportContent struct {
	Health         []HealthMetric         `json:"health,omitempty" bson:"health,omitempty"`
	Performance    []PerformanceMetric    `json:"performance,omitempty" bson:"performance,omitempty"`
	Anthropometric []AnthropometricRecord `json:"anthropometric,omitempty" bson:"anthropometric,omitempty"`
}

// Report belongs to one athlete and one professional. AccessCode is assigned
// lazily the first time the report is shared and never regenerated.
type Report struct {
	ID             string        `json:"id" bson:"_id,omitempty"`
	UserID         string        `json:"user_id" bson:"user_id"`
	ProfessionalID string        `json:"professional_id" bson:"professional_id"`
	Title          string        `json:"title" bson:"title"`
	Type           ReportType    `json:"type" bson:"type"`
	PeriodFrom     time.Time     `json:"period_from" bson:"period_from"`
	PeriodTo       time.Time     `json:"period_to" bson:"period_to"`
	Content        ReportContent `json:"content" bson:"content"`
	Shared         bool          `json:"shared" bson:"shared"`
	AccessCode     string        `json:"access_code,omitempty" bson:"access_code,omitempty"`
	SharedAt       *time.Time    `json:"shared_at,omitempty" bson:"shared_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" bson:"updated_at"`
}

// IntegrationConnection is the stub connection state for one provider.
type IntegrationConnection struct {
	Connected   bool       `json:"connected" bson:"connected"`
	ConnectedAt *time.Time `json:"connected_at,omitempty" bson:"connected_at,omitempty"`
}

// IntegrationStatus holds a user's per-provider connection flags.
// No real OAuth: connecting only flips the flag.
type IntegrationStatus struct {
	UserID      string                `json:"user_id" bson:"_id"`
	Garmin      IntegrationConnection `json:"garmin" bson:"garmin"`
	GoogleFit   IntegrationConnection `json:"google_fit" bson:"google_fit"`
	AppleHealth IntegrationConnection `json:"apple_health" bson:"apple_health"`
}

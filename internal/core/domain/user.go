package domain

import "time"

const (
	RoleAthlete      = "athlete"
	RoleProfessional = "professional"
)

// Settings holds per-account preferences.
type Settings struct {
	Language           string `json:"language" bson:"language"`
	Theme              string `json:"theme" bson:"theme"`
	EmailNotifications bool   `json:"email_notifications" bson:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications" bson:"push_notifications"`
}

// DefaultSettings applied at registration when the client sends none.
func DefaultSettings() Settings {
	return Settings{Language: "en", Theme: "light", EmailNotifications: true}
}

// AthleteProfile is the variant payload for users with RoleAthlete.
// ProfessionalID is the authoritative ownership link: every athlete belongs
// to exactly one professional from creation onward.
type AthleteProfile struct {
	Gender         string `json:"gender" bson:"gender"`
	Age            int    `json:"age" bson:"age"`
	Country        string `json:"country" bson:"country"`
	Sport          string `json:"sport" bson:"sport"`
	Position       string `json:"position,omitempty" bson:"position,omitempty"`
	ProfessionalID string `json:"professional_id" bson:"professional_id"`
}

// ProfessionalProfile is the variant payload for users with RoleProfessional.
// PatientIDs is denormalized; the athlete's ProfessionalID is authoritative.
type ProfessionalProfile struct {
	Specialization    string   `json:"specialization" bson:"specialization"`
	LicenseNumber     string   `json:"license_number" bson:"license_number"`
	YearsOfExperience int      `json:"years_of_experience" bson:"years_of_experience"`
	PatientIDs        []string `json:"patient_ids,omitempty" bson:"patient_ids,omitempty"`
}

// User models an authenticated actor. Exactly one of Athlete/Professional is
// set, matching Role; handlers switch on Role, never on field presence.
type User struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	PasswordHash string               `json:"-"`
	Role         string               `json:"role"`
	Settings     Settings             `json:"settings"`
	Athlete      *AthleteProfile      `json:"athlete,omitempty"`
	Professional *ProfessionalProfile `json:"professional,omitempty"`
	Active       bool                 `json:"active"`
	LastLoginAt  *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// IsProfessional reports whether the user carries the professional role.
func (u *User) IsProfessional() bool { return u.Role == RoleProfessional }

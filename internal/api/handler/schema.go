package handler

import (
	"time"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

// Response-only types owned by the transport layer. These are intentionally
// separate from domain types so the JSON contract is not coupled to internal
// changes.

type settingsPayload struct {
	Language           string `json:"language"`
	Theme              string `json:"theme"`
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
}

type athletePayload struct {
	Gender         string `json:"gender"`
	Age            int    `json:"age"`
	Country        string `json:"country"`
	Sport          string `json:"sport"`
	Position       string `json:"position,omitempty"`
	ProfessionalID string `json:"professional_id"`
}

type professionalPayload struct {
	Specialization    string   `json:"specialization"`
	LicenseNumber     string   `json:"license_number"`
	YearsOfExperience int      `json:"years_of_experience"`
	PatientIDs        []string `json:"patient_ids,omitempty"`
}

type userResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Email        string               `json:"email"`
	Role         string               `json:"role"`
	Settings     settingsPayload      `json:"settings"`
	Athlete      *athletePayload      `json:"athlete,omitempty"`
	Professional *professionalPayload `json:"professional,omitempty"`
	Active       bool                 `json:"active"`
	LastLoginAt  *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	resp := userResponse{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		Settings: settingsPayload{
			Language:           u.Settings.Language,
			Theme:              u.Settings.Theme,
			EmailNotifications: u.Settings.EmailNotifications,
			PushNotifications:  u.Settings.PushNotifications,
		},
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
	if u.Athlete != nil {
		resp.Athlete = &athletePayload{
			Gender:         u.Athlete.Gender,
			Age:            u.Athlete.Age,
			Country:        u.Athlete.Country,
			Sport:          u.Athlete.Sport,
			Position:       u.Athlete.Position,
			ProfessionalID: u.Athlete.ProfessionalID,
		}
	}
	if u.Professional != nil {
		resp.Professional = &professionalPayload{
			Specialization:    u.Professional.Specialization,
			LicenseNumber:     u.Professional.LicenseNumber,
			YearsOfExperience: u.Professional.YearsOfExperience,
			PatientIDs:        u.Professional.PatientIDs,
		}
	}
	return resp
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

func toPaginationResponse(p ports.Pagination) paginationResponse {
	return paginationResponse{Total: p.Total, Page: p.Page, Limit: p.Limit, TotalPages: p.TotalPages}
}

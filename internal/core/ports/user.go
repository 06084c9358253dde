package ports

import (
	"context"
	"time"

	"github.com/vitaltrack/health-system/internal/core/domain"
)

// UserRepository defines persistence for user accounts and the
// patient-professional ownership link.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies a partial $set of pre-mapped storage fields and returns
	// the updated document.
	Update(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error

	// FindPatient resolves an athlete scoped by owning professional.
	// Out-of-scope lookups return domain.ErrUserNotFound, indistinguishable
	// from absence.
	FindPatient(ctx context.Context, professionalID, patientID string) (*domain.User, error)
	ListPatients(ctx context.Context, professionalID string, page, limit int) ([]*domain.User, int64, error)
	AddPatient(ctx context.Context, professionalID, patientID string) error
	RemovePatient(ctx context.Context, professionalID, patientID string) error
}

// UserService covers a caller's own profile.
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	// UpdateProfile merges the provided fields into the profile. Unknown
	// top-level keys reject the whole update with domain.ErrInvalidUpdate.
	UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*domain.User, error)
}

// CreatePatientInput carries the data a professional submits to enroll a new
// athlete under their ownership.
type CreatePatientInput struct {
	Name     string
	Email    string
	Password string
	Gender   string
	Age      int
	Country  string
	Sport    string
	Position string
}

// PatientList is one page of a professional's patients.
type PatientList struct {
	Items      []*domain.User
	Pagination Pagination
}

// PatientService covers professional-owned athlete management. Every method
// is scoped by the calling professional's id; records owned by another
// professional surface as domain.ErrUserNotFound.
type PatientService interface {
	Create(ctx context.Context, professionalID string, input CreatePatientInput) (*domain.User, error)
	List(ctx context.Context, professionalID string, page, limit int) (*PatientList, error)
	Get(ctx context.Context, professionalID, patientID string) (*domain.User, error)
	Update(ctx context.Context, professionalID, patientID string, updates map[string]any) (*domain.User, error)
	// Delete removes the patient and purges their health, performance, and
	// anthropometric records. The purges run concurrently and are not atomic
	// with the user delete; reports are deliberately left in place.
	Delete(ctx context.Context, professionalID, patientID string) error
}

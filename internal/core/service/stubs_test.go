package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

var nopLogger = zerolog.Nop()

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Athlete != nil {
		athlete := *u.Athlete
		clone.Athlete = &athlete
	}
	if u.Professional != nil {
		professional := *u.Professional
		clone.Professional = &professional
	}
	return &clone
}

// stubUserRepo is an in-memory UserRepository with the same scoping
// semantics as the Mongo implementation.
type stubUserRepo struct {
	users map[string]*domain.User
	seq   int

	addPatientCalls    []string
	removePatientCalls []string
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

// seed inserts a user bypassing duplicate checks and returns its id.
func (r *stubUserRepo) seed(u *domain.User) string {
	if u.ID == "" {
		r.seq++
		u.ID = fmt.Sprintf("user_%d", r.seq)
	}
	r.users[u.ID] = cloneUser(u)
	return u.ID
}

func (r *stubUserRepo) seedProfessional() string {
	return r.seed(&domain.User{
		Name:         "Coach",
		Email:        fmt.Sprintf("coach%d@example.com", r.seq+1),
		Role:         domain.RoleProfessional,
		Active:       true,
		Professional: &domain.ProfessionalProfile{LicenseNumber: "LIC-1"},
	})
}

func (r *stubUserRepo) seedAthlete(professionalID string) string {
	return r.seed(&domain.User{
		Name:    "Runner",
		Email:   fmt.Sprintf("runner%d@example.com", r.seq+1),
		Role:    domain.RoleAthlete,
		Active:  true,
		Athlete: &domain.AthleteProfile{Gender: "female", ProfessionalID: professionalID},
	})
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.seq++
	copy.ID = fmt.Sprintf("user_%d", r.seq)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Update(_ context.Context, id string, fields map[string]any) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for path, value := range fields {
		switch path {
		case "name":
			u.Name = value.(string)
		case "settings":
			if s, ok := value.(domain.Settings); ok {
				u.Settings = s
			}
		case "athlete.gender":
			u.Athlete.Gender = value.(string)
		case "athlete.age":
			u.Athlete.Age = toInt(value)
		case "athlete.country":
			u.Athlete.Country = value.(string)
		case "athlete.sport":
			u.Athlete.Sport = value.(string)
		case "athlete.position":
			u.Athlete.Position = value.(string)
		case "professional.specialization":
			u.Professional.Specialization = value.(string)
		case "professional.license_number":
			u.Professional.LicenseNumber = value.(string)
		case "professional.years_of_experience":
			u.Professional.YearsOfExperience = toInt(value)
		case "updated_at":
			u.UpdatedAt = value.(time.Time)
		}
	}
	return cloneUser(u), nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LastLoginAt = &at
	return nil
}

func (r *stubUserRepo) FindPatient(_ context.Context, professionalID, patientID string) (*domain.User, error) {
	u, ok := r.users[patientID]
	if !ok || u.Role != domain.RoleAthlete || u.Athlete.ProfessionalID != professionalID {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) ListPatients(_ context.Context, professionalID string, page, limit int) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == domain.RoleAthlete && u.Athlete.ProfessionalID == professionalID {
			out = append(out, cloneUser(u))
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) AddPatient(_ context.Context, professionalID, patientID string) error {
	r.addPatientCalls = append(r.addPatientCalls, patientID)
	u, ok := r.users[professionalID]
	if !ok || u.Professional == nil {
		return domain.ErrUserNotFound
	}
	u.Professional.PatientIDs = append(u.Professional.PatientIDs, patientID)
	return nil
}

func (r *stubUserRepo) RemovePatient(_ context.Context, professionalID, patientID string) error {
	r.removePatientCalls = append(r.removePatientCalls, patientID)
	return nil
}

// stubHealthRepo is an in-memory HealthRepository.
type stubHealthRepo struct {
	metrics map[string]*domain.HealthMetric
	seq     int
	purged  []string
}

func newStubHealthRepo() *stubHealthRepo {
	return &stubHealthRepo{metrics: make(map[string]*domain.HealthMetric)}
}

func (r *stubHealthRepo) Create(_ context.Context, m *domain.HealthMetric) error {
	r.seq++
	m.ID = fmt.Sprintf("health_%d", r.seq)
	clone := *m
	r.metrics[m.ID] = &clone
	return nil
}

func (r *stubHealthRepo) FindByID(_ context.Context, id, userID string) (*domain.HealthMetric, error) {
	m, ok := r.metrics[id]
	if !ok || (userID != "" && m.UserID != userID) {
		return nil, domain.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubHealthRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.HealthMetric, int64, error) {
	var out []*domain.HealthMetric
	for _, m := range r.metrics {
		if filter.UserID != "" && m.UserID != filter.UserID {
			continue
		}
		if filter.Source != "" && m.Source != filter.Source {
			continue
		}
		if !inPeriod(m.RecordedAt, filter) {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubHealthRepo) Update(_ context.Context, id, userID string, fields map[string]any) (*domain.HealthMetric, error) {
	m, ok := r.metrics[id]
	if !ok || m.UserID != userID {
		return nil, domain.ErrNotFound
	}
	for path, value := range fields {
		switch path {
		case "source":
			m.Source = value.(string)
		case "type":
			m.Type = value.(string)
		case "value":
			m.Value = toFloat(value)
		case "unit":
			m.Unit = value.(string)
		case "notes":
			m.Notes = value.(string)
		case "updated_at":
			m.UpdatedAt = value.(time.Time)
		}
	}
	clone := *m
	return &clone, nil
}

func (r *stubHealthRepo) Delete(_ context.Context, id, userID string) error {
	m, ok := r.metrics[id]
	if !ok || m.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.metrics, id)
	return nil
}

func (r *stubHealthRepo) DeleteByUser(_ context.Context, userID string) error {
	r.purged = append(r.purged, userID)
	for id, m := range r.metrics {
		if m.UserID == userID {
			delete(r.metrics, id)
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func inPeriod(at time.Time, filter ports.ListFilter) bool {
	if !filter.DateFrom.IsZero() && at.Before(filter.DateFrom) {
		return false
	}
	if !filter.DateTo.IsZero() && at.After(filter.DateTo) {
		return false
	}
	return true
}

// stubPerformanceRepo is an in-memory PerformanceRepository.
type stubPerformanceRepo struct {
	metrics map[string]*domain.PerformanceMetric
	seq     int
	purged  []string
}

func newStubPerformanceRepo() *stubPerformanceRepo {
	return &stubPerformanceRepo{metrics: make(map[string]*domain.PerformanceMetric)}
}

func (r *stubPerformanceRepo) Create(_ context.Context, m *domain.PerformanceMetric) error {
	r.seq++
	m.ID = fmt.Sprintf("perf_%d", r.seq)
	clone := *m
	r.metrics[m.ID] = &clone
	return nil
}

func matchesPerformance(m *domain.PerformanceMetric, filter ports.ListFilter) bool {
	if filter.UserID != "" && m.UserID != filter.UserID {
		return false
	}
	if filter.ProfessionalID != "" && m.ProfessionalID != filter.ProfessionalID {
		return false
	}
	if filter.Metric != "" && m.Metric != filter.Metric {
		return false
	}
	return inPeriod(m.RecordedAt, filter)
}

func (r *stubPerformanceRepo) FindByID(_ context.Context, id string, filter ports.ListFilter) (*domain.PerformanceMetric, error) {
	m, ok := r.metrics[id]
	if !ok || !matchesPerformance(m, ports.ListFilter{UserID: filter.UserID, ProfessionalID: filter.ProfessionalID}) {
		return nil, domain.ErrNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubPerformanceRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.PerformanceMetric, int64, error) {
	var out []*domain.PerformanceMetric
	for _, m := range r.metrics {
		if matchesPerformance(m, filter) {
			clone := *m
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubPerformanceRepo) Update(_ context.Context, id, professionalID string, fields map[string]any) (*domain.PerformanceMetric, error) {
	m, ok := r.metrics[id]
	if !ok || m.ProfessionalID != professionalID {
		return nil, domain.ErrNotFound
	}
	for path, value := range fields {
		switch path {
		case "metric":
			m.Metric = value.(string)
		case "value":
			m.Value = toFloat(value)
		case "unit":
			m.Unit = value.(string)
		case "notes":
			m.Notes = value.(string)
		case "updated_at":
			m.UpdatedAt = value.(time.Time)
		}
	}
	clone := *m
	return &clone, nil
}

func (r *stubPerformanceRepo) Delete(_ context.Context, id, professionalID string) error {
	m, ok := r.metrics[id]
	if !ok || m.ProfessionalID != professionalID {
		return domain.ErrNotFound
	}
	delete(r.metrics, id)
	return nil
}

func (r *stubPerformanceRepo) DeleteByUser(_ context.Context, userID string) error {
	r.purged = append(r.purged, userID)
	for id, m := range r.metrics {
		if m.UserID == userID {
			delete(r.metrics, id)
		}
	}
	return nil
}

// stubAnthropometricRepo is an in-memory AnthropometricRepository.
type stubAnthropometricRepo struct {
	records map[string]*domain.AnthropometricRecord
	seq     int
	purged  []string
}

func newStubAnthropometricRepo() *stubAnthropometricRepo {
	return &stubAnthropometricRepo{records: make(map[string]*domain.AnthropometricRecord)}
}

func (r *stubAnthropometricRepo) Create(_ context.Context, rec *domain.AnthropometricRecord) error {
	r.seq++
	rec.ID = fmt.Sprintf("anthro_%d", r.seq)
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func matchesAnthropometric(rec *domain.AnthropometricRecord, filter ports.ListFilter) bool {
	if filter.UserID != "" && rec.UserID != filter.UserID {
		return false
	}
	if filter.ProfessionalID != "" && rec.ProfessionalID != filter.ProfessionalID {
		return false
	}
	return inPeriod(rec.RecordedAt, filter)
}

func (r *stubAnthropometricRepo) FindByID(_ context.Context, id string, filter ports.ListFilter) (*domain.AnthropometricRecord, error) {
	rec, ok := r.records[id]
	if !ok || !matchesAnthropometric(rec, ports.ListFilter{UserID: filter.UserID, ProfessionalID: filter.ProfessionalID}) {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubAnthropometricRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.AnthropometricRecord, int64, error) {
	var out []*domain.AnthropometricRecord
	for _, rec := range r.records {
		if matchesAnthropometric(rec, filter) {
			clone := *rec
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubAnthropometricRepo) Update(_ context.Context, id, professionalID string, fields map[string]any) (*domain.AnthropometricRecord, error) {
	rec, ok := r.records[id]
	if !ok || rec.ProfessionalID != professionalID {
		return nil, domain.ErrNotFound
	}
	for path, value := range fields {
		switch path {
		case "weight_kg":
			rec.WeightKg = toFloat(value)
		case "height_cm":
			rec.HeightCm = toFloat(value)
		case "body_fat_pct":
			rec.BodyFatPct = toFloat(value)
		case "lean_body_mass_kg":
			rec.LeanBodyMassKg = toFloat(value)
		case "notes":
			rec.Notes = value.(string)
		case "updated_at":
			rec.UpdatedAt = value.(time.Time)
		}
	}
	clone := *rec
	return &clone, nil
}

func (r *stubAnthropometricRepo) Delete(_ context.Context, id, professionalID string) error {
	rec, ok := r.records[id]
	if !ok || rec.ProfessionalID != professionalID {
		return domain.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *stubAnthropometricRepo) DeleteByUser(_ context.Context, userID string) error {
	r.purged = append(r.purged, userID)
	for id, rec := range r.records {
		if rec.UserID == userID {
			delete(r.records, id)
		}
	}
	return nil
}

// stubReportRepo is an in-memory ReportRepository with access-code
// uniqueness enforced like the sparse unique index.
type stubReportRepo struct {
	reports map[string]*domain.Report
	seq     int
}

func newStubReportRepo() *stubReportRepo {
	return &stubReportRepo{reports: make(map[string]*domain.Report)}
}

func (r *stubReportRepo) Create(_ context.Context, report *domain.Report) error {
	r.seq++
	report.ID = fmt.Sprintf("report_%d", r.seq)
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id string, filter ports.ListFilter) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if filter.UserID != "" && report.UserID != filter.UserID {
		return nil, domain.ErrNotFound
	}
	if filter.ProfessionalID != "" && report.ProfessionalID != filter.ProfessionalID {
		return nil, domain.ErrNotFound
	}
	clone := *report
	return &clone, nil
}

func (r *stubReportRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.Report, int64, error) {
	var out []*domain.Report
	for _, report := range r.reports {
		if filter.UserID != "" && report.UserID != filter.UserID {
			continue
		}
		if filter.ProfessionalID != "" && report.ProfessionalID != filter.ProfessionalID {
			continue
		}
		clone := *report
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (r *stubReportRepo) Update(_ context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok || report.ProfessionalID != professionalID {
		return nil, domain.ErrNotFound
	}
	if code, ok := fields["access_code"].(string); ok {
		for otherID, other := range r.reports {
			if otherID != id && other.AccessCode == code {
				return nil, domain.ErrAccessCodeTaken
			}
		}
		report.AccessCode = code
	}
	for path, value := range fields {
		switch path {
		case "title":
			report.Title = value.(string)
		case "shared":
			report.Shared = value.(bool)
		case "shared_at":
			at := value.(time.Time)
			report.SharedAt = &at
		case "updated_at":
			report.UpdatedAt = value.(time.Time)
		}
	}
	clone := *report
	return &clone, nil
}

func (r *stubReportRepo) AssignAccessCode(ctx context.Context, id, professionalID string, fields map[string]any) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok || report.ProfessionalID != professionalID || report.AccessCode != "" {
		return nil, domain.ErrNotFound
	}
	return r.Update(ctx, id, professionalID, fields)
}

func (r *stubReportRepo) Delete(_ context.Context, id, professionalID string) error {
	report, ok := r.reports[id]
	if !ok || report.ProfessionalID != professionalID {
		return domain.ErrNotFound
	}
	delete(r.reports, id)
	return nil
}

func (r *stubReportRepo) FindShared(_ context.Context, accessCode string) (*domain.Report, error) {
	for _, report := range r.reports {
		if report.Shared && report.AccessCode == accessCode {
			clone := *report
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubReportRepo) FindSharedByID(_ context.Context, id string) (*domain.Report, error) {
	report, ok := r.reports[id]
	if !ok || !report.Shared {
		return nil, domain.ErrNotFound
	}
	clone := *report
	return &clone, nil
}

// stubShareCache is an in-memory ShareCache.
type stubShareCache struct {
	entries map[string]string
}

func newStubShareCache() *stubShareCache {
	return &stubShareCache{entries: make(map[string]string)}
}

func (c *stubShareCache) Get(_ context.Context, accessCode string) (string, error) {
	return c.entries[accessCode], nil
}

func (c *stubShareCache) Set(_ context.Context, accessCode, reportID string) error {
	c.entries[accessCode] = reportID
	return nil
}

func (c *stubShareCache) Invalidate(_ context.Context, accessCode string) error {
	delete(c.entries, accessCode)
	return nil
}

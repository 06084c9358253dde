package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

type performanceFixture struct {
	svc   *PerformanceService
	repo  *stubPerformanceRepo
	users *stubUserRepo
}

func newPerformanceFixture() *performanceFixture {
	f := &performanceFixture{
		repo:  newStubPerformanceRepo(),
		users: newStubUserRepo(),
	}
	f.svc = NewPerformanceService(f.repo, f.users, nopLogger)
	return f
}

func TestPerformanceService_Create(t *testing.T) {
	f := newPerformanceFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	m, err := f.svc.Create(context.Background(), profID, ports.CreatePerformanceInput{
		UserID: athleteID,
		Metric: "vo2max",
		Value:  58.2,
		Unit:   "ml/kg/min",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if m.ProfessionalID != profID {
		t.Fatalf("author not stamped: %+v", m)
	}
	if m.RecordedAt.IsZero() {
		t.Fatalf("recorded_at not defaulted")
	}
}

func TestPerformanceService_Create_Rejections(t *testing.T) {
	f := newPerformanceFixture()
	ownerID := f.users.seedProfessional()
	otherID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(ownerID)

	// Unowned athlete is a plain not-found.
	if _, err := f.svc.Create(context.Background(), otherID, ports.CreatePerformanceInput{
		UserID: athleteID, Metric: "vo2max",
	}); err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	_, err := f.svc.Create(context.Background(), ownerID, ports.CreatePerformanceInput{UserID: athleteID})
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("missing metric: expected validation error, got %v", err)
	}
}

func TestPerformanceService_List_Scoping(t *testing.T) {
	f := newPerformanceFixture()
	profID := f.users.seedProfessional()
	otherProfID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)
	otherAthleteID := f.users.seedAthlete(otherProfID)

	if _, err := f.svc.Create(context.Background(), profID, ports.CreatePerformanceInput{UserID: athleteID, Metric: "vo2max"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), profID, ports.CreatePerformanceInput{UserID: athleteID, Metric: "sprint_40m"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Create(context.Background(), otherProfID, ports.CreatePerformanceInput{UserID: otherAthleteID, Metric: "vo2max"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Athletes see only their own, regardless of requested filters.
	list, err := f.svc.List(context.Background(), athleteCaller(athleteID), ports.ListFilter{UserID: otherAthleteID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Pagination.Total != 2 {
		t.Fatalf("athlete scope: expected 2, got %d", list.Pagination.Total)
	}

	// Professionals see only what they authored.
	list, err = f.svc.List(context.Background(), professionalCaller(otherProfID), ports.ListFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Pagination.Total != 1 {
		t.Fatalf("professional scope: expected 1, got %d", list.Pagination.Total)
	}

	// A foreign athlete's id never widens a professional's scope.
	list, err = f.svc.List(context.Background(), professionalCaller(otherProfID), ports.ListFilter{UserID: athleteID})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Pagination.Total != 0 {
		t.Fatalf("cross scope: expected 0, got %d", list.Pagination.Total)
	}

	// Metric facet.
	list, err = f.svc.List(context.Background(), professionalCaller(profID), ports.ListFilter{Metric: "vo2max"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if list.Pagination.Total != 1 {
		t.Fatalf("metric facet: expected 1, got %d", list.Pagination.Total)
	}
}

func TestPerformanceService_Get_Scoping(t *testing.T) {
	f := newPerformanceFixture()
	profID := f.users.seedProfessional()
	otherProfID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)
	strangerID := f.users.seedAthlete(otherProfID)

	m, err := f.svc.Create(context.Background(), profID, ports.CreatePerformanceInput{UserID: athleteID, Metric: "vo2max"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.svc.Get(context.Background(), athleteCaller(athleteID), m.ID); err != nil {
		t.Fatalf("athlete read failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), professionalCaller(profID), m.ID); err != nil {
		t.Fatalf("author read failed: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), athleteCaller(strangerID), m.ID); err != domain.ErrNotFound {
		t.Fatalf("foreign athlete: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Get(context.Background(), professionalCaller(otherProfID), m.ID); err != domain.ErrNotFound {
		t.Fatalf("foreign professional: expected ErrNotFound, got %v", err)
	}
}

func TestPerformanceService_UpdateDelete_AuthorScoped(t *testing.T) {
	f := newPerformanceFixture()
	profID := f.users.seedProfessional()
	otherProfID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	m, err := f.svc.Create(context.Background(), profID, ports.CreatePerformanceInput{UserID: athleteID, Metric: "vo2max", Value: 50})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), profID, m.ID, map[string]any{"value": 52.5})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Value != 52.5 {
		t.Fatalf("value not merged: %+v", updated)
	}

	if _, err := f.svc.Update(context.Background(), otherProfID, m.ID, map[string]any{"value": 1.0}); err != domain.ErrNotFound {
		t.Fatalf("foreign update: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Update(context.Background(), profID, m.ID, map[string]any{"userId": "x"}); err != domain.ErrInvalidUpdate {
		t.Fatalf("expected ErrInvalidUpdate, got %v", err)
	}

	if err := f.svc.Delete(context.Background(), otherProfID, m.ID); err != domain.ErrNotFound {
		t.Fatalf("foreign delete: expected ErrNotFound, got %v", err)
	}
	if err := f.svc.Delete(context.Background(), profID, m.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
}

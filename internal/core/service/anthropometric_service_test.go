package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/vitaltrack/health-system/internal/core/domain"
	"github.com/vitaltrack/health-system/internal/core/ports"
)

type anthropometricFixture struct {
	svc   *AnthropometricService
	repo  *stubAnthropometricRepo
	users *stubUserRepo
}

func newAnthropometricFixture() *anthropometricFixture {
	f := &anthropometricFixture{
		repo:  newStubAnthropometricRepo(),
		users: newStubUserRepo(),
	}
	f.svc = NewAnthropometricService(f.repo, f.users, nopLogger)
	return f
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnthropometricService_Create_DerivesLeanBodyMass(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	rec, err := f.svc.Create(context.Background(), profID, ports.CreateAnthropometricInput{
		UserID:     athleteID,
		WeightKg:   80,
		HeightCm:   182,
		BodyFatPct: 25,
		// A client-supplied lean mass does not exist as an input at all;
		// the field is always recomputed server-side.
		Measurements: map[string]float64{"bicep_cm": 34},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !almostEqual(rec.LeanBodyMassKg, 60) {
		t.Fatalf("expected lean body mass 60, got %v", rec.LeanBodyMassKg)
	}
	if rec.ProfessionalID != profID {
		t.Fatalf("author not stamped: %+v", rec)
	}
}

func TestAnthropometricService_Create_ZeroBodyFat(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	rec, err := f.svc.Create(context.Background(), profID, ports.CreateAnthropometricInput{
		UserID:   athleteID,
		WeightKg: 72.5,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !almostEqual(rec.LeanBodyMassKg, 72.5) {
		t.Fatalf("zero body fat: lean mass must equal weight, got %v", rec.LeanBodyMassKg)
	}
}

func TestAnthropometricService_Create_Validation(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	cases := []ports.CreateAnthropometricInput{
		{UserID: athleteID, WeightKg: 0},
		{UserID: athleteID, WeightKg: -5},
		{UserID: athleteID, WeightKg: 70, BodyFatPct: 130},
		{UserID: athleteID, WeightKg: 70, BodyFatPct: -1},
	}
	for _, input := range cases {
		_, err := f.svc.Create(context.Background(), profID, input)
		var vErr *domain.ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("input %+v: expected validation error, got %v", input, err)
		}
	}
}

func TestAnthropometricService_Create_UnownedAthlete(t *testing.T) {
	f := newAnthropometricFixture()
	ownerID := f.users.seedProfessional()
	otherID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(ownerID)

	_, err := f.svc.Create(context.Background(), otherID, ports.CreateAnthropometricInput{
		UserID: athleteID, WeightKg: 70,
	})
	if err != domain.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnthropometricService_Update_RecomputesLeanBodyMass(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	rec, err := f.svc.Create(context.Background(), profID, ports.CreateAnthropometricInput{
		UserID: athleteID, WeightKg: 80, BodyFatPct: 25,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := f.svc.Update(context.Background(), profID, rec.ID, map[string]any{"bodyFatPct": 20.0})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almostEqual(updated.LeanBodyMassKg, 64) {
		t.Fatalf("expected lean body mass 64, got %v", updated.LeanBodyMassKg)
	}

	updated, err = f.svc.Update(context.Background(), profID, rec.ID, map[string]any{"weightKg": 90.0})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almostEqual(updated.LeanBodyMassKg, 72) {
		t.Fatalf("expected lean body mass 72, got %v", updated.LeanBodyMassKg)
	}

	// Updates that do not touch the inputs leave the derived value alone.
	updated, err = f.svc.Update(context.Background(), profID, rec.ID, map[string]any{"notes": "post-season"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almostEqual(updated.LeanBodyMassKg, 72) {
		t.Fatalf("lean body mass must be unchanged, got %v", updated.LeanBodyMassKg)
	}
}

func TestAnthropometricService_Update_BadValueRejectsAll(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	rec, err := f.svc.Create(context.Background(), profID, ports.CreateAnthropometricInput{
		UserID: athleteID, WeightKg: 80, BodyFatPct: 25,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	cases := []struct {
		name    string
		updates map[string]any
	}{
		{"weight as string", map[string]any{"weightKg": "heavy", "notes": "x"}},
		{"weight not positive", map[string]any{"weightKg": 0}},
		{"body fat out of range", map[string]any{"bodyFatPct": 130.0}},
		{"recordedAt garbage", map[string]any{"recordedAt": "yesterday"}},
		{"measurements non-numeric", map[string]any{"measurements": map[string]any{"bicep": "big"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Update(context.Background(), profID, rec.ID, tc.updates)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if got := f.repo.records[rec.ID].WeightKg; got != 80 {
		t.Fatalf("bad value reached storage, weight %v", got)
	}
}

func TestAnthropometricService_Update_UnknownFieldRejectsAll(t *testing.T) {
	f := newAnthropometricFixture()
	profID := f.users.seedProfessional()
	athleteID := f.users.seedAthlete(profID)

	rec, err := f.svc.Create(context.Background(), profID, ports.CreateAnthropometricInput{
		UserID: athleteID, WeightKg: 80,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := f.svc.Update(context.Background(), profID, rec.ID, map[string]any{
		"weightKg":       85.0,
		"leanBodyMassKg": 10.0,
	}); err != domain.ErrInvalidUpdate {
		t.Fatalf("expected ErrInvalidUpdate, got %v", err)
	}
	if got := f.repo.records[rec.ID].WeightKg; got != 80 {
		t.Fatalf("partial update applied despite unknown field, weight %v", got)
	}
}

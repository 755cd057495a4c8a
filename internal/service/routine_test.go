package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/dailystretch/internal/apperror"
)

func newRoutineService() (*RoutineService, *fakeRoutineRepo, *fakeFavoriteRepo) {
	routines := newFakeRoutineRepo()
	favorites := newFakeFavoriteRepo()
	return NewRoutineService(routines, favorites, testLogger()), routines, favorites
}

func validRoutine() RoutineInput {
	return RoutineInput{
		Title:           "Morning neck stretch",
		Description:     "Gentle start to the day",
		Category:        "neck",
		Difficulty:      "easy",
		DurationMinutes: 10,
		Instructions:    "Tilt slowly to each side.",
	}
}

func TestCreateRoutine(t *testing.T) {
	svc, _, _ := newRoutineService()

	routine, err := svc.Create(context.Background(), validRoutine())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if routine.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	// The display duration is always derived, never client-supplied.
	if routine.DurationText != "10 min" {
		t.Errorf("DurationText = %q, want %q", routine.DurationText, "10 min")
	}
}

func TestCreateRoutineValidation(t *testing.T) {
	svc, _, _ := newRoutineService()

	in := validRoutine()
	in.Title = "   "
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() with blank title: err = %v, want validation error", err)
	}

	in = validRoutine()
	in.DurationMinutes = 0
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Create() with zero duration: err = %v, want validation error", err)
	}
}

func TestUpdateRoutine(t *testing.T) {
	svc, _, _ := newRoutineService()

	routine, err := svc.Create(context.Background(), validRoutine())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	in := validRoutine()
	in.Title = "Evening neck stretch"
	in.DurationMinutes = 15

	updated, err := svc.Update(context.Background(), routine.ID, in)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Evening neck stretch" {
		t.Errorf("Title = %q, want %q", updated.Title, "Evening neck stretch")
	}
	if updated.DurationText != "15 min" {
		t.Errorf("DurationText = %q, want %q (re-derived)", updated.DurationText, "15 min")
	}
}

func TestUpdateRoutineNotFound(t *testing.T) {
	svc, _, _ := newRoutineService()

	if _, err := svc.Update(context.Background(), "missing", validRoutine()); err == nil {
		t.Error("Update() on a missing routine should fail")
	}
}

func TestDeleteRoutine(t *testing.T) {
	svc, routines, _ := newRoutineService()

	routine, err := svc.Create(context.Background(), validRoutine())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), routine.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := routines.routines[routine.ID]; ok {
		t.Error("Delete() did not remove the routine")
	}
}

// =========================================================================
// FAVORITE TESTS
// =========================================================================

func TestToggleFavorite(t *testing.T) {
	svc, _, _ := newRoutineService()

	routine, err := svc.Create(context.Background(), validRoutine())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// First toggle favorites, second unfavorites — double-toggle returns to
	// the original state.
	favorited, err := svc.ToggleFavorite(context.Background(), "user-1", routine.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !favorited {
		t.Error("first toggle should favorite (true)")
	}

	favorited, err = svc.ToggleFavorite(context.Background(), "user-1", routine.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if favorited {
		t.Error("second toggle should unfavorite (false)")
	}

	ids, err := svc.ListFavoriteIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListFavoriteIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("favorites after double-toggle = %v, want none", ids)
	}
}

func TestToggleFavoriteErrors(t *testing.T) {
	svc, _, _ := newRoutineService()

	if _, err := svc.ToggleFavorite(context.Background(), "user-1", ""); !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("missing id: err = %v, want validation error", err)
	}
	if _, err := svc.ToggleFavorite(context.Background(), "user-1", "missing"); err == nil {
		t.Error("unknown routine id should fail")
	}
}

func TestListFavoriteIDsPerUser(t *testing.T) {
	svc, _, _ := newRoutineService()

	r1, _ := svc.Create(context.Background(), validRoutine())
	r2, _ := svc.Create(context.Background(), validRoutine())

	if _, err := svc.ToggleFavorite(context.Background(), "user-1", r1.ID); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if _, err := svc.ToggleFavorite(context.Background(), "user-2", r2.ID); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}

	ids, err := svc.ListFavoriteIDs(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListFavoriteIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != r1.ID {
		t.Errorf("user-1 favorites = %v, want [%s] only", ids, r1.ID)
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

// RoutineService handles the stretching catalog and favorites. Catalog
// mutations are superuser-only; that check lives in the RequireSuperuser
// middleware, so by the time these methods run the caller is authorized.
type RoutineService struct {
	routines  repository.RoutineRepository
	favorites repository.FavoriteRepository
	logger    *slog.Logger
}

// NewRoutineService creates a RoutineService.
func NewRoutineService(
	routines repository.RoutineRepository,
	favorites repository.FavoriteRepository,
	logger *slog.Logger,
) *RoutineService {
	return &RoutineService{
		routines:  routines,
		favorites: favorites,
		logger:    logger,
	}
}

// RoutineInput is the admin form for creating or updating a routine.
type RoutineInput struct {
	Title           string
	Description     string
	Category        string
	Difficulty      string
	DurationMinutes int
	Instructions    string
}

// durationText derives the display string shown in the catalog. Clients
// never send it; it always tracks the numeric minutes.
func durationText(minutes int) string {
	return fmt.Sprintf("%d min", minutes)
}

func validateRoutine(in *RoutineInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return apperror.ValidationFailed("title", "Title is required")
	}
	if in.DurationMinutes <= 0 {
		return apperror.ValidationFailed("duration_minutes", "Duration is required")
	}
	return nil
}

// Create adds a routine to the catalog.
func (s *RoutineService) Create(ctx context.Context, in RoutineInput) (*model.Routine, error) {
	if err := validateRoutine(&in); err != nil {
		return nil, err
	}

	routine := &model.Routine{
		Title:           in.Title,
		Description:     strings.TrimSpace(in.Description),
		Category:        strings.TrimSpace(in.Category),
		Difficulty:      strings.TrimSpace(in.Difficulty),
		DurationText:    durationText(in.DurationMinutes),
		DurationMinutes: in.DurationMinutes,
		Instructions:    strings.TrimSpace(in.Instructions),
	}

	if err := s.routines.Create(ctx, routine); err != nil {
		s.logger.Error("failed to create routine",
			slog.String("title", in.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating routine: %w", err)
	}

	s.logger.Info("routine created",
		slog.String("id", routine.ID),
		slog.String("title", routine.Title),
	)

	return routine, nil
}

// Update replaces an existing routine's fields.
// Returns apperror.ErrNotFound if the routine doesn't exist.
func (s *RoutineService) Update(ctx context.Context, id string, in RoutineInput) (*model.Routine, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "Routine ID is required")
	}
	if err := validateRoutine(&in); err != nil {
		return nil, err
	}

	routine, err := s.routines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	routine.Title = in.Title
	routine.Description = strings.TrimSpace(in.Description)
	routine.Category = strings.TrimSpace(in.Category)
	routine.Difficulty = strings.TrimSpace(in.Difficulty)
	routine.DurationMinutes = in.DurationMinutes
	routine.DurationText = durationText(in.DurationMinutes)
	routine.Instructions = strings.TrimSpace(in.Instructions)

	if err := s.routines.Update(ctx, routine); err != nil {
		s.logger.Error("failed to update routine",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating routine: %w", err)
	}

	s.logger.Info("routine updated", slog.String("id", id))

	return routine, nil
}

// Delete removes a routine (favorites pointing at it cascade away).
func (s *RoutineService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "Routine ID is required")
	}

	if err := s.routines.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("routine deleted", slog.String("id", id))
	return nil
}

// List returns the whole catalog.
func (s *RoutineService) List(ctx context.Context) ([]model.Routine, error) {
	routines, err := s.routines.List(ctx)
	if err != nil {
		s.logger.Error("failed to list routines", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing routines: %w", err)
	}
	return routines, nil
}

// ToggleFavorite flips the favorite state of (userID, routineID) and returns
// the new state: true if the pair now exists, false if it was removed.
//
// The flip is idempotent under double-toggle — two toggles land back on the
// original state. The routine must exist; a bogus ID is ErrNotFound, not a
// silent favorite of nothing.
func (s *RoutineService) ToggleFavorite(ctx context.Context, userID, routineID string) (bool, error) {
	routineID = strings.TrimSpace(routineID)
	if routineID == "" {
		return false, apperror.ValidationFailed("routine_id", "Missing ID")
	}

	if _, err := s.routines.GetByID(ctx, routineID); err != nil {
		return false, err
	}

	exists, err := s.favorites.Exists(ctx, userID, routineID)
	if err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}

	if exists {
		if err := s.favorites.Delete(ctx, userID, routineID); err != nil {
			return false, fmt.Errorf("toggling favorite: %w", err)
		}
		return false, nil
	}

	fav := &model.Favorite{UserID: userID, RoutineID: routineID}
	if err := s.favorites.Create(ctx, fav); err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}
	return true, nil
}

// ListFavoriteIDs returns the routine ids the user has favorited.
func (s *RoutineService) ListFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.favorites.ListRoutineIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	return ids, nil
}

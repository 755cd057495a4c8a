package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

// AdminService handles role management from the admin panel.
type AdminService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewAdminService creates an AdminService.
func NewAdminService(users repository.UserRepository, logger *slog.Logger) *AdminService {
	return &AdminService{users: users, logger: logger}
}

// ToggleAdminStatus flips both role flags on the target account and returns
// the updated record.
//
// actorID is the superuser performing the toggle (already authorized by the
// middleware). Self-demotion is refused: if every superuser could demote
// themself, the last one doing so would lock everyone out of the admin
// panel for good.
func (s *AdminService) ToggleAdminStatus(ctx context.Context, actorID, targetID string) (*model.User, error) {
	if targetID == "" {
		return nil, apperror.ValidationFailed("user_id", "Missing user ID")
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if target.ID == actorID && target.IsSuperuser {
		return nil, apperror.Forbidden("You cannot remove your own admin status")
	}

	// Both flags move together: staff gets you into the admin panel,
	// superuser lets you change things once there.
	granting := !target.IsSuperuser
	target.IsStaff = granting
	target.IsSuperuser = granting

	if err := s.users.Update(ctx, target); err != nil {
		return nil, fmt.Errorf("service/admin: updating roles for user %s: %w", targetID, err)
	}

	s.logger.Info("admin status toggled",
		slog.String("actorID", actorID),
		slog.String("targetID", targetID),
		slog.Bool("isSuperuser", target.IsSuperuser),
	)

	return target, nil
}

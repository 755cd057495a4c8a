// Package repository declares the storage interfaces consumed by the service
// layer. The sqlite subpackage provides the concrete implementation; tests
// use hand-written in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/dailystretch/internal/model"
)

// UserRepository stores account records.
//
// UsernameTaken and EmailTaken accept an excludeID so the profile edit flow
// can re-check uniqueness without tripping over the caller's own row; pass ""
// at registration time when no account exists yet.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}

// ProfileRepository stores the one-to-one profile extension.
// GetOrCreate reports created=true when it had to insert the row, so the
// provisioner can tell first-time provisioning from a no-op.
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID string) (profile *model.Profile, created bool, err error)
	Update(ctx context.Context, profile *model.Profile) error
}

// SettingsRepository stores the one-to-one settings extension. Rows are
// always created with the defaults from the model package.
type SettingsRepository interface {
	GetOrCreate(ctx context.Context, userID string) (settings *model.Settings, created bool, err error)
	Update(ctx context.Context, settings *model.Settings) error
}

// RoutineRepository stores the stretching catalog.
type RoutineRepository interface {
	Create(ctx context.Context, routine *model.Routine) error
	GetByID(ctx context.Context, id string) (*model.Routine, error)
	List(ctx context.Context) ([]model.Routine, error)
	Update(ctx context.Context, routine *model.Routine) error
	Delete(ctx context.Context, id string) error
}

// FavoriteRepository stores (user, routine) favorite pairs. The toggle
// semantics (exists → delete, absent → create) live in the service layer.
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, routineID string) (bool, error)
	Create(ctx context.Context, fav *model.Favorite) error
	Delete(ctx context.Context, userID, routineID string) error
	ListRoutineIDs(ctx context.Context, userID string) ([]string, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

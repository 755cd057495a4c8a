package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implements repository.ProfileRepository against the profiles
// table. Obtain one via DB.Profiles().
type ProfileRepo struct {
	conn *sql.DB
}

// Profiles returns the profile repository backed by this database.
func (db *DB) Profiles() *ProfileRepo {
	return &ProfileRepo{conn: db.conn}
}

// GetOrCreate returns the user's profile, inserting an empty one first if it
// doesn't exist yet.
//
// GET-OR-CREATE AND THE PROVISIONER:
// The provisioner calls this right after registration, and every profile
// read path calls it again. That makes provisioning idempotent for free —
// a second invocation for the same user is a plain SELECT.
//
// There is a check-then-insert gap: two concurrent first reads can both see
// "no row" and both try to INSERT. The UNIQUE constraint on user_id makes
// the loser fail, and we recover by re-reading the winner's row instead of
// reporting an error.
func (r *ProfileRepo) GetOrCreate(ctx context.Context, userID string) (*model.Profile, bool, error) {
	p, err := r.get(ctx, userID)
	if err == nil {
		return p, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("sqlite: getting profile for user %s: %w", userID, err)
	}

	now := time.Now()
	p = &model.Profile{
		ID:        xid.New().String(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO profiles (id, user_id, bio, date_of_birth, photo_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Bio, p.DateOfBirth, p.PhotoPath, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		// Lost a create race — the row exists now, return it.
		if existing, gerr := r.get(ctx, userID); gerr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("sqlite: creating profile for user %s: %w", userID, err)
	}

	return p, true, nil
}

func (r *ProfileRepo) get(ctx context.Context, userID string) (*model.Profile, error) {
	var p model.Profile
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, bio, date_of_birth, photo_path, created_at, updated_at
		 FROM profiles WHERE user_id = ?`,
		userID,
	).Scan(&p.ID, &p.UserID, &p.Bio, &p.DateOfBirth, &p.PhotoPath, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update persists bio, date of birth, and photo path changes.
func (r *ProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`UPDATE profiles SET bio = ?, date_of_birth = ?, photo_path = ?, updated_at = ?
		 WHERE id = ?`,
		profile.Bio, profile.DateOfBirth, profile.PhotoPath, profile.UpdatedAt, profile.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating profile %s: %w", profile.ID, err)
	}
	return nil
}

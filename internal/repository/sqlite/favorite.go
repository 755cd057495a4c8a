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

var _ repository.FavoriteRepository = (*FavoriteRepo)(nil)

// FavoriteRepo implements repository.FavoriteRepository against the
// favorites table. Obtain one via DB.Favorites().
type FavoriteRepo struct {
	conn *sql.DB
}

// Favorites returns the favorite repository backed by this database.
func (db *DB) Favorites() *FavoriteRepo {
	return &FavoriteRepo{conn: db.conn}
}

// Exists reports whether the (user, routine) pair is currently favorited.
func (r *FavoriteRepo) Exists(ctx context.Context, userID, routineID string) (bool, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND routine_id = ?`,
		userID, routineID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking favorite (%s, %s): %w", userID, routineID, err)
	}
	return count > 0, nil
}

// Create inserts a favorite pair. The UNIQUE (user_id, routine_id)
// constraint rejects duplicates if two toggles race; the service treats that
// as "already favorited".
func (r *FavoriteRepo) Create(ctx context.Context, fav *model.Favorite) error {
	fav.ID = xid.New().String()
	fav.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, routine_id, created_at) VALUES (?, ?, ?, ?)`,
		fav.ID, fav.UserID, fav.RoutineID, fav.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting favorite (%s, %s): %w", fav.UserID, fav.RoutineID, err)
	}
	return nil
}

// Delete removes a favorite pair. Deleting an absent pair is a no-op, which
// keeps the toggle idempotent under races.
func (r *FavoriteRepo) Delete(ctx context.Context, userID, routineID string) error {
	_, err := r.conn.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND routine_id = ?`,
		userID, routineID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting favorite (%s, %s): %w", userID, routineID, err)
	}
	return nil
}

// ListRoutineIDs returns the ids of every routine the user has favorited,
// oldest favorite first.
func (r *FavoriteRepo) ListRoutineIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT routine_id FROM favorites WHERE user_id = ? ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing favorites for user %s: %w", userID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating favorites: %w", err)
	}

	return ids, nil
}

// CountByUser returns how many routines the user has favorited (shown on the
// dashboard).
func (r *FavoriteRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ?`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting favorites for user %s: %w", userID, err)
	}
	return count, nil
}

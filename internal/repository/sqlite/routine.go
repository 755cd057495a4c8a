package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/dailystretch/internal/apperror"
	"github.com/sakif/dailystretch/internal/model"
	"github.com/sakif/dailystretch/internal/repository"
)

var _ repository.RoutineRepository = (*RoutineRepo)(nil)

// RoutineRepo implements repository.RoutineRepository against the routines
// table. Obtain one via DB.Routines().
type RoutineRepo struct {
	conn *sql.DB
}

// Routines returns the routine repository backed by this database.
func (db *DB) Routines() *RoutineRepo {
	return &RoutineRepo{conn: db.conn}
}

// Create inserts a new catalog entry, filling in ID and CreatedAt.
func (r *RoutineRepo) Create(ctx context.Context, routine *model.Routine) error {
	routine.ID = xid.New().String()
	routine.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO routines (id, title, description, category, difficulty, duration_text, duration_minutes, instructions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		routine.ID,
		routine.Title,
		routine.Description,
		routine.Category,
		routine.Difficulty,
		routine.DurationText,
		routine.DurationMinutes,
		routine.Instructions,
		routine.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting routine %q: %w", routine.Title, err)
	}

	return nil
}

// GetByID retrieves a routine. Returns apperror.ErrNotFound if it doesn't exist.
func (r *RoutineRepo) GetByID(ctx context.Context, id string) (*model.Routine, error) {
	var rt model.Routine

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, title, description, category, difficulty, duration_text, duration_minutes, instructions, created_at
		 FROM routines WHERE id = ?`,
		id,
	).Scan(
		&rt.ID,
		&rt.Title,
		&rt.Description,
		&rt.Category,
		&rt.Difficulty,
		&rt.DurationText,
		&rt.DurationMinutes,
		&rt.Instructions,
		&rt.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("routine", id)
		}
		return nil, fmt.Errorf("sqlite: getting routine %s: %w", id, err)
	}

	return &rt, nil
}

// List returns the full catalog ordered by insertion (the catalog is small —
// a few dozen routines — so no pagination).
func (r *RoutineRepo) List(ctx context.Context) ([]model.Routine, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, title, description, category, difficulty, duration_text, duration_minutes, instructions, created_at
		 FROM routines ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing routines: %w", err)
	}
	defer rows.Close()

	// Initialise to an empty slice (not nil) so JSON encodes [] instead of null.
	routines := []model.Routine{}
	for rows.Next() {
		var rt model.Routine
		if err := rows.Scan(
			&rt.ID,
			&rt.Title,
			&rt.Description,
			&rt.Category,
			&rt.Difficulty,
			&rt.DurationText,
			&rt.DurationMinutes,
			&rt.Instructions,
			&rt.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning routine: %w", err)
		}
		routines = append(routines, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating routines: %w", err)
	}

	return routines, nil
}

// Update persists changes to an existing routine.
// Returns apperror.ErrNotFound if the routine doesn't exist.
func (r *RoutineRepo) Update(ctx context.Context, routine *model.Routine) error {
	res, err := r.conn.ExecContext(ctx,
		`UPDATE routines SET title = ?, description = ?, category = ?, difficulty = ?, duration_text = ?, duration_minutes = ?, instructions = ?
		 WHERE id = ?`,
		routine.Title,
		routine.Description,
		routine.Category,
		routine.Difficulty,
		routine.DurationText,
		routine.DurationMinutes,
		routine.Instructions,
		routine.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating routine %s: %w", routine.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of routine %s: %w", routine.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound("routine", routine.ID)
	}

	return nil
}

// Delete removes a routine. Favorites referencing it go with it via
// ON DELETE CASCADE. Returns apperror.ErrNotFound if it doesn't exist.
func (r *RoutineRepo) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM routines WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting routine %s: %w", id, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking delete of routine %s: %w", id, err)
	}
	if rows == 0 {
		return apperror.NotFound("routine", id)
	}

	return nil
}

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

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo implements repository.SettingsRepository against the
// user_settings table. Obtain one via DB.Settings().
type SettingsRepo struct {
	conn *sql.DB
}

// Settings returns the settings repository backed by this database.
func (db *DB) Settings() *SettingsRepo {
	return &SettingsRepo{conn: db.conn}
}

// GetOrCreate returns the user's settings, inserting a row with the stock
// defaults (25/5, light theme) on first access. Same race recovery as
// ProfileRepo.GetOrCreate: a lost INSERT race re-reads the winner's row.
func (r *SettingsRepo) GetOrCreate(ctx context.Context, userID string) (*model.Settings, bool, error) {
	s, err := r.get(ctx, userID)
	if err == nil {
		return s, false, nil
	}
	if err != sql.ErrNoRows {
		return nil, false, fmt.Errorf("sqlite: getting settings for user %s: %w", userID, err)
	}

	now := time.Now()
	s = model.NewDefaultSettings(userID)
	s.ID = xid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err = r.conn.ExecContext(ctx,
		`INSERT INTO user_settings (id, user_id, study_duration, break_duration, theme, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.StudyDuration, s.BreakDuration, s.Theme, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if existing, gerr := r.get(ctx, userID); gerr == nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("sqlite: creating settings for user %s: %w", userID, err)
	}

	return s, true, nil
}

func (r *SettingsRepo) get(ctx context.Context, userID string) (*model.Settings, error) {
	var s model.Settings
	err := r.conn.QueryRowContext(ctx,
		`SELECT id, user_id, study_duration, break_duration, theme, created_at, updated_at
		 FROM user_settings WHERE user_id = ?`,
		userID,
	).Scan(&s.ID, &s.UserID, &s.StudyDuration, &s.BreakDuration, &s.Theme, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update persists duration and theme changes.
func (r *SettingsRepo) Update(ctx context.Context, settings *model.Settings) error {
	settings.UpdatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`UPDATE user_settings SET study_duration = ?, break_duration = ?, theme = ?, updated_at = ?
		 WHERE id = ?`,
		settings.StudyDuration, settings.BreakDuration, settings.Theme, settings.UpdatedAt, settings.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating settings %s: %w", settings.ID, err)
	}
	return nil
}

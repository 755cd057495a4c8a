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

// compile-time check that *UserRepo implements repository.UserRepository
var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implements repository.UserRepository against the users table.
// Obtain one via DB.Users().
type UserRepo struct {
	conn *sql.DB
}

// Users returns the user repository backed by this database.
func (db *DB) Users() *UserRepo {
	return &UserRepo{conn: db.conn}
}

// Create inserts a new account row. ID and timestamps are filled in here so
// the caller gets the canonical record back in the same struct.
//
// The UNIQUE constraints on username and email are the real duplicate guard:
// the registration service checks existence first for friendly error
// messages, but if two registrations race between check and insert, the
// second one fails here and surfaces as a generic error — acceptable at this
// app's traffic.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, is_staff, is_superuser, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
		user.IsSuperuser,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Username, err)
	}

	return nil
}

// GetByID retrieves a user by their internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

// GetByUsername retrieves a user by username (exact match — usernames are
// stored as entered). Used by the login flow.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.get(ctx, `WHERE username = ?`, username)
}

func (r *UserRepo) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_staff, is_superuser, created_at, updated_at
		 FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}

// Update persists username, email, role flag, and password hash changes for
// an existing account.
func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	res, err := r.conn.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, password_hash = ?, is_staff = ?, is_superuser = ?, updated_at = ?
		 WHERE id = ?`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.IsStaff,
		user.IsSuperuser,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking update of user %s: %w", user.ID, err)
	}
	if rows == 0 {
		return apperror.NotFound("user", user.ID)
	}

	return nil
}

// UsernameTaken reports whether another account already uses the username.
// excludeID is skipped so the profile edit flow doesn't collide with itself;
// pass "" during registration.
func (r *UserRepo) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	return r.taken(ctx, "username", username, excludeID)
}

// EmailTaken reports whether another account already uses the email.
func (r *UserRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	return r.taken(ctx, "email", email, excludeID)
}

func (r *UserRepo) taken(ctx context.Context, column, value, excludeID string) (bool, error) {
	var count int
	// column is one of two compile-time constants above, never user input.
	err := r.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+column+` = ? AND id != ?`,
		value, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking %s %q: %w", column, value, err)
	}
	return count > 0, nil
}

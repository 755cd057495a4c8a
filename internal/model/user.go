// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// We authenticate with a username + bcrypt-hashed password. The internal
// string ID (xid) is the primary key everywhere — never the username, which
// the user is allowed to change from the profile page.
//
// WHY TWO ROLE FLAGS?
// IsStaff and IsSuperuser always flip together in this app (registration with
// a valid admin code sets both, the admin toggle flips both). We keep them as
// separate columns anyway because they mean different things: staff can see
// the admin panel, superuser can mutate the catalog and other users' roles.
//
// PasswordHash is tagged json:"-" so it can never leak into an API response,
// no matter how carelessly a handler encodes the struct.
type User struct {
	ID           string    `json:"id"          db:"id"`
	Username     string    `json:"username"    db:"username"`
	Email        string    `json:"email"       db:"email"`
	PasswordHash string    `json:"-"           db:"password_hash"`
	IsStaff      bool      `json:"isStaff"     db:"is_staff"`
	IsSuperuser  bool      `json:"isSuperuser" db:"is_superuser"`
	CreatedAt    time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt"   db:"updated_at"`
}

package model

import "time"

// Profile is the one-to-one extension of a User holding the editable
// profile page fields.
//
// Exactly one Profile exists per User. It is created by the provisioner
// right after registration, but every read path still goes through
// get-or-create so an account that somehow lost its profile (manual DB
// surgery, partial restore) self-heals on next access.
//
// PhotoPath is a path relative to the media root, e.g.
// "profile_pictures/cv37rs3pp9olc6atsptg.png". Empty means "no photo".
// The publicly resolvable URL is derived by the media store ("/media/" + path)
// — we never persist absolute URLs, so the media mount can move without a
// data migration.
type Profile struct {
	ID          string     `json:"id"          db:"id"`
	UserID      string     `json:"userId"      db:"user_id"`
	Bio         string     `json:"bio"         db:"bio"`
	DateOfBirth *time.Time `json:"dateOfBirth" db:"date_of_birth"` // nil = not set
	PhotoPath   string     `json:"-"           db:"photo_path"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`
}

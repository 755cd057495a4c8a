package model

import "time"

// Settings defaults. New accounts (and accounts whose settings row is
// lazily re-created) start with a 25/5 pomodoro split and the light theme.
const (
	DefaultStudyDuration = 25
	DefaultBreakDuration = 5
	DefaultTheme         = "light"
)

// Settings is the one-to-one extension of a User holding timer preferences
// and the UI theme. Like Profile, it is provisioned at registration and
// lazily get-or-created everywhere else.
type Settings struct {
	ID            string    `json:"id"            db:"id"`
	UserID        string    `json:"userId"        db:"user_id"`
	StudyDuration int       `json:"studyDuration" db:"study_duration"` // minutes, > 0
	BreakDuration int       `json:"breakDuration" db:"break_duration"` // minutes, > 0
	Theme         string    `json:"theme"         db:"theme"`
	CreatedAt     time.Time `json:"createdAt"     db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt"     db:"updated_at"`
}

// NewDefaultSettings returns a Settings row with the stock defaults for the
// given user. The repository fills in ID and timestamps on insert.
func NewDefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:        userID,
		StudyDuration: DefaultStudyDuration,
		BreakDuration: DefaultBreakDuration,
		Theme:         DefaultTheme,
	}
}

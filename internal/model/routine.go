package model

import "time"

// Routine is one entry in the stretching catalog. Only superusers create,
// update, or delete routines; everyone else reads them.
//
// DurationText is a display string ("10 min") derived from DurationMinutes
// by the routine service whenever the minutes change — clients never send it.
type Routine struct {
	ID              string    `json:"id"               db:"id"`
	Title           string    `json:"title"            db:"title"`
	Description     string    `json:"description"      db:"description"`
	Category        string    `json:"category"         db:"category"`
	Difficulty      string    `json:"difficulty"       db:"difficulty"`
	DurationText    string    `json:"duration_text"    db:"duration_text"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	Instructions    string    `json:"instructions"     db:"instructions"`
	CreatedAt       time.Time `json:"createdAt"        db:"created_at"`
}

// Favorite marks a routine as favorited by a user. The (user, routine) pair
// is unique — toggling an existing pair deletes the row.
type Favorite struct {
	ID        string    `json:"id"        db:"id"`
	UserID    string    `json:"userId"    db:"user_id"`
	RoutineID string    `json:"routineId" db:"routine_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

package models

import "time"

// Settings holds a user's scheduling preferences. These become the defaults
// for schedule generation when the request omits them.
type Settings struct {
	ID              int64     `db:"id" json:"id"`
	UserID          int64     `db:"user_id" json:"user_id"`
	Timezone        string    `db:"timezone" json:"timezone"`
	MinGapHours     float64   `db:"min_gap_hours" json:"min_gap_hours"`
	DefaultStrategy string    `db:"default_strategy" json:"default_strategy"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

package models

import "time"

// ElectionSettings is the singleton election window. End must be strictly
// after start. Timestamps are exposed as epoch milliseconds for the
// countdown views.
type ElectionSettings struct {
	ID            string    `db:"id" json:"id"`
	ElectionStart time.Time `db:"election_start" json:"-"`
	ElectionEnd   time.Time `db:"election_end" json:"-"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StartMillis returns the election start as epoch milliseconds.
func (s ElectionSettings) StartMillis() int64 {
	return s.ElectionStart.UnixMilli()
}

// EndMillis returns the election end as epoch milliseconds.
func (s ElectionSettings) EndMillis() int64 {
	return s.ElectionEnd.UnixMilli()
}

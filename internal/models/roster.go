package models

import "time"

// Island is an entry in the ordered island roster. Islands are added and
// deleted by admins; rename is intentionally unsupported.
type Island struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Party is an entry in the ordered party roster. Same lifecycle as Island.
type Party struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Position  int       `db:"position" json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package models

import "time"

// ChatMessage is a community chat entry. The author's display name is
// denormalised at send time so the feed survives later account changes.
// Only the author may delete their own message.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	UserName  string    `db:"user_name" json:"user_name"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

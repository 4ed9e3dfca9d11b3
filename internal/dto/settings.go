package dto

import "time"

// SettingsResponse exposes the election window as epoch milliseconds, the
// representation the countdown timers consume.
type SettingsResponse struct {
	ElectionStart int64     `json:"election_start"`
	ElectionEnd   int64     `json:"election_end"`
	UpdatedAt     time.Time `json:"updated_at"`
}

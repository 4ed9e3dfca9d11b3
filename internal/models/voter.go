package models

import "time"

// Gender enumerates the recognised gender values on a voter record.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Valid reports whether the value is one of the recognised genders.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// IndependentParty is the registrar party assumed when none is recorded.
const IndependentParty = "Independent"

// Voter is a single voter-registry record. The id-card number, name and
// address are immutable to every role except admin; mamdhoob accounts may
// only flip HasVoted.
type Voter struct {
	ID           string     `db:"id" json:"id"`
	IDCard       string     `db:"id_card" json:"id_card"`
	FullName     string     `db:"full_name" json:"full_name"`
	Gender       Gender     `db:"gender" json:"gender"`
	Address      string     `db:"address" json:"address"`
	Island       string     `db:"island" json:"island"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	HasVoted     bool       `db:"has_voted" json:"has_voted"`
	Party        *string    `db:"party" json:"party,omitempty"`
	Sheema       bool       `db:"sheema" json:"sheema"`
	Sadiq        bool       `db:"sadiq" json:"sadiq"`
	Communicated bool       `db:"communicated" json:"communicated"`
	Notes        *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// EffectiveParty resolves the registrar party, applying the Independent default.
func (v Voter) EffectiveParty() string {
	if v.Party == nil || *v.Party == "" {
		return IndependentParty
	}
	return *v.Party
}

// VoterFilter captures filtering criteria for the voter list.
type VoterFilter struct {
	Search       string  `json:"search,omitempty"`
	Island       string  `json:"island,omitempty"`
	Party        string  `json:"party,omitempty"`
	HasVoted     *bool   `json:"has_voted,omitempty"`
	Sheema       *bool   `json:"sheema,omitempty"`
	Sadiq        *bool   `json:"sadiq,omitempty"`
	Communicated *bool   `json:"communicated,omitempty"`
}

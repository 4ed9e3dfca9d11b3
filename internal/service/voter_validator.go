package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vaguthu/election-console/internal/models"
)

// Stable validation codes surfaced to the form layer per offending field.
const (
	CodeInvalidIDCard  = "InvalidIdCard"
	CodeMissingName    = "MissingName"
	CodeMissingGender  = "MissingGender"
	CodeMissingAddress = "MissingAddress"
)

// idCardPrefix is the canonical national id-card prefix. The legacy console
// briefly validated "A-" as well; "A" with a minimum length of 3 is the rule
// kept here.
const (
	idCardPrefix    = "A"
	idCardMinLength = 3
)

// FieldErrors maps a field name to its validation code. It implements error
// so services can return it directly from write paths.
type FieldErrors map[string]string

// Error renders the field errors deterministically.
func (f FieldErrors) Error() string {
	fields := make([]string, 0, len(f))
	for field := range f {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, f[field]))
	}
	return "invalid voter record: " + strings.Join(parts, ", ")
}

// ValidateVoter checks a candidate voter record. When the caller may not
// edit details, only the vote status is considered and no field is
// validated. All fields are checked without short-circuiting so the form can
// surface every problem at once. Returns nil when the record is valid.
func ValidateVoter(voter *models.Voter, canEditDetails bool) FieldErrors {
	if !canEditDetails {
		return nil
	}

	errs := FieldErrors{}

	if !strings.HasPrefix(voter.IDCard, idCardPrefix) || len(voter.IDCard) < idCardMinLength {
		errs["id_card"] = CodeInvalidIDCard
	}
	if strings.TrimSpace(voter.FullName) == "" {
		errs["full_name"] = CodeMissingName
	}
	if !voter.Gender.Valid() {
		errs["gender"] = CodeMissingGender
	}
	if strings.TrimSpace(voter.Address) == "" {
		errs["address"] = CodeMissingAddress
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

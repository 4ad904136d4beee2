// Package types holds the records shared by the capture pipeline: the contact
// candidate read off the host page, the appointment type, the submitted
// ledger record and the durable half of the directory reference.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingField is returned by Submission.Validate.
var ErrMissingField = errors.New("types: required field missing")

// TimestampLayout is the ISO-8601 form used for Submission.Timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ContactCandidate is what the extractor found on the host page.
// It only seeds the form and is never persisted as is.
type ContactCandidate struct {
	Name  string
	Email string
	Phone string
}

// IsEmpty reports whether no field was found.
func (c ContactCandidate) IsEmpty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

// Submission is one captured record of the ledger.
// Every field is a plain string so a persisted record never carries nulls.
type Submission struct {
	Timestamp  string `json:"timestamp"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Date       string `json:"date"`
	Weekday    string `json:"weekday"`
	Time       string `json:"time"`
	LookingFor string `json:"lookingFor"`
	Email      string `json:"email"`
	Source     string `json:"source"`
	Location   string `json:"location"`
}

// Validate checks name, phone and type. The save path only calls it when
// validation.require_fields is enabled.
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(s.Type) == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// DirectoryReference is the durable part of the operator's save target.
// The live handle is session scoped and lives in persist.Session.
type DirectoryReference struct {
	HasDirectory  bool
	DirectoryName string
}

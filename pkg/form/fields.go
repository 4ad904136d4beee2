// Package form holds the editable state of one capture panel and derives the
// shareable preview text from it.
package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrhq/apptcapture/pkg/types"
)

// Field identifies a free-text or single-choice panel field.
type Field string

const (
	FieldType     Field = "type"
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldEmail    Field = "email"
	FieldSource   Field = "source"
	FieldLocation Field = "location"
	FieldInterest Field = "interest"
	FieldWeekday  Field = "weekday"
	FieldDate     Field = "date"
	FieldTime     Field = "time"
)

// TextFields lists the fields that hold typed text, in panel order.
func TextFields() []Field {
	return []Field{
		FieldName, FieldPhone, FieldEmail,
		FieldSource, FieldLocation, FieldInterest,
		FieldDate, FieldTime,
	}
}

// WeekdayToday is the default weekday option.
const WeekdayToday = "today"

var checklist = []string{"Passport", "License", "SSN", "ITIN/Tax ID", "Bank Account", "Paystubs"}

var weekdays = []string{WeekdayToday, "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Checklist returns the "Has" attributes in declaration order.
func Checklist() []string {
	out := make([]string, len(checklist))
	copy(out, checklist)
	return out
}

// Weekdays returns the weekday selector options.
func Weekdays() []string {
	out := make([]string, len(weekdays))
	copy(out, weekdays)
	return out
}

func isWeekday(s string) bool {
	for _, w := range weekdays {
		if w == s {
			return true
		}
	}
	return false
}

func isAttribute(s string) bool {
	for _, a := range checklist {
		if a == s {
			return true
		}
	}
	return false
}

// DefaultSchedule returns the date (MM/DD) and time (h:mm AM) a new panel is
// pre-filled with.
func DefaultSchedule(now time.Time) (date, clock string) {
	hour := now.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "AM"
	if now.Hour() >= 12 {
		ampm = "PM"
	}
	date = fmt.Sprintf("%02d/%02d", int(now.Month()), now.Day())
	clock = fmt.Sprintf("%d:%02d %s", hour, now.Minute(), ampm)
	return date, clock
}

// Snapshot is a read-only copy of every field. Text values are trimmed.
type Snapshot struct {
	Type     types.AppointmentType
	Name     string
	Phone    string
	Email    string
	Source   string
	Location string
	Interest string
	Weekday  string
	Date     string
	Time     string

	// Attributes holds the checked items in checklist order.
	Attributes []string
}

// Submission turns the snapshot into a ledger record stamped with timestamp.
func (s Snapshot) Submission(timestamp string) types.Submission {
	return types.Submission{
		Timestamp:  timestamp,
		Type:       string(s.Type),
		Name:       s.Name,
		Phone:      s.Phone,
		Date:       s.Date,
		Weekday:    s.Weekday,
		Time:       s.Time,
		LookingFor: s.Interest,
		Email:      s.Email,
		Source:     s.Source,
		Location:   s.Location,
	}
}

func trim(s string) string { return strings.TrimSpace(s) }

package form

import (
	"strings"

	"github.com/entrhq/apptcapture/pkg/types"
)

const (
	locationMarker = "📍"
	pinMarker      = "📌"
)

// Render derives the preview text from a snapshot.
//
// Lines for empty fields are dropped without leaving a gap. The only blank
// lines are the one after the type header and the one after "Looking for".
// The booking line is always last, even with blank segments.
func Render(s Snapshot) string {
	typ := s.Type
	if typ == "" {
		typ = types.DefaultAppointmentType
	}

	var b strings.Builder
	b.WriteString("*" + string(typ) + "*\n\n")

	for _, line := range []string{s.Name, s.Phone, s.Email} {
		if line != "" {
			b.WriteString(line + "\n")
		}
	}
	if s.Source != "" {
		b.WriteString("Source: " + s.Source + "\n")
	}
	if len(s.Attributes) > 0 {
		b.WriteString("Has: " + strings.Join(s.Attributes, ", ") + "\n")
	}
	if s.Location != "" {
		b.WriteString("Lives in: " + s.Location + locationMarker + "\n")
	}
	if s.Interest != "" {
		b.WriteString("Looking for: " + s.Interest + "\n\n")
	}

	b.WriteString("*Booked for " + s.Weekday + " " + s.Date + " at " + s.Time + "*" + pinMarker)
	return b.String()
}

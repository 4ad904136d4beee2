package types

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 6, 1, 14, 5, 9, 123_000_000, time.FixedZone("EDT", -4*3600))
	assert.Equal(t, "2026-06-01T18:05:09.123Z", FormatTimestamp(ts))
}

func TestSubmissionValidate(t *testing.T) {
	tests := []struct {
		name    string
		sub     Submission
		missing string
	}{
		{"complete", Submission{Name: "Jane", Phone: "555", Type: "RESCHEDULED"}, ""},
		{"no phone", Submission{Name: "Jane", Type: "RESCHEDULED"}, "phone"},
		{"blank name and type", Submission{Name: "  ", Phone: "555"}, "name, type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			if tt.missing == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestAppointmentTypes(t *testing.T) {
	types := AllAppointmentTypes()
	assert.Len(t, types, 4)
	assert.Equal(t, TypeNewAppointment, types[0])
	assert.Equal(t, DefaultAppointmentType, types[0])
	assert.Equal(t, "CREDIT_APPLICATION", TypeCreditApplication.Key())

	got, ok := ParseAppointmentType("LEAD_REQUEST")
	assert.True(t, ok)
	assert.Equal(t, TypeLeadRequest, got)

	got, ok = ParseAppointmentType("NEW APPOINTMENT")
	assert.True(t, ok)
	assert.Equal(t, TypeNewAppointment, got)

	_, ok = ParseAppointmentType("WALK IN")
	assert.False(t, ok)
}

func TestContactCandidateIsEmpty(t *testing.T) {
	assert.True(t, ContactCandidate{}.IsEmpty())
	assert.False(t, ContactCandidate{Phone: "555"}.IsEmpty())
}

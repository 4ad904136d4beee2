package types

// AppointmentType is the kind of update being recorded. The value is the
// label shown on the panel and written to the ledger.
type AppointmentType string

const (
	// TypeNewAppointment is a freshly booked appointment (default)
	TypeNewAppointment AppointmentType = "NEW APPOINTMENT"
	// TypeRescheduled moves an existing appointment
	TypeRescheduled AppointmentType = "RESCHEDULED"
	// TypeCreditApplication records a credit application
	TypeCreditApplication AppointmentType = "CREDIT APPLICATION"
	// TypeLeadRequest records an inbound lead request
	TypeLeadRequest AppointmentType = "LEAD REQUEST"
)

// DefaultAppointmentType is preselected on every new panel.
const DefaultAppointmentType = TypeNewAppointment

// AllAppointmentTypes returns the types in panel order.
func AllAppointmentTypes() []AppointmentType {
	return []AppointmentType{
		TypeNewAppointment,
		TypeRescheduled,
		TypeCreditApplication,
		TypeLeadRequest,
	}
}

// ParseAppointmentType accepts either the label or the constant-style name
// (NEW_APPOINTMENT).
func ParseAppointmentType(s string) (AppointmentType, bool) {
	for _, t := range AllAppointmentTypes() {
		if s == string(t) || s == t.Key() {
			return t, true
		}
	}
	return "", false
}

// Key returns the identifier form, e.g. NEW_APPOINTMENT.
func (t AppointmentType) Key() string {
	b := []byte(t)
	for i, c := range b {
		if c == ' ' {
			b[i] = '_'
		}
	}
	return string(b)
}

func (t AppointmentType) String() string {
	return string(t)
}

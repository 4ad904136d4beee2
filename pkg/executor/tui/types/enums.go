package types

// OverlayMode represents the current overlay state
type OverlayMode int

const (
	// OverlayModeNone indicates no overlay is active
	OverlayModeNone OverlayMode = iota
	// OverlayModeAlert shows a blocking notification
	OverlayModeAlert
	// OverlayModeConfirm shows a yes/no question
	OverlayModeConfirm
	// OverlayModeDirectory shows the directory path input
	OverlayModeDirectory
)

// Focus identifies the panel control receiving keys.
type Focus int

const (
	FocusType Focus = iota
	FocusName
	FocusPhone
	FocusEmail
	FocusSource
	FocusLocation
	FocusInterest
	FocusChecklist
	FocusWeekday
	FocusDate
	FocusTime

	focusCount
)

// Next returns the following control, wrapping around.
func (f Focus) Next() Focus {
	return (f + 1) % focusCount
}

// Prev returns the preceding control, wrapping around.
func (f Focus) Prev() Focus {
	return (f + focusCount - 1) % focusCount
}

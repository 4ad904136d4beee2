package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/entrhq/apptcapture/pkg/capture"
	"github.com/entrhq/apptcapture/pkg/executor/tui/types"
	"github.com/entrhq/apptcapture/pkg/form"
	"github.com/entrhq/apptcapture/pkg/logging"
	"github.com/entrhq/apptcapture/pkg/persist"
	apptypes "github.com/entrhq/apptcapture/pkg/types"
)

// textFields maps the single-line inputs to their form fields.
var textFields = map[types.Focus]form.Field{
	types.FocusName:     form.FieldName,
	types.FocusPhone:    form.FieldPhone,
	types.FocusEmail:    form.FieldEmail,
	types.FocusSource:   form.FieldSource,
	types.FocusLocation: form.FieldLocation,
	types.FocusDate:     form.FieldDate,
	types.FocusTime:     form.FieldTime,
}

var fieldLabels = map[types.Focus]string{
	types.FocusType:      "Type",
	types.FocusName:      "Name",
	types.FocusPhone:     "Phone",
	types.FocusEmail:     "Email",
	types.FocusSource:    "Source",
	types.FocusLocation:  "Location",
	types.FocusInterest:  "Looking for",
	types.FocusChecklist: "Has",
	types.FocusWeekday:   "Weekday",
	types.FocusDate:      "Date",
	types.FocusTime:      "Time",
}

// model represents the state of the capture panel.
type model struct {
	ctx     context.Context
	session *capture.Session
	form    *form.Controller
	picker  persist.Picker
	logger  *logging.Logger

	// Bubble Tea components
	inputs   map[types.Focus]*textinput.Model
	interest textarea.Model

	// Choice state
	typeIndex    int
	checkCursor  int
	weekdayIndex int
	focus        types.Focus

	// Derived display state
	preview     string
	unsubscribe func()
	status      string
	ledgerCount int

	// UI state
	overlay     *overlayState
	toast       *toastNotification
	busy        bool
	promptDelay time.Duration

	// Window dimensions
	width  int
	height int
	ready  bool

	shouldQuit bool
}

// toastNotification represents a temporary notification message
type toastNotification struct {
	message   string
	isError   bool
	showUntil time.Time
}

// clearToastMsg expires the toast
type clearToastMsg struct{}

const toastDuration = 3 * time.Second

func newModel(ctx context.Context, sess *capture.Session, picker persist.Picker, promptDelay time.Duration, logger *logging.Logger) *model {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &model{
		ctx:         ctx,
		session:     sess,
		form:        sess.Form(),
		picker:      picker,
		logger:      logger,
		inputs:      make(map[types.Focus]*textinput.Model),
		overlay:     newOverlayState(),
		promptDelay: promptDelay,
	}

	for focus, field := range textFields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 36
		ti.SetValue(m.form.Value(field))
		m.inputs[focus] = &ti
	}
	m.inputs[types.FocusDate].Placeholder = "MM/DD"
	m.inputs[types.FocusTime].Placeholder = "h:mm AM"

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.SetWidth(36)
	ta.SetHeight(3)
	ta.SetValue(m.form.Value(form.FieldInterest))
	m.interest = ta

	snap := m.form.Snapshot()
	for i, t := range apptypes.AllAppointmentTypes() {
		if t == snap.Type {
			m.typeIndex = i
		}
	}
	for i, w := range form.Weekdays() {
		if w == snap.Weekday {
			m.weekdayIndex = i
		}
	}

	m.preview = m.form.Preview()
	m.unsubscribe = m.form.Subscribe(func(_ form.Snapshot, preview string) {
		m.preview = preview
	})
	m.refreshStatus()
	return m
}

// refreshStatus reloads the directory line and the ledger count.
func (m *model) refreshStatus() {
	m.status = m.session.Status(m.ctx)
	n, err := m.session.LedgerLen(m.ctx)
	if err != nil {
		m.logger.Warnf("ledger count: %v", err)
		return
	}
	m.ledgerCount = n
}

// close tears down the preview subscription and the panel's form.
func (m *model) close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.session.Close()
}

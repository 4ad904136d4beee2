package form

import (
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/apptcapture/pkg/types"
)

var (
	// ErrClosed is returned when mutating a controller after Close.
	ErrClosed = errors.New("form: controller closed")
	// ErrUnknownOption is returned for values outside a fixed option set.
	ErrUnknownOption = errors.New("form: unknown option")
)

// Initial seeds a new controller. Zero values fall back to panel defaults:
// NEW APPOINTMENT and "today".
type Initial struct {
	Type       types.AppointmentType
	Name       string
	Phone      string
	Email      string
	Source     string
	Location   string
	Interest   string
	Weekday    string
	Date       string
	Time       string
	Attributes []string
}

// Listener receives the snapshot and preview after every change.
type Listener func(snap Snapshot, preview string)

// Controller owns one panel's field values. Every mutation recomputes the
// preview synchronously and notifies subscribers in subscription order.
// Subscriptions live as long as the controller; Close tears them all down.
type Controller struct {
	mu      sync.Mutex
	typ     types.AppointmentType
	values  map[Field]string
	checked map[string]bool
	preview string

	listeners map[int]Listener
	order     []int
	nextID    int
	closed    bool
}

// New builds a controller from init. Unknown weekday or attribute values in
// init are rejected.
func New(init Initial) (*Controller, error) {
	c := &Controller{
		typ:       types.DefaultAppointmentType,
		values:    make(map[Field]string),
		checked:   make(map[string]bool),
		listeners: make(map[int]Listener),
	}
	if init.Type != "" {
		t, ok := types.ParseAppointmentType(string(init.Type))
		if !ok {
			return nil, fmt.Errorf("%w: type %q", ErrUnknownOption, init.Type)
		}
		c.typ = t
	}
	weekday := init.Weekday
	if weekday == "" {
		weekday = WeekdayToday
	}
	if !isWeekday(weekday) {
		return nil, fmt.Errorf("%w: weekday %q", ErrUnknownOption, weekday)
	}
	for _, a := range init.Attributes {
		if !isAttribute(a) {
			return nil, fmt.Errorf("%w: attribute %q", ErrUnknownOption, a)
		}
		c.checked[a] = true
	}

	c.values[FieldName] = init.Name
	c.values[FieldPhone] = init.Phone
	c.values[FieldEmail] = init.Email
	c.values[FieldSource] = init.Source
	c.values[FieldLocation] = init.Location
	c.values[FieldInterest] = init.Interest
	c.values[FieldWeekday] = weekday
	c.values[FieldDate] = init.Date
	c.values[FieldTime] = init.Time

	c.preview = Render(c.snapshotLocked())
	return c, nil
}

// Set changes one field. FieldType and FieldWeekday only accept their options.
func (c *Controller) Set(field Field, value string) error {
	return c.mutate(func() error {
		switch field {
		case FieldType:
			t, ok := types.ParseAppointmentType(value)
			if !ok {
				return fmt.Errorf("%w: type %q", ErrUnknownOption, value)
			}
			c.typ = t
		case FieldWeekday:
			if !isWeekday(value) {
				return fmt.Errorf("%w: weekday %q", ErrUnknownOption, value)
			}
			c.values[field] = value
		case FieldName, FieldPhone, FieldEmail, FieldSource,
			FieldLocation, FieldInterest, FieldDate, FieldTime:
			c.values[field] = value
		default:
			return fmt.Errorf("%w: field %q", ErrUnknownOption, field)
		}
		return nil
	})
}

// SetType selects the appointment type.
func (c *Controller) SetType(t types.AppointmentType) error {
	return c.Set(FieldType, string(t))
}

// SetAttribute checks or unchecks a checklist item.
func (c *Controller) SetAttribute(name string, checked bool) error {
	return c.mutate(func() error {
		if !isAttribute(name) {
			return fmt.Errorf("%w: attribute %q", ErrUnknownOption, name)
		}
		c.checked[name] = checked
		return nil
	})
}

// ToggleAttribute flips a checklist item and returns its new state.
func (c *Controller) ToggleAttribute(name string) (bool, error) {
	var next bool
	err := c.mutate(func() error {
		if !isAttribute(name) {
			return fmt.Errorf("%w: attribute %q", ErrUnknownOption, name)
		}
		next = !c.checked[name]
		c.checked[name] = next
		return nil
	})
	if err != nil {
		return false, err
	}
	return next, nil
}

// Value returns the raw, untrimmed value of a text field.
func (c *Controller) Value(field Field) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if field == FieldType {
		return string(c.typ)
	}
	return c.values[field]
}

// Checked reports whether a checklist item is checked.
func (c *Controller) Checked(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checked[name]
}

// Snapshot returns the current values.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Preview returns the text derived from the current values.
func (c *Controller) Preview() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preview
}

// Subscribe registers l and returns a function that removes it.
func (c *Controller) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return func() {}
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.listeners, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (c *Controller) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.listeners)
}

// Close drops every subscription. Later mutations fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.listeners = make(map[int]Listener)
	c.order = nil
}

// mutate applies fn, recomputes the preview and notifies subscribers outside
// the lock so a listener may read the controller.
func (c *Controller) mutate(fn func() error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err := fn(); err != nil {
		c.mu.Unlock()
		return err
	}
	snap := c.snapshotLocked()
	c.preview = Render(snap)
	preview := c.preview
	listeners := make([]Listener, 0, len(c.order))
	for _, id := range c.order {
		listeners = append(listeners, c.listeners[id])
	}
	c.mu.Unlock()

	for _, l := range listeners {
		l(snap, preview)
	}
	return nil
}

func (c *Controller) snapshotLocked() Snapshot {
	var attrs []string
	for _, a := range checklist {
		if c.checked[a] {
			attrs = append(attrs, a)
		}
	}
	return Snapshot{
		Type:       c.typ,
		Name:       trim(c.values[FieldName]),
		Phone:      trim(c.values[FieldPhone]),
		Email:      trim(c.values[FieldEmail]),
		Source:     trim(c.values[FieldSource]),
		Location:   trim(c.values[FieldLocation]),
		Interest:   trim(c.values[FieldInterest]),
		Weekday:    c.values[FieldWeekday],
		Date:       trim(c.values[FieldDate]),
		Time:       trim(c.values[FieldTime]),
		Attributes: attrs,
	}
}

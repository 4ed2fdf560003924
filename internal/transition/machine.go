// Package transition implements transition selection for a ticket: picking
// a workflow transition, answering its floating screen and collecting the
// submission.
package transition

import (
	"github.com/danielolaszy/jtui/internal/cursor"
	"github.com/danielolaszy/jtui/internal/input"
	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/pkg/models"
)

// Mode is the top level state of the machine.
type Mode int

const (
	// ModeNormal browses the transition list.
	ModeNormal Mode = iota
	// ModeFloatingScreen answers the selected transition's screen.
	ModeFloatingScreen
)

// InputMode is the comment buffer sub-mode of the floating screen.
type InputMode int

const (
	InputNormal InputMode = iota
	InputEditing
)

// Outcome tells the caller what a key did.
type Outcome int

const (
	// Ignored keys are not handled by the machine.
	Ignored Outcome = iota
	// Consumed keys changed or inspected state.
	Consumed
	// Ready means a submission became available with this key.
	Ready
)

// ResolvedField is the answer given on a floating screen.
type ResolvedField struct {
	Key   string
	Value string
}

// Submission is everything needed to execute the chosen transition.
type Submission struct {
	TransitionID   string
	TransitionName string
	Field          *ResolvedField
	Comment        string
}

// Request renders the submission as a transition payload.
func (s Submission) Request() models.TransitionRequest {
	req := models.TransitionRequest{
		Transition: models.TransitionID{ID: s.TransitionID},
	}
	if s.Field != nil {
		req.Fields = map[string]models.FieldValue{s.Field.Key: {Value: s.Field.Value}}
	}
	if s.Comment != "" {
		req.Update = &models.TransitionUpdate{
			Comment: []models.CommentUpdate{{Add: models.CommentBody{Body: s.Comment}}},
		}
	}
	return req
}

type screen struct {
	fieldKey  string
	fieldName string
	values    []models.AllowedValue
	cursor    cursor.Selection
}

// Machine is the transition selection state machine. It is not safe for
// concurrent use; the UI loop owns it.
type Machine struct {
	keys        input.KeyMap
	transitions []models.Transition
	cursor      cursor.Selection

	mode      Mode
	inputMode InputMode
	screen    *screen
	comment   []rune

	pending *Submission
}

// New creates a machine over transitions with the first one selected.
func New(keys input.KeyMap, transitions []models.Transition) *Machine {
	m := &Machine{keys: keys}
	m.Reset(transitions)
	return m
}

// Reset replaces the transition list and returns to the initial state.
func (m *Machine) Reset(transitions []models.Transition) {
	m.transitions = transitions
	m.cursor.Clear()
	m.cursor.Top(len(transitions))
	m.mode = ModeNormal
	m.inputMode = InputNormal
	m.screen = nil
	m.comment = nil
	m.pending = nil
}

// Mode returns the current top level state.
func (m *Machine) Mode() Mode {
	return m.mode
}

// InputMode returns the comment buffer sub-mode.
func (m *Machine) InputMode() InputMode {
	return m.inputMode
}

// Selected returns the highlighted transition.
func (m *Machine) Selected() (models.Transition, bool) {
	i, ok := m.cursor.Index()
	if !ok || i >= len(m.transitions) {
		return models.Transition{}, false
	}
	return m.transitions[i], true
}

// Submission returns the pending submission, if any.
func (m *Machine) Submission() (Submission, bool) {
	if m.pending == nil {
		return Submission{}, false
	}
	return *m.pending, true
}

// HandleKey feeds one key to the machine. A SchemaError is returned when the
// selected transition declares a screen that has no selectable field; the
// machine then stays in ModeNormal.
func (m *Machine) HandleKey(k input.Key) (Outcome, error) {
	if m.mode == ModeFloatingScreen {
		return m.handleScreenKey(k), nil
	}

	action := m.keys.Action(k)
	if m.cursor.Move(action, len(m.transitions)) {
		return Consumed, nil
	}
	if action == input.ActionConfirm {
		return m.confirmTransition()
	}
	return Ignored, nil
}

func (m *Machine) confirmTransition() (Outcome, error) {
	t, ok := m.Selected()
	if !ok {
		return Consumed, nil
	}

	if !t.NeedsScreen() {
		m.pending = &Submission{TransitionID: t.ID, TransitionName: t.Name}
		logging.Debug("transition ready", "transition", t.Name)
		return Ready, nil
	}

	key, field, err := screenField(t)
	if err != nil {
		logging.Warn("transition screen rejected", "transition", t.Name, "error", err)
		return Consumed, err
	}

	s := &screen{fieldKey: key, fieldName: field.Name, values: field.AllowedValues}
	s.cursor.Top(len(s.values))
	m.screen = s
	m.mode = ModeFloatingScreen
	m.inputMode = InputNormal
	m.pending = nil
	logging.Debug("opened transition screen", "transition", t.Name, "field", key, "values", len(s.values))
	return Consumed, nil
}

func (m *Machine) handleScreenKey(k input.Key) Outcome {
	if m.inputMode == InputEditing {
		switch k.Code {
		case input.Char:
			m.comment = append(m.comment, k.Rune)
			return Consumed
		case input.Backspace:
			if len(m.comment) > 0 {
				m.comment = m.comment[:len(m.comment)-1]
			}
			return Consumed
		case input.Esc:
			m.inputMode = InputNormal
			return Consumed
		}
	}

	action := m.keys.Action(k)
	if m.screen.cursor.Move(action, len(m.screen.values)) {
		return Consumed
	}

	switch action {
	case input.ActionCancel:
		m.closeScreen()
		m.comment = nil
		return Consumed
	case input.ActionBeginEdit:
		m.inputMode = InputEditing
		return Consumed
	case input.ActionConfirm:
		return m.confirmScreen()
	}
	return Ignored
}

func (m *Machine) confirmScreen() Outcome {
	i, ok := m.screen.cursor.Index()
	if !ok || i >= len(m.screen.values) {
		return Consumed
	}
	t, ok := m.Selected()
	if !ok {
		return Consumed
	}

	m.pending = &Submission{
		TransitionID:   t.ID,
		TransitionName: t.Name,
		Field:          &ResolvedField{Key: m.screen.fieldKey, Value: m.screen.values[i].Value},
		Comment:        string(m.comment),
	}
	m.comment = nil
	m.closeScreen()
	logging.Debug("transition ready", "transition", t.Name, "field", m.pending.Field.Key)
	return Ready
}

func (m *Machine) closeScreen() {
	m.screen = nil
	m.mode = ModeNormal
	m.inputMode = InputNormal
}

package transition

// ScreenSnapshot is the rendering view of an open floating screen.
type ScreenSnapshot struct {
	FieldKey  string
	FieldName string
	Values    []string
	// Selected is -1 when no value is highlighted
	Selected int
}

// Snapshot is the rendering view of the machine.
type Snapshot struct {
	Mode      Mode
	InputMode InputMode

	Transitions []string
	// Selected is -1 when no transition is highlighted
	Selected int

	// Screen is nil outside ModeFloatingScreen
	Screen *ScreenSnapshot

	Comment string
	Ready   bool
}

// Snapshot returns the current rendering view.
func (m *Machine) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:        m.mode,
		InputMode:   m.inputMode,
		Transitions: make([]string, len(m.transitions)),
		Selected:    -1,
		Comment:     string(m.comment),
		Ready:       m.pending != nil,
	}
	for i, t := range m.transitions {
		snap.Transitions[i] = t.Name
	}
	if i, ok := m.cursor.Index(); ok {
		snap.Selected = i
	}

	if m.screen != nil {
		s := &ScreenSnapshot{
			FieldKey:  m.screen.fieldKey,
			FieldName: m.screen.fieldName,
			Values:    make([]string, len(m.screen.values)),
			Selected:  -1,
		}
		for i, v := range m.screen.values {
			s.Values[i] = v.Value
		}
		if i, ok := m.screen.cursor.Index(); ok {
			s.Selected = i
		}
		snap.Screen = s
	}
	return snap
}

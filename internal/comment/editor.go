// Package comment implements the standalone comment editor.
package comment

import (
	"strings"

	"github.com/danielolaszy/jtui/internal/input"
)

// Mode is the editor input mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditing
)

// Outcome tells the caller what a key did.
type Outcome int

const (
	Ignored Outcome = iota
	Consumed
	// Push means the operator asked to send the draft.
	Push
)

// Snapshot is the rendering view of the editor.
type Snapshot struct {
	Mode  Mode
	Lines []string
	Input string
}

// Editor collects a multi-line comment. Enter records the current input as
// a line; the body is every recorded line plus any unrecorded input.
type Editor struct {
	keys  input.KeyMap
	mode  Mode
	lines []string
	input []rune
}

// NewEditor creates an empty editor in ModeNormal.
func NewEditor(keys input.KeyMap) *Editor {
	return &Editor{keys: keys}
}

// HandleKey feeds one key to the editor.
func (e *Editor) HandleKey(k input.Key) Outcome {
	if e.mode == ModeEditing {
		switch k.Code {
		case input.Char:
			e.input = append(e.input, k.Rune)
		case input.Backspace:
			if len(e.input) > 0 {
				e.input = e.input[:len(e.input)-1]
			}
		case input.Enter:
			e.lines = append(e.lines, string(e.input))
			e.input = nil
		case input.Esc:
			e.mode = ModeNormal
		default:
			return Ignored
		}
		return Consumed
	}

	switch e.keys.Action(k) {
	case input.ActionBeginEdit:
		e.mode = ModeEditing
		return Consumed
	case input.ActionPush:
		if e.Empty() {
			return Consumed
		}
		return Push
	}
	return Ignored
}

// Body returns the comment text.
func (e *Editor) Body() string {
	parts := append([]string(nil), e.lines...)
	if len(e.input) > 0 {
		parts = append(parts, string(e.input))
	}
	return strings.Join(parts, "\n")
}

// Empty reports whether there is nothing to send.
func (e *Editor) Empty() bool {
	return strings.TrimSpace(e.Body()) == ""
}

// Clear drops the draft and returns to ModeNormal.
func (e *Editor) Clear() {
	e.mode = ModeNormal
	e.lines = nil
	e.input = nil
}

// Mode returns the current input mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Snapshot returns the current rendering view.
func (e *Editor) Snapshot() Snapshot {
	return Snapshot{
		Mode:  e.mode,
		Lines: append([]string(nil), e.lines...),
		Input: string(e.input),
	}
}

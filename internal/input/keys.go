// Package input defines the normalized key events consumed by the UI
// components and the mapping from keys to navigation actions.
package input

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Code identifies the kind of key pressed.
type Code int

const (
	// Char is a printable character; the rune is in Key.Rune.
	Char Code = iota
	Backspace
	Esc
	Enter
	Up
	Down
	PageUp
	PageDown
	Home
	End
	Tab
	// Ctrl is a control chord; the letter is in Key.Rune.
	Ctrl
)

// Key is a single decoded key press.
type Key struct {
	Code Code
	Rune rune
}

// CharKey returns the key for a printable character.
func CharKey(r rune) Key {
	return Key{Code: Char, Rune: r}
}

func (k Key) String() string {
	switch k.Code {
	case Char:
		return string(k.Rune)
	case Ctrl:
		return "ctrl+" + string(k.Rune)
	}
	for name, code := range namedCodes {
		if code == k.Code {
			return name
		}
	}
	return fmt.Sprintf("key(%d)", k.Code)
}

var namedCodes = map[string]Code{
	"backspace": Backspace,
	"esc":       Esc,
	"enter":     Enter,
	"up":        Up,
	"down":      Down,
	"pgup":      PageUp,
	"pgdown":    PageDown,
	"home":      Home,
	"end":       End,
	"tab":       Tab,
}

// ParseKey parses a key description such as "j", "G", "enter" or "ctrl+d".
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("empty key")
	}
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return CharKey(r), nil
	}

	lower := strings.ToLower(s)
	if code, ok := namedCodes[lower]; ok {
		return Key{Code: code}, nil
	}
	if rest, ok := strings.CutPrefix(lower, "ctrl+"); ok && utf8.RuneCountInString(rest) == 1 {
		r, _ := utf8.DecodeRuneInString(rest)
		return Key{Code: Ctrl, Rune: r}, nil
	}
	return Key{}, fmt.Errorf("unknown key %q", s)
}

// Action is a navigation or command action a key can be bound to.
type Action string

const (
	ActionNone      Action = ""
	ActionDown      Action = "down"
	ActionUp        Action = "up"
	ActionPageDown  Action = "page_down"
	ActionPageUp    Action = "page_up"
	ActionTop       Action = "top"
	ActionBottom    Action = "bottom"
	ActionConfirm   Action = "confirm"
	ActionCancel    Action = "cancel"
	ActionBeginEdit Action = "edit"
	ActionPush      Action = "push"
	ActionQuit      Action = "quit"
)

// PageStep is how many rows a page action moves.
const PageStep = 10

// KeyMap maps keys to actions.
type KeyMap struct {
	bindings map[Key]Action
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{bindings: map[Key]Action{
		CharKey('j'):            ActionDown,
		{Code: Down}:            ActionDown,
		CharKey('k'):            ActionUp,
		{Code: Up}:              ActionUp,
		{Code: Ctrl, Rune: 'd'}: ActionPageDown,
		{Code: PageDown}:        ActionPageDown,
		{Code: Ctrl, Rune: 'u'}: ActionPageUp,
		{Code: PageUp}:          ActionPageUp,
		CharKey('g'):            ActionTop,
		{Code: Home}:            ActionTop,
		CharKey('G'):            ActionBottom,
		{Code: End}:             ActionBottom,
		{Code: Enter}:           ActionConfirm,
		{Code: Esc}:             ActionCancel,
		CharKey('e'):            ActionBeginEdit,
		CharKey('P'):            ActionPush,
		CharKey('q'):            ActionQuit,
	}}
}

// NewKeyMap returns the default bindings with overrides applied. Overrides
// map an action name to a comma separated list of keys; the listed keys
// replace every default key of that action.
func NewKeyMap(overrides map[string]string) (KeyMap, error) {
	km := DefaultKeyMap()

	actions := make([]string, 0, len(overrides))
	for name := range overrides {
		actions = append(actions, name)
	}
	sort.Strings(actions)

	for _, name := range actions {
		action := Action(name)
		if !knownAction(action) {
			return KeyMap{}, fmt.Errorf("unknown key action %q", name)
		}

		var keys []Key
		for _, part := range strings.Split(overrides[name], ",") {
			k, err := ParseKey(strings.TrimSpace(part))
			if err != nil {
				return KeyMap{}, fmt.Errorf("invalid binding for %s: %w", name, err)
			}
			keys = append(keys, k)
		}

		for k, a := range km.bindings {
			if a == action {
				delete(km.bindings, k)
			}
		}
		for _, k := range keys {
			km.bindings[k] = action
		}
	}
	return km, nil
}

// Action returns the action bound to k, or ActionNone.
func (km KeyMap) Action(k Key) Action {
	return km.bindings[k]
}

// Keys returns the keys bound to action, sorted by their description.
func (km KeyMap) Keys(action Action) []string {
	var keys []string
	for k, a := range km.bindings {
		if a == action {
			keys = append(keys, k.String())
		}
	}
	sort.Strings(keys)
	return keys
}

func knownAction(a Action) bool {
	switch a {
	case ActionDown, ActionUp, ActionPageDown, ActionPageUp, ActionTop, ActionBottom,
		ActionConfirm, ActionCancel, ActionBeginEdit, ActionPush, ActionQuit:
		return true
	}
	return false
}

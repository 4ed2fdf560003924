package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/danielolaszy/jtui/internal/input"
)

// globalKeys are the bindings handled by the model itself rather than by a
// component. They are ignored while a popup is open.
type globalKeys struct {
	ForceQuit   key.Binding
	Transitions key.Binding
	Comment     key.Binding
	Refresh     key.Binding
	Browse      key.Binding
}

var defaultGlobalKeys = globalKeys{
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
	Transitions: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "transition"),
	),
	Comment: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "comment"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Browse: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "show url"),
	),
}

var namedKeys = map[tea.KeyType]input.Code{
	tea.KeyBackspace: input.Backspace,
	tea.KeyEsc:       input.Esc,
	tea.KeyEnter:     input.Enter,
	tea.KeyUp:        input.Up,
	tea.KeyDown:      input.Down,
	tea.KeyPgUp:      input.PageUp,
	tea.KeyPgDown:    input.PageDown,
	tea.KeyHome:      input.Home,
	tea.KeyEnd:       input.End,
	tea.KeyTab:       input.Tab,
}

// decodeKeys converts a terminal key message into input keys. Pasted text
// yields one key per rune; keys with no input equivalent yield none.
func decodeKeys(msg tea.KeyMsg) []input.Key {
	switch msg.Type {
	case tea.KeyRunes:
		keys := make([]input.Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			keys = append(keys, input.CharKey(r))
		}
		return keys
	case tea.KeySpace:
		return []input.Key{input.CharKey(' ')}
	}

	if code, ok := namedKeys[msg.Type]; ok {
		return []input.Key{{Code: code}}
	}

	if s := msg.String(); strings.HasPrefix(s, "ctrl+") {
		if k, err := input.ParseKey(s); err == nil {
			return []input.Key{k}
		}
	}
	return nil
}

// helpLine renders the short help for a set of bindings.
func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

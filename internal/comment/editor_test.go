package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/danielolaszy/jtui/internal/input"
)

func typeText(e *Editor, text string) {
	for _, r := range text {
		e.HandleKey(input.CharKey(r))
	}
}

func TestEditorLifecycle(t *testing.T) {
	e := NewEditor(input.DefaultKeyMap())

	assert.Equal(t, Ignored, e.HandleKey(input.CharKey('x')), "characters are ignored outside editing")
	assert.Equal(t, Consumed, e.HandleKey(input.CharKey('e')))
	assert.Equal(t, ModeEditing, e.Mode())

	typeText(e, "first linee")
	e.HandleKey(input.Key{Code: input.Backspace})
	e.HandleKey(input.Key{Code: input.Enter})
	typeText(e, "Pending")

	snap := e.Snapshot()
	assert.Equal(t, []string{"first line"}, snap.Lines)
	assert.Equal(t, "Pending", snap.Input, "bound keys are text while editing")

	e.HandleKey(input.Key{Code: input.Esc})
	assert.Equal(t, ModeNormal, e.Mode())
	assert.Equal(t, "first line\nPending", e.Body())

	assert.Equal(t, Push, e.HandleKey(input.CharKey('P')))

	e.Clear()
	assert.True(t, e.Empty())
	assert.Equal(t, ModeNormal, e.Mode())
}

func TestPushWithEmptyDraft(t *testing.T) {
	testCases := []struct {
		name string
		text string
	}{
		{name: "Nothing typed", text: ""},
		{name: "Only spaces", text: "   "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEditor(input.DefaultKeyMap())
			e.HandleKey(input.CharKey('e'))
			typeText(e, tc.text)
			e.HandleKey(input.Key{Code: input.Esc})

			assert.Equal(t, Consumed, e.HandleKey(input.CharKey('P')))
		})
	}
}

func TestEditingIgnoresNavigationKeys(t *testing.T) {
	e := NewEditor(input.DefaultKeyMap())
	e.HandleKey(input.CharKey('e'))

	assert.Equal(t, Ignored, e.HandleKey(input.Key{Code: input.Down}))
	assert.Equal(t, ModeEditing, e.Mode())
}

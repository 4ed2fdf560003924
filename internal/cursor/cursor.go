// Package cursor tracks the selected row of a list.
package cursor

import "github.com/danielolaszy/jtui/internal/input"

// Selection is an optional index into a list. The zero value selects
// nothing. Every move clamps to the list bounds and is a no-op on an empty
// list.
type Selection struct {
	index int
	valid bool
}

// Index returns the selected index and whether anything is selected.
func (s Selection) Index() (int, bool) {
	return s.index, s.valid
}

// Select sets the selection to i, clamped to a list of length n.
func (s *Selection) Select(i, n int) {
	if n <= 0 {
		s.Clear()
		return
	}
	s.index = clamp(i, n)
	s.valid = true
}

// Clear removes the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Next moves the selection down by step rows. Without a selection it
// selects the first row.
func (s *Selection) Next(step, n int) {
	if n <= 0 {
		return
	}
	if !s.valid {
		s.Select(0, n)
		return
	}
	s.Select(s.index+step, n)
}

// Previous moves the selection up by step rows. Without a selection it
// selects the first row.
func (s *Selection) Previous(step, n int) {
	if n <= 0 {
		return
	}
	if !s.valid {
		s.Select(0, n)
		return
	}
	s.Select(s.index-step, n)
}

// Top selects the first row.
func (s *Selection) Top(n int) {
	if n <= 0 {
		return
	}
	s.Select(0, n)
}

// Bottom selects the last row.
func (s *Selection) Bottom(n int) {
	if n <= 0 {
		return
	}
	s.Select(n-1, n)
}

// Fit re-clamps the selection after the list changed length.
func (s *Selection) Fit(n int) {
	if !s.valid {
		return
	}
	s.Select(s.index, n)
}

// Move applies a navigation action over a list of length n and reports
// whether action was a navigation action.
func (s *Selection) Move(action input.Action, n int) bool {
	switch action {
	case input.ActionDown:
		s.Next(1, n)
	case input.ActionUp:
		s.Previous(1, n)
	case input.ActionPageDown:
		s.Next(input.PageStep, n)
	case input.ActionPageUp:
		s.Previous(input.PageStep, n)
	case input.ActionTop:
		s.Top(n)
	case input.ActionBottom:
		s.Bottom(n)
	default:
		return false
	}
	return true
}

func clamp(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package view

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/jtui/pkg/models"
)

func TestParentRows(t *testing.T) {
	testCases := []struct {
		name   string
		ticket models.Ticket
		want   []Row
	}{
		{
			name: "No parent yields no rows",
			ticket: models.Ticket{
				Key:    "PROJ-12",
				Fields: models.Fields{Summary: "Child", Status: models.Named{Name: "Open"}},
			},
			want: nil,
		},
		{
			name: "Parent row uses the parent's own fields",
			ticket: models.Ticket{
				Key: "PROJ-12",
				Fields: models.Fields{
					Summary:   "Child",
					Status:    models.Named{Name: "Open"},
					Priority:  &models.Named{Name: "Low"},
					IssueType: models.IssueType{Name: "Sub-task", Subtask: true},
					Parent: &models.TicketRef{
						Key: "PROJ-1",
						Fields: models.LinkFields{
							Summary:   "Epic work",
							Status:    models.Named{Name: "In Progress"},
							Priority:  &models.Named{Name: "High"},
							IssueType: models.IssueType{Name: "Story"},
						},
					},
				},
			},
			want: []Row{{
				Relation: "parent",
				Key:      "PROJ-1",
				Summary:  "Epic work",
				Priority: "High",
				Type:     "Story",
				Status:   "In Progress",
			}},
		},
		{
			name: "Parent without priority",
			ticket: models.Ticket{
				Fields: models.Fields{
					Parent: &models.TicketRef{Key: "PROJ-2", Fields: models.LinkFields{Summary: "S"}},
				},
			},
			want: []Row{{Relation: "parent", Key: "PROJ-2", Summary: "S"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParentRows(tc.ticket))
		})
	}
}

func TestRelationRows(t *testing.T) {
	blocks := models.LinkType{Name: "Blocks", Inward: "is blocked by", Outward: "blocks"}
	other := &models.TicketRef{Key: "PROJ-3", Fields: models.LinkFields{Summary: "Other", Status: models.Named{Name: "Done"}}}

	ticket := models.Ticket{Key: "PROJ-1", Fields: models.Fields{IssueLinks: []models.IssueLink{
		{Type: blocks, OutwardIssue: other},
		{Type: blocks, InwardIssue: other},
	}}}

	rows, err := RelationRows(ticket)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "blocks", rows[0].Relation)
	assert.Equal(t, "is blocked by", rows[1].Relation)
	assert.Equal(t, []string{"blocks", "PROJ-3", "Other", "", "", "Done"}, rows[0].Cells(true))
	assert.Equal(t, []string{"PROJ-3", "Other", "", "", "Done"}, rows[0].Cells(false))
}

func TestRelationRowsIntegrity(t *testing.T) {
	ticket := models.Ticket{Key: "PROJ-1", Fields: models.Fields{IssueLinks: []models.IssueLink{
		{Type: models.LinkType{Inward: "in", Outward: "out"}},
	}}}

	rows, err := RelationRows(ticket)

	assert.True(t, errors.Is(err, models.ErrLinkIntegrity))
	assert.Nil(t, rows)
}

func TestHTMLText(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "Empty", input: "", want: nil},
		{name: "Plain text", input: "hello", want: []string{"hello"}},
		{name: "Paragraphs", input: "<p>one</p><p>two</p>", want: []string{"one", "two"}},
		{name: "Inline markup", input: "<p>hello <b>world</b>!</p>", want: []string{"hello world!"}},
		{name: "Line break", input: "a<br/>b", want: []string{"a", "b"}},
		{name: "Entities", input: "<p>a &amp; b &lt;c&gt;</p>", want: []string{"a & b <c>"}},
		{name: "Whitespace collapsed", input: "<p>  a \n   b  </p>", want: []string{"a b"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTMLText(tc.input))
		})
	}
}

func TestCommentLines(t *testing.T) {
	now := time.Date(2024, 1, 3, 10, 0, 0, 0, time.UTC)
	set := models.CommentSet{Comments: []models.Comment{
		{Author: models.User{DisplayName: "Ann"}, Created: "2024-01-01T10:00:00.000+0000", RenderedBody: "<p>first</p>"},
		{Author: models.User{DisplayName: "Bob"}, Created: "yesterday", RenderedBody: "<p>second</p>"},
	}}

	lines := CommentLines(set, now)

	assert.Equal(t, []string{
		"Ann, 2 days ago",
		"  first",
		"",
		"Bob, yesterday",
		"  second",
		"",
	}, lines)
}

func TestWriteTable(t *testing.T) {
	var out bytes.Buffer

	err := WriteTable(&out, []string{"KEY", "SUMMARY"}, [][]string{
		{"PROJ-1", "Login fails"},
		{"PROJ-10", "Slow search"},
	})

	require.NoError(t, err)
	assert.Equal(t, "KEY      SUMMARY\nPROJ-1   Login fails\nPROJ-10  Slow search\n", out.String())
}

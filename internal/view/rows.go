// Package view builds the rows and lines the UI renders for a ticket.
package view

import (
	"fmt"

	"github.com/danielolaszy/jtui/pkg/models"
)

// ParentHeader and RelationHeader are the column titles of the tables.
var (
	ParentHeader   = []string{"Key", "Summary", "Priority", "Type", "Status"}
	RelationHeader = []string{"Relation", "Key", "Summary", "Priority", "Type", "Status"}
)

// Row is one table row describing a related ticket.
type Row struct {
	Relation string
	Key      string
	Summary  string
	Priority string
	Type     string
	Status   string
}

// Cells returns the row's columns; withRelation adds the leading relation
// column.
func (r Row) Cells(withRelation bool) []string {
	cells := []string{r.Key, r.Summary, r.Priority, r.Type, r.Status}
	if withRelation {
		return append([]string{r.Relation}, cells...)
	}
	return cells
}

func refRow(relation string, ref models.TicketRef) Row {
	return Row{
		Relation: relation,
		Key:      ref.Key,
		Summary:  ref.Fields.Summary,
		Priority: ref.Fields.Priority.Label(),
		Type:     ref.Fields.IssueType.Name,
		Status:   ref.Fields.Status.Name,
	}
}

// ParentRows returns the parent of t as a single row, or no rows when t has
// no parent. Every column comes from the parent itself.
func ParentRows(t models.Ticket) []Row {
	if t.Fields.Parent == nil {
		return nil
	}
	return []Row{refRow("parent", *t.Fields.Parent)}
}

// RelationRows returns one row per issue link of t. A link that does not
// reference exactly one ticket fails the whole table.
func RelationRows(t models.Ticket) ([]Row, error) {
	rows := make([]Row, 0, len(t.Fields.IssueLinks))
	for _, link := range t.Fields.IssueLinks {
		label, ref, err := link.Resolve()
		if err != nil {
			return nil, fmt.Errorf("failed to read links of %s: %w", t.Key, err)
		}
		rows = append(rows, refRow(label, *ref))
	}
	return rows, nil
}

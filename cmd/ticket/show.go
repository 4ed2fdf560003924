package ticket

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/view"
)

// ShowCmd prints a ticket with its parent and relations.
var ShowCmd = &cobra.Command{
	Use:   "show KEY",
	Short: "Show a ticket with its parent and relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		key := strings.ToUpper(args[0])
		t, err := svc.Ticket(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get ticket %s: %w", key, err)
		}

		out := cmd.OutOrStdout()
		f := t.Fields
		fmt.Fprintf(out, "%s  %s\n", t.Key, f.Summary)
		fmt.Fprintf(out, "Status: %s  Priority: %s  Type: %s\n", f.Status.Name, f.Priority.Label(), f.IssueType.Name)
		fmt.Fprintf(out, "Assignee: %s  Reporter: %s\n", f.Assignee.Label(), f.Reporter.Label())
		fmt.Fprintf(out, "URL: %s\n", svc.BrowseURL(t.Key))
		for _, line := range view.HTMLText(t.RenderedFields.Description) {
			fmt.Fprintln(out, line)
		}

		fmt.Fprintln(out, "\nParent")
		if err := writeRows(cmd, view.ParentHeader, view.ParentRows(t), false); err != nil {
			return err
		}

		fmt.Fprintln(out, "\nRelations")
		relations, err := view.RelationRows(t)
		if err != nil {
			return err
		}
		return writeRows(cmd, view.RelationHeader, relations, true)
	},
}

func writeRows(cmd *cobra.Command, header []string, rows []view.Row, withRelation bool) error {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "none")
		return nil
	}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = r.Cells(withRelation)
	}
	return view.WriteTable(cmd.OutOrStdout(), header, cells)
}

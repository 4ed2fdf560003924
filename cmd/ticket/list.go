// Package ticket holds the ticket subcommands.
package ticket

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/view"
)

// ListCmd lists the tickets of a project.
var ListCmd = &cobra.Command{
	Use:   "list PROJECT",
	Short: "List the tickets of a project",
	Long: `List the tickets of a project ordered by key.

Tickets come from the local cache when it holds any for the project; use
--refresh to search Jira again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, err := cmd.Flags().GetBool("refresh")
		if err != nil {
			return err
		}

		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		project := strings.ToUpper(args[0])
		tickets, err := svc.Tickets(cmd.Context(), project, refresh)
		if err != nil {
			return fmt.Errorf("failed to list tickets of %s: %w", project, err)
		}

		rows := make([][]string, len(tickets))
		for i, t := range tickets {
			rows[i] = []string{t.Key, t.Fields.Status.Name, t.Fields.Priority.Label(), t.Fields.IssueType.Name, t.Fields.Summary}
		}
		return view.WriteTable(cmd.OutOrStdout(), []string{"KEY", "STATUS", "PRIORITY", "TYPE", "SUMMARY"}, rows)
	},
}

func init() {
	ListCmd.Flags().Bool("refresh", false, "search Jira instead of the cache")
}

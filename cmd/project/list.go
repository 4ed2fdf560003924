// Package project holds the project subcommands.
package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/view"
)

// ListCmd lists the projects visible to the account.
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Jira projects",
	Long: `List the projects visible to the configured account.

Projects come from the local cache when it holds any; use --refresh to fetch
them from Jira again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, err := cmd.Flags().GetBool("refresh")
		if err != nil {
			return err
		}

		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		projects, err := svc.Projects(cmd.Context(), refresh)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		rows := make([][]string, len(projects))
		for i, p := range projects {
			rows[i] = []string{p.Key, p.Name}
		}
		return view.WriteTable(cmd.OutOrStdout(), []string{"KEY", "NAME"}, rows)
	},
}

func init() {
	ListCmd.Flags().Bool("refresh", false, "fetch from Jira instead of the cache")
}

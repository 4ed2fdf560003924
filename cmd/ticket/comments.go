package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/view"
)

// CommentsCmd prints the comments of a ticket.
var CommentsCmd = &cobra.Command{
	Use:   "comments KEY",
	Short: "Show the comments of a ticket",
	Long: `Show the comments of a ticket.

Comments are fetched from Jira once and then served from the local cache until
a comment is added or a transition with a comment is applied.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		key := strings.ToUpper(args[0])
		set, err := svc.Comments(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get comments of %s: %w", key, err)
		}

		if len(set.Comments) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no comments")
			return nil
		}
		for _, line := range view.CommentLines(set, time.Now()) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

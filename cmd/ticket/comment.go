package ticket

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
)

// CommentCmd adds a comment to a ticket.
var CommentCmd = &cobra.Command{
	Use:   "comment KEY TEXT...",
	Short: "Add a comment to a ticket",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := strings.TrimSpace(strings.Join(args[1:], " "))
		if body == "" {
			return fmt.Errorf("comment text is empty")
		}

		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		key := strings.ToUpper(args[0])
		if err := svc.AddComment(cmd.Context(), key, body); err != nil {
			return fmt.Errorf("failed to comment on %s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "comment added to %s\n", key)
		return nil
	},
}

package ticket

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/transition"
	"github.com/danielolaszy/jtui/internal/view"
)

// TransitionsCmd lists the transitions available on a ticket.
var TransitionsCmd = &cobra.Command{
	Use:   "transitions KEY",
	Short: "List the transitions available on a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		key := strings.ToUpper(args[0])
		transitions, err := svc.Transitions(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get transitions of %s: %w", key, err)
		}

		rows := make([][]string, len(transitions))
		for i, t := range transitions {
			screen := ""
			if t.NeedsScreen() {
				field, values := transition.ScreenField(t)
				screen = "unsupported"
				if field != "" {
					screen = fmt.Sprintf("%s: %s", field, strings.Join(values, ", "))
				}
			}
			rows[i] = []string{t.ID, t.Name, screen}
		}
		return view.WriteTable(cmd.OutOrStdout(), []string{"ID", "NAME", "SCREEN"}, rows)
	},
}

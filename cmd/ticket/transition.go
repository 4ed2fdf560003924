package ticket

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/transition"
)

// TransitionCmd applies a workflow transition to a ticket.
var TransitionCmd = &cobra.Command{
	Use:   "transition KEY TRANSITION",
	Short: "Apply a workflow transition to a ticket",
	Long: `Apply a workflow transition to a ticket.

TRANSITION is a transition ID or name as listed by "jtui ticket transitions".
Transitions that open a screen need --value set to one of the allowed values
of the screen field.

Example:
  jtui ticket transition PROJ-1 Resolve --value Fixed --comment "released in 1.2"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := cmd.Flags().GetString("value")
		if err != nil {
			return err
		}
		comment, err := cmd.Flags().GetString("comment")
		if err != nil {
			return err
		}

		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return err
		}

		key := strings.ToUpper(args[0])
		transitions, err := svc.Transitions(cmd.Context(), key)
		if err != nil {
			return fmt.Errorf("failed to get transitions of %s: %w", key, err)
		}

		t, err := transition.Find(transitions, args[1])
		if err != nil {
			return err
		}
		sub, err := transition.Resolve(t, value, comment)
		if err != nil {
			return err
		}

		logging.Debug("applying transition", "key", key, "transition", sub.TransitionName)
		updated, err := svc.Submit(cmd.Context(), key, sub)
		if err != nil {
			return fmt.Errorf("failed to transition %s: %w", key, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.Key, updated.Fields.Status.Name)
		return nil
	},
}

func init() {
	TransitionCmd.Flags().String("value", "", "value for the transition screen field")
	TransitionCmd.Flags().StringP("comment", "m", "", "comment to add with the transition")
}

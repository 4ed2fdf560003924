package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/cmd/ticket"
)

// ticketCmd groups the ticket commands.
var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Work with Jira tickets",
}

func init() {
	ticketCmd.AddCommand(ticket.ListCmd)
	ticketCmd.AddCommand(ticket.ShowCmd)
	ticketCmd.AddCommand(ticket.CommentsCmd)
	ticketCmd.AddCommand(ticket.CommentCmd)
	ticketCmd.AddCommand(ticket.TransitionsCmd)
	ticketCmd.AddCommand(ticket.TransitionCmd)
}

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/cmd/project"
)

// projectCmd groups the project commands.
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Work with Jira projects",
}

func init() {
	projectCmd.AddCommand(project.ListCmd)
}

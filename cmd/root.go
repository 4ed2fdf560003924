// Package cmd provides the command-line interface for jtui.
package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/app"
	"github.com/danielolaszy/jtui/internal/common"
	"github.com/danielolaszy/jtui/internal/config"
	"github.com/danielolaszy/jtui/internal/input"
	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "jtui",
	Short: "jtui is a terminal client for Jira",
	Long: `jtui browses Jira projects, tickets and comments from the terminal and
applies workflow transitions without leaving it.

Projects, tickets and comments are cached in a local SQLite file and only
fetched again when they are missing or explicitly refreshed.

Connection settings are read from the environment:
  JIRA_URL        base URL of the Jira instance (https only)
  JIRA_USERNAME   account name, not needed with JIRA_AUTH_MODE=bearer
  JIRA_TOKEN      API token or personal access token
  JIRA_AUTH_MODE  basic (default) or bearer

Running jtui without a subcommand starts the interactive interface.`,
	SilenceUsage:      true,
	PersistentPreRunE: openService,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		svc, err := app.FromContext(cmd.Context())
		if err != nil {
			return nil
		}
		return svc.Close()
	},
	RunE: runUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ~/.jtui/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(cacheCmd)
}

// loadConfig reads the configuration and applies the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	if level != "" {
		cfg.Log.Level = level
	}
	return cfg, nil
}

// openService attaches a connected service to the command context.
func openService(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logging.SetupLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))

	svc, err := app.Open(cfg)
	if err != nil {
		return err
	}
	cmd.SetContext(app.NewContext(cmd.Context(), svc))
	return nil
}

// runUI starts the interactive interface. Logs go to a dated file so they
// do not draw over the screen.
func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	keys, err := input.NewKeyMap(cfg.Keys)
	if err != nil {
		return fmt.Errorf("invalid key bindings: %w", err)
	}

	dir, err := common.AppDir()
	if err != nil {
		return err
	}
	logFile, err := common.OpenLogFile(dir)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.SetupLogger(logFile, logging.ParseLevel(cfg.Log.Level))

	svc, err := app.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	logging.Info("starting interface", "url", cfg.Jira.BaseURL)
	program := tea.NewProgram(tui.NewModel(cmd.Context(), svc, keys), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run interface: %w", err)
	}
	return nil
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/jtui/internal/logging"
	"github.com/danielolaszy/jtui/internal/store"
)

// cacheCmd groups the local cache commands. They do not talk to Jira, so
// they skip opening the service.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local cache",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logging.SetupLogger(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.Cache.Path)
		if err != nil {
			return fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Path, err)
		}
		defer db.Close()

		if err := db.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		logging.Info("cleared cache", "path", cfg.Cache.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", cfg.Cache.Path)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
}

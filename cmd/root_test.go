package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/jtui/internal/store"
)

// isolate clears the Jira environment and points the cache into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, name := range []string{"JIRA_URL", "JIRA_USERNAME", "JIRA_TOKEN", "JIRA_AUTH_MODE", "JIRA_TIMEOUT", "LOG_LEVEL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	path := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("JTUI_CACHE_PATH", path)
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{}, args...))
	t.Cleanup(func() {
		require.NoError(t, rootCmd.PersistentFlags().Set("config", ""))
		require.NoError(t, rootCmd.PersistentFlags().Set("log-level", ""))
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCommandsNeedJiraSettings(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Interface", args: nil},
		{name: "Project list", args: []string{"project", "list"}},
		{name: "Ticket list", args: []string{"ticket", "list", "PROJ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			_, err := execute(t, tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing required environment variables")
		})
	}
}

func TestCacheClear(t *testing.T) {
	path := isolate(t)

	db, err := store.Open(path)
	require.NoError(t, err)
	_, err = db.Merge(context.Background(), store.RecordKey{Table: store.TableProjects, Key: "PROJ"}, map[string]string{"key": "PROJ"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	out, err := execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared "+path)

	db, err = store.Open(path)
	require.NoError(t, err)
	defer db.Close()
	_, ok, err := db.Select(context.Background(), store.RecordKey{Table: store.TableProjects, Key: "PROJ"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadConfigFlags(t *testing.T) {
	isolate(t)
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: warn\n"), 0o600))

	tests := []struct {
		name      string
		args      []string
		wantLevel string
	}{
		{name: "Level from file", args: []string{"--config", configPath}, wantLevel: "warn"},
		{name: "Flag wins over file", args: []string{"--config", configPath, "--log-level", "debug"}, wantLevel: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cobra.Command{Use: "probe"}
			c.Flags().AddFlagSet(rootCmd.PersistentFlags())
			require.NoError(t, c.ParseFlags(tt.args))
			t.Cleanup(func() {
				c.Flags().Set("config", "")
				c.Flags().Set("log-level", "")
			})

			cfg, err := loadConfig(c)

			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, cfg.Log.Level)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	isolate(t)
	c := &cobra.Command{Use: "probe"}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, c.ParseFlags([]string{"--config", "/nonexistent/jtui.yaml"}))
	t.Cleanup(func() { c.Flags().Set("config", "") })

	_, err := loadConfig(c)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

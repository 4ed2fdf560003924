// Package common holds the application's on-disk locations.
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// AppName names the per-user application directory (~/.jtui).
const AppName = "jtui"

// AppDir returns the per-user application directory, creating it if needed.
func AppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(homeDir, "."+AppName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create application directory: %w", err)
	}
	return dir, nil
}

// DefaultCachePath returns the default location of the local cache.
func DefaultCachePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

// DefaultConfigPath returns the default location of the config file. The
// file may not exist.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, "."+AppName, "config.yaml"), nil
}

// LogFileName returns the dated log file name for day.
func LogFileName(day time.Time) string {
	return fmt.Sprintf("%s-%s.log", AppName, day.Format("2006-01-02"))
}

// OpenLogFile opens today's log file under dir/logs for appending.
func OpenLogFile(dir string) (*os.File, error) {
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(filepath.Join(logsDir, LogFileName(time.Now())), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return logFile, nil
}

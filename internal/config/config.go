// Package config provides centralized configuration management for the application.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/danielolaszy/jtui/internal/common"
)

// Config holds all configuration parameters for the application.
type Config struct {
	Jira       JiraConfig
	Cache      CacheConfig
	Pagination PaginationConfig
	Log        LogConfig

	// Keys maps action names to comma separated key overrides
	Keys map[string]string
}

// JiraConfig holds JIRA specific configuration.
type JiraConfig struct {
	BaseURL  string
	Username string
	Token    string

	// AuthMode is "basic" (username + API token) or "bearer" (personal access token)
	AuthMode string

	Timeout time.Duration
}

// CacheConfig holds the local cache configuration.
type CacheConfig struct {
	Path string
}

// PaginationConfig bounds list requests.
type PaginationConfig struct {
	MaxPages int
	PageSize int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables and an optional
// YAML file. An empty path uses ~/.jtui/config.yaml when it exists;
// environment variables take precedence over the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("jira.auth_mode", "basic")
	v.SetDefault("jira.timeout", 30*time.Second)
	v.SetDefault("pagination.max_pages", 100)
	v.SetDefault("pagination.page_size", 50)
	v.SetDefault("log.level", "info")

	// Map specific environment variables
	v.BindEnv("jira.url", "JIRA_URL")
	v.BindEnv("jira.username", "JIRA_USERNAME")
	v.BindEnv("jira.token", "JIRA_TOKEN")
	v.BindEnv("jira.auth_mode", "JIRA_AUTH_MODE")
	v.BindEnv("jira.timeout", "JIRA_TIMEOUT")
	v.BindEnv("cache.path", "JTUI_CACHE_PATH")
	v.BindEnv("log.level", "LOG_LEVEL")

	if err := readConfigFile(v, path); err != nil {
		return nil, err
	}

	cachePath := v.GetString("cache.path")
	if cachePath == "" {
		var err error
		cachePath, err = common.DefaultCachePath()
		if err != nil {
			return nil, err
		}
	}

	config := &Config{
		Jira: JiraConfig{
			BaseURL:  strings.TrimRight(v.GetString("jira.url"), "/"),
			Username: v.GetString("jira.username"),
			Token:    v.GetString("jira.token"),
			AuthMode: strings.ToLower(v.GetString("jira.auth_mode")),
			Timeout:  v.GetDuration("jira.timeout"),
		},
		Cache: CacheConfig{
			Path: cachePath,
		},
		Pagination: PaginationConfig{
			MaxPages: v.GetInt("pagination.max_pages"),
			PageSize: v.GetInt("pagination.page_size"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Keys: v.GetStringMapString("keys"),
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

func readConfigFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = common.DefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return nil
}

// validateConfig checks values that have defaults but can be overridden badly.
func validateConfig(config *Config) error {
	switch config.Jira.AuthMode {
	case "basic", "bearer":
	default:
		return fmt.Errorf("invalid JIRA_AUTH_MODE %q: must be basic or bearer", config.Jira.AuthMode)
	}
	if config.Pagination.MaxPages <= 0 {
		return fmt.Errorf("pagination.max_pages must be positive, got %d", config.Pagination.MaxPages)
	}
	if config.Pagination.PageSize <= 0 {
		return fmt.Errorf("pagination.page_size must be positive, got %d", config.Pagination.PageSize)
	}
	return nil
}

// ValidateJiraConfig validates JIRA-specific configuration.
func ValidateJiraConfig(config *Config) error {
	var missingVars []string

	if config.Jira.BaseURL == "" {
		missingVars = append(missingVars, "JIRA_URL")
	}
	// Bearer tokens identify the user on their own.
	if config.Jira.Username == "" && config.Jira.AuthMode != "bearer" {
		missingVars = append(missingVars, "JIRA_USERNAME")
	}
	if config.Jira.Token == "" {
		missingVars = append(missingVars, "JIRA_TOKEN")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %v", missingVars)
	}

	if !strings.HasPrefix(config.Jira.BaseURL, "https://") {
		return fmt.Errorf("JIRA_URL must be an https URL, got %q", config.Jira.BaseURL)
	}

	return nil
}

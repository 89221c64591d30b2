package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Backend Backend `mapstructure:"backend"`
	Scope   Scope   `mapstructure:"scope"`
	UI      UI      `mapstructure:"ui"`
	Data    Data    `mapstructure:"data"`
	History History `mapstructure:"history"`
	Logging Logging `mapstructure:"logging"`
}

// Backend points at the dashboard API.
type Backend struct {
	BaseURL        string `mapstructure:"base_url"`
	RequestTimeout int    `mapstructure:"request_timeout_ms"`
}

// Scope is the default route to open on start. Object and view content are
// optional; when empty the first navigation entry is used.
type Scope struct {
	Tenant      string `mapstructure:"tenant"`
	Product     string `mapstructure:"product"`
	Object      string `mapstructure:"object"`
	ViewContent string `mapstructure:"view_content"`
}

type UI struct {
	Theme              string `mapstructure:"theme"`
	UseBrandingTheme   bool   `mapstructure:"use_branding_theme"`
	MouseEnabled       bool   `mapstructure:"mouse_enabled"`
	NavWidthRatio      int    `mapstructure:"nav_width_ratio"`
	ShowBreadcrumbs    bool   `mapstructure:"show_breadcrumbs"`
	ConfirmDeletes     bool   `mapstructure:"confirm_deletes"`
	ViewportWidth      int    `mapstructure:"viewport_width"`
	MaxCellDisplayLen  int    `mapstructure:"max_cell_display_length"`
	ShowRawResponseKey string `mapstructure:"show_raw_response_key"`
}

type Data struct {
	PageSize      int    `mapstructure:"page_size"`
	ExportDir     string `mapstructure:"export_dir"`
	ExportFormat  string `mapstructure:"export_format"`
	DateTruncated bool   `mapstructure:"date_truncated"`
}

type History struct {
	Enabled    bool `mapstructure:"enabled"`
	MaxEntries int  `mapstructure:"max_entries"`
	Persist    bool `mapstructure:"persist"`
}

type Logging struct {
	Enabled bool   `mapstructure:"enabled"`
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
}

// GetDefaults returns a Config with all default values
func GetDefaults() *Config {
	return &Config{
		Backend: Backend{
			BaseURL:        "http://localhost:8080",
			RequestTimeout: 30000,
		},
		UI: UI{
			Theme:              "default",
			UseBrandingTheme:   true,
			MouseEnabled:       true,
			NavWidthRatio:      25,
			ShowBreadcrumbs:    true,
			ConfirmDeletes:     true,
			ViewportWidth:      1000,
			MaxCellDisplayLen:  100,
			ShowRawResponseKey: "ctrl+j",
		},
		Data: Data{
			PageSize:      10,
			ExportFormat:  "csv",
			DateTruncated: true,
		},
		History: History{
			Enabled:    true,
			MaxEntries: 1000,
			Persist:    true,
		},
		Logging: Logging{
			Enabled: true,
			Level:   "info",
		},
	}
}

// Load loads configuration from files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths in priority order
	// 1. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "lazydash"))
	}

	// 2. Current directory
	v.AddConfigPath(".")

	// 3. Default config directory
	v.AddConfigPath("./config")

	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.request_timeout_ms", 30000)
	v.SetDefault("scope.tenant", "")
	v.SetDefault("scope.product", "")
	v.SetDefault("scope.object", "")
	v.SetDefault("scope.view_content", "")
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.use_branding_theme", true)
	v.SetDefault("ui.mouse_enabled", true)
	v.SetDefault("ui.nav_width_ratio", 25)
	v.SetDefault("ui.show_breadcrumbs", true)
	v.SetDefault("ui.confirm_deletes", true)
	v.SetDefault("ui.viewport_width", 1000)
	v.SetDefault("ui.max_cell_display_length", 100)
	v.SetDefault("ui.show_raw_response_key", "ctrl+j")
	v.SetDefault("data.page_size", 10)
	v.SetDefault("data.export_dir", "")
	v.SetDefault("data.export_format", "csv")
	v.SetDefault("data.date_truncated", true)
	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", 1000)
	v.SetDefault("history.persist", true)
	v.SetDefault("logging.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	// Read config (it's okay if file doesn't exist, we have defaults)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	// Unmarshal into struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// GetConfigPath returns the user config directory path
func GetConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "lazydash"), nil
}

// LogFilePath resolves the diagnostic log destination, defaulting into the
// user config directory.
func (c *Config) LogFilePath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lazydash.log"), nil
}

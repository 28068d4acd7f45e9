package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database      DatabaseConfig
	Logging       LoggingConfig
	Undo          UndoConfig
	ChangeLog     ChangeLogConfig
	Notifications NotificationsConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string
	Format string
}

// UndoConfig holds undo slot settings.
type UndoConfig struct {
	Window time.Duration
}

// ChangeLogConfig holds audit trail settings.
type ChangeLogConfig struct {
	Limit int
}

// NotificationsConfig holds notification cache settings.
type NotificationsConfig struct {
	Path string
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", filepath.Join(DefaultDataDir(), "monedero.db"))
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("undo.window", 10*time.Second)
	v.SetDefault("changelog.limit", 80)
	v.SetDefault("notifications.path", filepath.Join(DefaultDataDir(), "notifications.json"))
}

// FromViper builds a Config from the given viper instance.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Database:      DatabaseConfig{Path: ExpandPath(v.GetString("database.path"))},
		Logging:       LoggingConfig{Level: v.GetString("logging.level"), Format: v.GetString("logging.format")},
		Undo:          UndoConfig{Window: v.GetDuration("undo.window")},
		ChangeLog:     ChangeLogConfig{Limit: v.GetInt("changelog.limit")},
		Notifications: NotificationsConfig{Path: ExpandPath(v.GetString("notifications.path"))},
	}

	if cfg.Undo.Window <= 0 {
		return Config{}, fmt.Errorf("undo.window must be positive, got %s", cfg.Undo.Window)
	}
	if cfg.ChangeLog.Limit <= 0 {
		return Config{}, fmt.Errorf("changelog.limit must be positive, got %d", cfg.ChangeLog.Limit)
	}
	return cfg, nil
}

package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/marmos91/posixid/pkg/identity"
	"github.com/marmos91/posixid/pkg/identity/files"
	"github.com/marmos91/posixid/pkg/identity/store"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
// Zero values are replaced with defaults; explicit values are preserved.
func ApplyDefaults(cfg *Config) {
	applySourceDefaults(&cfg.Source)
	applyGroupsDefaults(&cfg.Groups)
	applyLoggingDefaults(&cfg.Logging)
}

func applySourceDefaults(cfg *SourceConfig) {
	if cfg.Type == "" {
		cfg.Type = SourceFiles
	}
	cfg.Files.ApplyDefaults()
	if cfg.Type == SourceDatabase {
		cfg.Database.ApplyDefaults()
	}
}

func applyGroupsDefaults(cfg *GroupsConfig) {
	if cfg.Policy == "" {
		cfg.Policy = identity.DefaultPolicy
	}
}

// applyLoggingDefaults sets logging defaults and normalizes values.
// Logs go to stderr so stdout carries only command output.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "WARN"
	}
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// setViperDefaults registers every scalar key so environment variables are
// honored even when no configuration file is present.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("source.type", string(SourceFiles))
	v.SetDefault("source.files.passwd", files.DefaultPasswdPath)
	v.SetDefault("source.files.group", files.DefaultGroupPath)
	v.SetDefault("source.database.type", string(store.DatabaseTypeSQLite))
	v.SetDefault("source.database.sqlite.path", "")
	v.SetDefault("source.database.postgres.host", "")
	v.SetDefault("source.database.postgres.port", 0)
	v.SetDefault("source.database.postgres.database", "")
	v.SetDefault("source.database.postgres.user", "")
	v.SetDefault("source.database.postgres.password", "")
	v.SetDefault("source.database.postgres.sslmode", "")
	v.SetDefault("groups.policy", string(identity.DefaultPolicy))
	v.SetDefault("logging.level", "WARN")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stderr")
}

// GetDefaultConfig returns a Config struct with all default values applied.
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

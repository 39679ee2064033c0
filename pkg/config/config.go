package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/posixid/pkg/identity"
	"github.com/marmos91/posixid/pkg/identity/files"
	"github.com/marmos91/posixid/pkg/identity/store"
)

// Config represents the posixid configuration.
//
// Configuration sources (in order of precedence):
//  1. CLI flags (highest priority, applied by the commands)
//  2. Environment variables (POSIXID_*)
//  3. Configuration file (YAML)
//  4. Default values (lowest priority)
type Config struct {
	// Source selects and configures the identity database.
	Source SourceConfig `mapstructure:"source" yaml:"source" json:"source"`

	// Groups controls supplementary group collection.
	Groups GroupsConfig `mapstructure:"groups" yaml:"groups" json:"groups"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// SourceType names an identity database backend.
type SourceType string

const (
	// SourceFiles reads passwd(5) and group(5) files.
	SourceFiles SourceType = "files"

	// SourceDatabase reads the SQL identity database.
	SourceDatabase SourceType = "database"

	// SourceStatic serves identities listed in the configuration file.
	SourceStatic SourceType = "static"
)

// SourceConfig selects the identity database.
type SourceConfig struct {
	// Type is the backend: files, database or static.
	// Default: files
	Type SourceType `mapstructure:"type" yaml:"type" json:"type" validate:"required,oneof=files database static"`

	// Files configures the flat-file backend.
	Files files.Config `mapstructure:"files" yaml:"files" json:"files"`

	// Database configures the SQL backend.
	Database store.Config `mapstructure:"database" yaml:"database" json:"database"`

	// Static lists identities for the static backend.
	Static StaticConfig `mapstructure:"static" yaml:"static,omitempty" json:"static,omitempty"`
}

// StaticConfig holds account and group tables inline.
// Table order is database order.
type StaticConfig struct {
	Users  []StaticUser  `mapstructure:"users" yaml:"users,omitempty" json:"users,omitempty" validate:"dive"`
	Groups []StaticGroup `mapstructure:"groups" yaml:"groups,omitempty" json:"groups,omitempty" validate:"dive"`
}

// StaticUser is one inline account.
type StaticUser struct {
	Name string `mapstructure:"name" yaml:"name" json:"name" validate:"required"`
	UID  uint32 `mapstructure:"uid" yaml:"uid" json:"uid"`
	GID  uint32 `mapstructure:"gid" yaml:"gid" json:"gid"`
}

// StaticGroup is one inline group.
type StaticGroup struct {
	Name    string   `mapstructure:"name" yaml:"name" json:"name"`
	GID     uint32   `mapstructure:"gid" yaml:"gid" json:"gid"`
	Members []string `mapstructure:"members" yaml:"members,omitempty" json:"members,omitempty"`
}

// GroupsConfig controls supplementary group collection.
type GroupsConfig struct {
	// Policy decides how primary groups relate to the membership list.
	// Valid values: members, exclude-primary, primary-first
	// Default: members
	Policy identity.Policy `mapstructure:"policy" yaml:"policy" json:"policy" validate:"required,oneof=members exclude-primary primary-first"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level" json:"level"`

	// Format specifies the log output format
	// Valid values: text, json
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format" json:"format"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required" yaml:"output" json:"output"`
}

// Load loads configuration from file, environment, and defaults.
//
// An empty configPath searches the default location, and a missing default
// file is not an error. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)
	setViperDefaults(v)

	if _, err := readConfigFile(v, configPath != ""); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(configDecodeHooks())); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// SaveConfig saves the configuration to the specified file path in YAML.
func SaveConfig(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// 0600: the database section may carry a password.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Example: POSIXID_SOURCE_TYPE=database
	v.SetEnvPrefix("POSIXID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists.
// Returns (fileFound, error) where fileFound indicates if a config file was found.
func readConfigFile(v *viper.Viper, explicit bool) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		if os.IsNotExist(err) && !explicit {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}

	return true, nil
}

// configDecodeHooks returns a combined decode hook for all custom types.
func configDecodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		lowerStringHook(reflect.TypeOf(SourceType(""))),
		lowerStringHook(reflect.TypeOf(store.DatabaseType(""))),
		policyDecodeHook(),
	)
}

// lowerStringHook normalizes strings decoded into the enum type t to
// lowercase, so "SQLite" and "sqlite" select the same backend.
func lowerStringHook(t reflect.Type) mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != t || from.Kind() != reflect.String {
			return data, nil
		}
		return strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())), nil
	}
}

// policyDecodeHook parses group policy names.
func policyDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(identity.Policy("")) || from.Kind() != reflect.String {
			return data, nil
		}
		return identity.ParsePolicy(reflect.ValueOf(data).String())
	}
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "posixid")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "posixid")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists checks if a config file exists at the default location.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags and the selected backend's own rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	switch cfg.Source.Type {
	case SourceDatabase:
		if err := cfg.Source.Database.Validate(); err != nil {
			return fmt.Errorf("source.database: %w", err)
		}
	case SourceStatic:
		if len(cfg.Source.Static.Users) == 0 {
			return fmt.Errorf("source.static: at least one user is required")
		}
	}

	return nil
}

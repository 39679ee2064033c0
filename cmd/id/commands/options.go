package commands

import (
	"github.com/marmos91/posixid/internal/cli/output"
	"github.com/marmos91/posixid/pkg/config"
	"github.com/marmos91/posixid/pkg/format"
	"github.com/marmos91/posixid/pkg/identity"
)

// options holds the parsed command line.
type options struct {
	groups bool
	group  bool
	user   bool
	name   bool
	real   bool

	output     string
	configFile string
	source     string
	passwdFile string
	groupFile  string
	policy     string
	verbose    bool
}

// selector returns the output mode chosen by -G, -g or -u.
func (o *options) selector() format.Selector {
	switch {
	case o.groups:
		return format.SelectGroups
	case o.group:
		return format.SelectGroup
	case o.user:
		return format.SelectUser
	default:
		return format.SelectDefault
	}
}

// validate rejects illegal option combinations. It runs before any lookup.
func (o *options) validate() error {
	n := 0
	for _, set := range []bool{o.groups, o.group, o.user} {
		if set {
			n++
		}
	}
	if n > 1 {
		return usageErrorf("only one of -G, -g or -u may be given")
	}

	sel := o.selector()
	if sel == format.SelectDefault && (o.name || o.real) {
		return usageErrorf("-n and -r require one of -G, -g or -u")
	}
	if sel == format.SelectGroups && o.real {
		return usageErrorf("-r cannot be used with -G")
	}

	if _, err := output.ParseFormat(o.output, output.FormatText); err != nil {
		return usageErrorf(err.Error())
	}
	if o.policy != "" {
		if _, err := identity.ParsePolicy(o.policy); err != nil {
			return usageErrorf(err.Error())
		}
	}
	switch config.SourceType(o.source) {
	case "", config.SourceFiles, config.SourceDatabase, config.SourceStatic:
	default:
		return usageErrorf("invalid source: " + o.source + " (valid: files, database, static)")
	}
	return nil
}

// applyOverrides layers flag values over the loaded configuration.
func (o *options) applyOverrides(cfg *config.Config) {
	if o.source != "" {
		cfg.Source.Type = config.SourceType(o.source)
		if cfg.Source.Type == config.SourceDatabase {
			cfg.Source.Database.ApplyDefaults()
		}
	}
	if o.passwdFile != "" {
		cfg.Source.Files.Passwd = o.passwdFile
	}
	if o.groupFile != "" {
		cfg.Source.Files.Group = o.groupFile
	}
	if o.policy != "" {
		cfg.Groups.Policy, _ = identity.ParsePolicy(o.policy)
	}
	if o.verbose {
		cfg.Logging.Level = "DEBUG"
	}
	// stdout carries only the report.
	if cfg.Logging.Output == "stdout" {
		cfg.Logging.Output = "stderr"
	}
}

package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/posixid/internal/cli/output"
	"github.com/marmos91/posixid/internal/logger"
	"github.com/marmos91/posixid/pkg/config"
	"github.com/marmos91/posixid/pkg/format"
	"github.com/marmos91/posixid/pkg/identity"
)

func run(cmd *cobra.Command, d deps, opts *options, args []string) error {
	if err := opts.validate(); err != nil {
		return err
	}

	var operand string
	if len(args) == 1 {
		operand = args[0]
	}

	outFormat, _ := output.ParseFormat(opts.output, output.FormatText)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	opts.applyOverrides(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	src, closeSrc, err := d.openSource(cfg.Source)
	if err != nil {
		return err
	}
	defer func() { _ = closeSrc() }()

	lc := logger.NewLogContext("id").
		WithSource(string(cfg.Source.Type)).
		WithOperand(operand)
	ctx := logger.WithContext(cmd.Context(), lc)

	sel := opts.selector()
	logger.DebugCtx(ctx, "id started",
		logger.KeyMode, sel.String(), logger.KeyOutput, outFormat.String(), logger.KeyPolicy, string(cfg.Groups.Policy))

	target, err := identity.NewResolver(src, d.process()).Resolve(ctx, operand, opts.real)
	if err != nil {
		return err
	}

	withNames := sel == format.SelectDefault || opts.name || outFormat != output.FormatText
	report, err := buildReport(ctx, src, identity.NewCollector(src, cfg.Groups.Policy), target, sel, withNames)
	if err != nil {
		return err
	}

	var data any = report
	if outFormat == output.FormatText {
		data = textReport{Report: report, sel: sel, names: opts.name}
	}

	// Render fully before writing so a failure leaves stdout untouched.
	var buf bytes.Buffer
	if err := output.NewPrinter(&buf, outFormat).Print(data); err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(buf.Bytes()); err != nil {
		return err
	}

	logger.DebugCtx(ctx, "id finished", logger.KeyDurationMs, lc.Elapsed())
	return nil
}

// textReport renders a report in the id(1) line grammar.
type textReport struct {
	*format.Report
	sel   format.Selector
	names bool
}

// RenderText implements output.TextRenderer.
func (t textReport) RenderText() string {
	return t.Report.Text(t.sel, t.names)
}

// buildReport gathers the fields sel prints for t. Names are looked up only
// when withNames is set; a missing name leaves the field numeric.
func buildReport(
	ctx context.Context,
	src identity.Source,
	collector *identity.Collector,
	t *identity.Target,
	sel format.Selector,
	withNames bool,
) (*format.Report, error) {
	user := func(uid uint32) (*format.Entry, error) {
		e := &format.Entry{ID: uid}
		if !withNames {
			return e, nil
		}
		name, err := identity.UserName(ctx, src, uid)
		e.Name = name
		return e, err
	}
	group := func(gid uint32) (*format.Entry, error) {
		e := &format.Entry{ID: gid}
		if !withNames {
			return e, nil
		}
		name, err := identity.GroupName(ctx, src, gid)
		e.Name = name
		return e, err
	}

	r := &format.Report{}
	var err error

	switch sel {
	case format.SelectUser:
		r.UID, err = user(t.UID())
		return r, err

	case format.SelectGroup:
		r.GID, err = group(t.GID())
		return r, err

	case format.SelectGroups:
		refs, err := collector.Collect(ctx, t)
		if err != nil {
			return nil, err
		}
		r.SetGroups(refs)
		return r, nil
	}

	if r.UID, err = user(t.RealUID); err != nil {
		return nil, err
	}
	if r.GID, err = group(t.RealGID); err != nil {
		return nil, err
	}
	if t.UIDsDiffer() {
		if r.EUID, err = user(t.EffectiveUID); err != nil {
			return nil, err
		}
	}
	if t.GIDsDiffer() {
		if r.EGID, err = group(t.EffectiveGID); err != nil {
			return nil, err
		}
	}

	// The full report lists the real user's groups, matching its uid= field.
	refs, err := collector.Collect(ctx, t.RealUser())
	if err != nil {
		return nil, err
	}
	r.SetGroups(refs)
	return r, nil
}

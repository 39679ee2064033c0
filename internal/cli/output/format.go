// Package output provides output formatting utilities for CLI commands.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents the output format type.
type Format string

const (
	// FormatText outputs the command's native line format.
	FormatText Format = "text"
	// FormatTable outputs data in a formatted table.
	FormatTable Format = "table"
	// FormatJSON outputs data as JSON.
	FormatJSON Format = "json"
	// FormatYAML outputs data as YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a string into a Format, returning an error if invalid.
// An empty string yields def.
func ParseFormat(s string, def Format) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case "text":
		return FormatText, nil
	case "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("invalid output format: %q (valid: text, table, json, yaml)", s)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Structured reports whether the format is a machine-readable encoding.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// TextRenderer is implemented by types with a native line format.
type TextRenderer interface {
	RenderText() string
}

// Printer handles formatted output to a writer.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter creates a new Printer with the given options.
func NewPrinter(out io.Writer, format Format) *Printer {
	return &Printer{out: out, format: format}
}

// Format returns the printer's output format.
func (p *Printer) Format() Format {
	return p.format
}

// Writer returns the printer's output writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Print outputs data in the configured format.
// For text format, data must implement TextRenderer; for table format,
// data should implement TableRenderer and falls back to JSON otherwise.
func (p *Printer) Print(data any) error {
	switch p.format {
	case FormatText:
		renderer, ok := data.(TextRenderer)
		if !ok {
			return fmt.Errorf("%T has no text rendering", data)
		}
		_, err := io.WriteString(p.out, renderer.RenderText())
		return err
	case FormatTable:
		if renderer, ok := data.(TableRenderer); ok {
			return PrintTable(p.out, renderer)
		}
		return PrintJSON(p.out, data)
	case FormatJSON:
		return PrintJSON(p.out, data)
	case FormatYAML:
		return PrintYAML(p.out, data)
	default:
		return fmt.Errorf("unknown format: %s", p.format)
	}
}

// PrintList prints a list, or emptyMsg for an empty list in table format.
// Structured formats always encode the (possibly empty) list.
func (p *Printer) PrintList(data any, empty bool, emptyMsg string) error {
	if empty && (p.format == FormatTable || p.format == FormatText) {
		_, err := fmt.Fprintln(p.out, emptyMsg)
		return err
	}
	if p.format == FormatText {
		return NewPrinter(p.out, FormatTable).Print(data)
	}
	return p.Print(data)
}

package logger

import (
	"fmt"
	"log/slog"
)

// Standard field keys for structured logging.
// Use these keys consistently so lookups can be correlated across commands.
const (
	// ========================================================================
	// Invocation
	// ========================================================================
	KeyCommand = "command" // Command name: id, idstore import, ...
	KeyMode    = "mode"    // Selector mode: default, groups, group, user
	KeyOperand = "operand" // Account operand as given on the command line
	KeyOutput  = "output"  // Output format: text, json, yaml, table

	// ========================================================================
	// Identity
	// ========================================================================
	KeyUID      = "uid"      // User ID
	KeyGID      = "gid"      // Group ID
	KeyEUID     = "euid"     // Effective user ID
	KeyEGID     = "egid"     // Effective group ID
	KeyUsername = "username" // Account login name
	KeyGroup    = "group"    // Group name
	KeyPolicy   = "policy"   // Supplementary group policy

	// ========================================================================
	// Identity Source
	// ========================================================================
	KeySource   = "source"   // Source type: files, database
	KeyPath     = "path"     // Database file path
	KeyLine     = "line"     // Line number inside a database file
	KeyDatabase = "database" // SQL backend: sqlite, postgres
	KeyCount    = "count"    // Number of records

	// ========================================================================
	// Operation Metadata
	// ========================================================================
	KeyDurationMs = "duration_ms" // Operation duration in milliseconds
	KeyError      = "error"       // Error message
)

// Err returns an error attribute, or an empty attribute for nil.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// UID returns a uid attribute.
func UID(uid uint32) slog.Attr {
	return slog.Uint64(KeyUID, uint64(uid))
}

// GID returns a gid attribute.
func GID(gid uint32) slog.Attr {
	return slog.Uint64(KeyGID, uint64(gid))
}

// Source returns a source attribute.
func Source(kind string) slog.Attr {
	return slog.String(KeySource, kind)
}

// Path returns a path attribute.
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Line returns a line-number attribute formatted as path:line.
func Line(path string, n int) slog.Attr {
	return slog.String(KeyLine, fmt.Sprintf("%s:%d", path, n))
}

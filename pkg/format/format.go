// Package format renders identities in the id(1) output grammar.
package format

import (
	"strconv"
	"strings"

	"github.com/marmos91/posixid/pkg/identity"
)

// DisplayMode selects how a single id is rendered.
type DisplayMode int

const (
	// Full renders "<id>(<name>)", or "<id>" when no name resolves.
	Full DisplayMode = iota
	// Name renders "<name>", falling back to "<id>" when no name resolves.
	Name
	// Numeric renders "<id>".
	Numeric
)

func (m DisplayMode) String() string {
	switch m {
	case Full:
		return "full"
	case Name:
		return "name"
	case Numeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// SelectorMode returns the display mode for -G, -g and -u output.
func SelectorMode(names bool) DisplayMode {
	if names {
		return Name
	}
	return Numeric
}

// ID renders one id with the given prefix. An empty name means no name
// resolved for id; that is never an error.
func ID(prefix, name string, id uint32, mode DisplayMode) string {
	var b strings.Builder
	b.WriteString(prefix)
	appendID(&b, name, id, mode)
	return b.String()
}

// GroupList renders groups after a single prefix, separated by "," in Full
// mode and by a space otherwise. An empty list renders as the empty string,
// prefix included, so " groups=" never appears on its own.
func GroupList(prefix string, groups []identity.GroupRef, mode DisplayMode) string {
	if len(groups) == 0 {
		return ""
	}

	sep := " "
	if mode == Full {
		sep = ","
	}

	var b strings.Builder
	b.WriteString(prefix)
	for i, g := range groups {
		if i > 0 {
			b.WriteString(sep)
		}
		appendID(&b, g.Name, g.GID, mode)
	}
	return b.String()
}

func appendID(b *strings.Builder, name string, id uint32, mode DisplayMode) {
	switch {
	case mode == Name && name != "":
		b.WriteString(name)
	case mode == Full && name != "":
		b.WriteString(strconv.FormatUint(uint64(id), 10))
		b.WriteByte('(')
		b.WriteString(name)
		b.WriteByte(')')
	default:
		b.WriteString(strconv.FormatUint(uint64(id), 10))
	}
}

package format

import (
	"strconv"
	"strings"

	"github.com/marmos91/posixid/pkg/identity"
)

// Selector is the id(1) output mode chosen by -G, -g or -u.
type Selector int

const (
	// SelectDefault prints the full uid/gid/groups line.
	SelectDefault Selector = iota
	// SelectGroups prints every group id (-G).
	SelectGroups
	// SelectGroup prints the primary group id (-g).
	SelectGroup
	// SelectUser prints the primary user id (-u).
	SelectUser
)

func (s Selector) String() string {
	switch s {
	case SelectDefault:
		return "default"
	case SelectGroups:
		return "groups"
	case SelectGroup:
		return "group"
	case SelectUser:
		return "user"
	default:
		return "unknown"
	}
}

// Entry is one id together with its resolved name, if any.
type Entry struct {
	ID   uint32 `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

func (e Entry) render(prefix string, mode DisplayMode) string {
	return ID(prefix, e.Name, e.ID, mode)
}

// Report is a fully resolved identity ready for rendering. Fields a
// selector does not print are left nil.
type Report struct {
	UID    *Entry  `json:"uid,omitempty" yaml:"uid,omitempty"`
	GID    *Entry  `json:"gid,omitempty" yaml:"gid,omitempty"`
	EUID   *Entry  `json:"euid,omitempty" yaml:"euid,omitempty"`
	EGID   *Entry  `json:"egid,omitempty" yaml:"egid,omitempty"`
	Groups []Entry `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// SetGroups converts collected group refs into report entries.
func (r *Report) SetGroups(refs []identity.GroupRef) {
	r.Groups = make([]Entry, 0, len(refs))
	for _, g := range refs {
		r.Groups = append(r.Groups, Entry{ID: g.GID, Name: g.Name})
	}
}

func (r *Report) groupRefs() []identity.GroupRef {
	refs := make([]identity.GroupRef, 0, len(r.Groups))
	for _, e := range r.Groups {
		refs = append(refs, identity.GroupRef{GID: e.ID, Name: e.Name})
	}
	return refs
}

// Text renders the report as one newline-terminated id(1) line.
// names selects Name over Numeric display for the -G, -g and -u selectors;
// the default line always uses Full display.
func (r *Report) Text(sel Selector, names bool) string {
	var b strings.Builder
	mode := SelectorMode(names)

	switch sel {
	case SelectGroups:
		b.WriteString(GroupList("", r.groupRefs(), mode))
	case SelectGroup:
		if r.GID != nil {
			b.WriteString(r.GID.render("", mode))
		}
	case SelectUser:
		if r.UID != nil {
			b.WriteString(r.UID.render("", mode))
		}
	default:
		if r.UID != nil {
			b.WriteString(r.UID.render("uid=", Full))
		}
		if r.GID != nil {
			b.WriteString(r.GID.render(" gid=", Full))
		}
		if r.EUID != nil {
			b.WriteString(r.EUID.render(" euid=", Full))
		}
		if r.EGID != nil {
			b.WriteString(r.EGID.render(" egid=", Full))
		}
		b.WriteString(GroupList(" groups=", r.groupRefs(), Full))
	}

	b.WriteByte('\n')
	return b.String()
}

// Headers implements output.TableRenderer.
func (r *Report) Headers() []string {
	return []string{"FIELD", "ID", "NAME"}
}

// Rows implements output.TableRenderer.
func (r *Report) Rows() [][]string {
	var rows [][]string
	add := func(field string, e *Entry) {
		if e == nil {
			return
		}
		name := e.Name
		if name == "" {
			name = "-"
		}
		rows = append(rows, []string{field, strconv.FormatUint(uint64(e.ID), 10), name})
	}

	add("uid", r.UID)
	add("gid", r.GID)
	add("euid", r.EUID)
	add("egid", r.EGID)
	for i := range r.Groups {
		add("group", &r.Groups[i])
	}
	return rows
}

package files

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/marmos91/posixid/pkg/identity"
)

// parsePasswdLine parses one passwd(5) entry:
//
//	name:password:uid:gid:gecos:home:shell
//
// Only the first four fields are required.
func parsePasswdLine(line string) (*identity.Account, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 4 {
		return nil, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}
	if fields[0] == "" {
		return nil, fmt.Errorf("empty account name")
	}
	uid, err := parseID(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid uid: %w", err)
	}
	gid, err := parseID(fields[3])
	if err != nil {
		return nil, fmt.Errorf("invalid gid: %w", err)
	}
	return &identity.Account{UID: uid, GID: gid, Name: fields[0]}, nil
}

// parseGroupLine parses one group(5) entry:
//
//	name:password:gid:member1,member2
func parseGroupLine(line string) (*identity.Group, error) {
	fields := strings.Split(line, ":")
	if len(fields) < 3 {
		return nil, fmt.Errorf("expected at least 3 fields, got %d", len(fields))
	}
	gid, err := parseID(fields[2])
	if err != nil {
		return nil, fmt.Errorf("invalid gid: %w", err)
	}

	g := &identity.Group{GID: gid, Name: fields[0]}
	if len(fields) > 3 && fields[3] != "" {
		// Member names are kept verbatim; matching is exact.
		for _, m := range strings.Split(fields[3], ",") {
			if m != "" {
				g.Members = append(g.Members, m)
			}
		}
	}
	return g, nil
}

func parseID(s string) (uint32, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(n), nil
}

// skipLine reports whether a line carries no entry: blank lines, comments,
// and NIS compat markers ("+" / "-" entries).
func skipLine(line string) bool {
	line = strings.TrimSpace(line)
	return line == "" || line[0] == '#' || line[0] == '+' || line[0] == '-'
}

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/marmos91/posixid/internal/logger"
)

// Policy decides how an account's primary group relates to its
// supplementary group list.
type Policy string

const (
	// PolicyMembers lists exactly the groups whose member list names the
	// account. The primary group appears only if the database lists the
	// account as a member of it.
	PolicyMembers Policy = "members"

	// PolicyExcludePrimary drops groups matching the real or effective gid.
	PolicyExcludePrimary Policy = "exclude-primary"

	// PolicyPrimaryFirst lists the real gid, then the effective gid if it
	// differs, then the remaining member groups.
	PolicyPrimaryFirst Policy = "primary-first"
)

// DefaultPolicy is the policy used when none is configured.
const DefaultPolicy = PolicyMembers

// ParsePolicy parses a policy name, case-insensitively.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPolicy, nil
	case PolicyMembers, PolicyExcludePrimary, PolicyPrimaryFirst:
		return p, nil
	default:
		return "", fmt.Errorf("invalid group policy: %q (valid: members, exclude-primary, primary-first)", s)
	}
}

// IsValid checks if the policy is known.
func (p Policy) IsValid() bool {
	return p == PolicyMembers || p == PolicyExcludePrimary || p == PolicyPrimaryFirst
}

// CollectGroups enumerates the group database once and returns every group
// whose member list contains accountName, in database order.
//
// No sorting or deduplication is applied. An empty accountName matches
// nothing and does not touch the database.
func CollectGroups(ctx context.Context, src Source, accountName string) ([]GroupRef, error) {
	if accountName == "" {
		return nil, nil
	}

	var refs []GroupRef
	err := EachGroup(ctx, src, func(g *Group) bool {
		if g.HasMember(accountName) {
			refs = append(refs, g.Ref())
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate groups: %w", err)
	}
	return refs, nil
}

// Collector builds the supplementary group list for a Target.
type Collector struct {
	src    Source
	policy Policy
}

// NewCollector creates a Collector. An invalid policy falls back to
// DefaultPolicy.
func NewCollector(src Source, policy Policy) *Collector {
	if !policy.IsValid() {
		policy = DefaultPolicy
	}
	return &Collector{src: src, policy: policy}
}

// Policy returns the collector's membership policy.
func (c *Collector) Policy() Policy {
	return c.policy
}

// Collect returns the group list for t under the collector's policy.
func (c *Collector) Collect(ctx context.Context, t *Target) ([]GroupRef, error) {
	members, err := CollectGroups(ctx, c.src, t.Subject)
	if err != nil {
		return nil, err
	}

	logger.DebugCtx(ctx, "collected member groups",
		logger.KeyUsername, t.Subject, logger.KeyCount, len(members), logger.KeyPolicy, string(c.policy))

	switch c.policy {
	case PolicyExcludePrimary:
		return withoutGIDs(members, t.RealGID, t.EffectiveGID), nil

	case PolicyPrimaryFirst:
		out := make([]GroupRef, 0, len(members)+2)
		ref, err := c.groupRef(ctx, t.RealGID)
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
		if t.GIDsDiffer() {
			ref, err := c.groupRef(ctx, t.EffectiveGID)
			if err != nil {
				return nil, err
			}
			out = append(out, ref)
		}
		return append(out, withoutGIDs(members, t.RealGID, t.EffectiveGID)...), nil

	default:
		return members, nil
	}
}

// groupRef resolves gid to a GroupRef, leaving the name empty on a miss.
func (c *Collector) groupRef(ctx context.Context, gid uint32) (GroupRef, error) {
	name, err := GroupName(ctx, c.src, gid)
	if err != nil {
		return GroupRef{}, err
	}
	return GroupRef{GID: gid, Name: name}, nil
}

func withoutGIDs(refs []GroupRef, gids ...uint32) []GroupRef {
	out := make([]GroupRef, 0, len(refs))
outer:
	for _, r := range refs {
		for _, gid := range gids {
			if r.GID == gid {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// UserName returns the login name for uid, or "" when uid has no account.
func UserName(ctx context.Context, src Source, uid uint32) (string, error) {
	acct, err := src.LookupUserID(ctx, uid)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up uid %d: %w", uid, err)
	}
	return acct.Name, nil
}

// GroupName returns the name for gid, or "" when gid has no group entry.
func GroupName(ctx context.Context, src Source, gid uint32) (string, error) {
	g, err := src.LookupGroupID(ctx, gid)
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to look up gid %d: %w", gid, err)
	}
	return g.Name, nil
}

package identity

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/marmos91/posixid/internal/logger"
)

// Target is the identity one invocation reports on.
//
// For the calling process the real and effective pairs come from the
// process credentials. For a named account both pairs are the account's
// uid/gid: a non-calling account has no separate effective identity.
type Target struct {
	RealUID      uint32
	RealGID      uint32
	EffectiveUID uint32
	EffectiveGID uint32

	// UseReal selects the real pair as the primary one.
	UseReal bool

	// Named is set when the target came from an account operand.
	Named bool

	// Subject is the account name whose group memberships -G lists.
	// Empty when the primary uid has no account.
	Subject string

	// RealSubject is the account name of RealUID. The full report lists
	// its memberships. Empty when the real uid has no account.
	RealSubject string
}

// RealUser returns a copy of t whose Subject is the real uid's account.
func (t *Target) RealUser() *Target {
	r := *t
	r.Subject = t.RealSubject
	return &r
}

// UID returns the primary user ID.
func (t *Target) UID() uint32 {
	if t.UseReal {
		return t.RealUID
	}
	return t.EffectiveUID
}

// GID returns the primary group ID.
func (t *Target) GID() uint32 {
	if t.UseReal {
		return t.RealGID
	}
	return t.EffectiveGID
}

// UIDsDiffer reports whether the effective uid should be shown separately.
func (t *Target) UIDsDiffer() bool {
	return t.RealUID != t.EffectiveUID
}

// GIDsDiffer reports whether the effective gid should be shown separately.
func (t *Target) GIDsDiffer() bool {
	return t.RealGID != t.EffectiveGID
}

// Resolver builds Targets from an optional account operand.
type Resolver struct {
	src  Source
	proc ProcessIDs
}

// NewResolver creates a Resolver.
//
// Parameters:
//   - src: The account and group databases
//   - proc: The credentials used when no operand is given
func NewResolver(src Source, proc ProcessIDs) *Resolver {
	return &Resolver{src: src, proc: proc}
}

// Resolve determines the target identity.
//
// An operand that is not a known login name but parses as a decimal uid is
// looked up by uid. A miss on both fails with *UnknownUserError.
func (r *Resolver) Resolve(ctx context.Context, operand string, useReal bool) (*Target, error) {
	if operand != "" {
		acct, err := r.lookupOperand(ctx, operand)
		if err != nil {
			return nil, err
		}
		logger.DebugCtx(ctx, "resolved account operand",
			logger.KeyOperand, operand, logger.UID(acct.UID), logger.GID(acct.GID))
		return &Target{
			RealUID:      acct.UID,
			RealGID:      acct.GID,
			EffectiveUID: acct.UID,
			EffectiveGID: acct.GID,
			UseReal:      useReal,
			Named:        true,
			Subject:      acct.Name,
			RealSubject:  acct.Name,
		}, nil
	}

	t := &Target{
		RealUID:      r.proc.UID,
		RealGID:      r.proc.GID,
		EffectiveUID: r.proc.EUID,
		EffectiveGID: r.proc.EGID,
		UseReal:      useReal,
	}

	var err error
	if t.Subject, err = r.accountName(ctx, t.UID()); err != nil {
		return nil, err
	}
	t.RealSubject = t.Subject
	if t.UID() != t.RealUID {
		if t.RealSubject, err = r.accountName(ctx, t.RealUID); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// accountName returns the login name of uid, or "" when it has no account.
func (r *Resolver) accountName(ctx context.Context, uid uint32) (string, error) {
	acct, err := r.src.LookupUserID(ctx, uid)
	switch {
	case err == nil:
		return acct.Name, nil
	case errors.Is(err, ErrUserNotFound):
		logger.DebugCtx(ctx, "uid has no account", logger.UID(uid))
		return "", nil
	default:
		return "", fmt.Errorf("failed to look up uid %d: %w", uid, err)
	}
}

func (r *Resolver) lookupOperand(ctx context.Context, operand string) (*Account, error) {
	acct, err := r.src.LookupUser(ctx, operand)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user %q: %w", operand, err)
	}

	uid, perr := strconv.ParseUint(operand, 10, 32)
	if perr != nil {
		return nil, &UnknownUserError{Name: operand}
	}
	acct, err = r.src.LookupUserID(ctx, uint32(uid))
	if errors.Is(err, ErrUserNotFound) {
		return nil, &UnknownUserError{Name: operand}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up uid %d: %w", uid, err)
	}
	return acct, nil
}

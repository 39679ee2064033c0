package commands

import "errors"

// Usage is the synopsis printed after a usage error.
const Usage = `usage: id [-nr] [user]
       id -G [-n] [user]
       id -g [-nr] [user]
       id -u [-nr] [user]
`

// ErrTooManyOperands is returned when more than one user operand is given.
var ErrTooManyOperands = errors.New("too many operands")

// UsageError reports an illegal option or option combination.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

func usageErrorf(msg string) error {
	return &UsageError{Msg: msg}
}

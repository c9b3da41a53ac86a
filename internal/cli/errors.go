package cli

import (
	"errors"
	"fmt"
)

// ErrUsage marks errors caused by flags, configuration or input locations.
// The binary exits with status 2 for them.
var ErrUsage = errors.New("usage error")

type usageError struct {
	err error
}

// usageErrorf formats like fmt.Errorf, so %w causes stay reachable.
func usageErrorf(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

func (e usageError) Error() string { return e.err.Error() }

func (e usageError) Unwrap() error { return e.err }

func (e usageError) Is(target error) bool { return target == ErrUsage }

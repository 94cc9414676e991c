package scan

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrBadCurve          = errors.New("unusable significance curve")
	ErrNotCached         = errors.New("mass point not in cache")
	ErrIncomplete        = errors.New("significance scan incomplete")
)

// MassError records why no significance is available for one mass point.
// Op is one of "open", "lookup", "extract", "cache" or "run".
type MassError struct {
	Mass MassPoint
	Op   string
	Err  error
}

func (e *MassError) Error() string {
	return fmt.Sprintf("mass %d: %s: %v", e.Mass, e.Op, e.Err)
}

func (e *MassError) Unwrap() error { return e.Err }

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConfiguration}, args...)...)
}

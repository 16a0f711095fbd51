// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnavailable is returned when the bank cannot open a sound.
	ErrResourceUnavailable = errors.New("sound resource unavailable")
	// ErrPoolExhausted is returned when no track slot can be had.
	ErrPoolExhausted = errors.New("no free track slot")
	// ErrUnsupportedFormat is returned for sounds the feeder cannot play.
	ErrUnsupportedFormat = errors.New("unsupported sound format")
	// ErrDuplicateSound is returned when a sound is already playing and the
	// profile ignores duplicate starts.
	ErrDuplicateSound = errors.New("sound already playing")
	// ErrBadSaveState is returned for saved state that cannot be decoded.
	ErrBadSaveState = errors.New("malformed save state")
	// ErrSaveStateMismatch marks a saved track whose sound no longer opens.
	ErrSaveStateMismatch = errors.New("saved track does not match bank")
)

func formatError(what string, v int) error {
	return fmt.Errorf("%w: %d %s", ErrUnsupportedFormat, v, what)
}

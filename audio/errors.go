// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")

	// ErrUnsupportedChannels is returned when a channel layout cannot be mapped.
	ErrUnsupportedChannels = errors.New("unsupported channel count")
)

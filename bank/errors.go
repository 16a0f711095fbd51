// SPDX-License-Identifier: EPL-2.0

package bank

import "errors"

var (
	ErrSoundNotFound      = errors.New("sound not found")
	ErrMalformedJumpTable = errors.New("malformed jump table")
	ErrRegionOutOfRange   = errors.New("region out of range")
	ErrUnknownFormat      = errors.New("unknown audio file format")
)

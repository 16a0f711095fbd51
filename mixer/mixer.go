// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"

	"github.com/ik5/dimuse/audio"
)

// SoundType is the mixer bus a channel plays on.
type SoundType int

const (
	Plain SoundType = iota
	Music
	Speech
	SFX
)

func (t SoundType) String() string {
	switch t {
	case Music:
		return "music"
	case Speech:
		return "speech"
	case SFX:
		return "sfx"
	}
	return "plain"
}

// Handle identifies a playing channel. The zero Handle is never active.
type Handle uint32

const (
	// MaxChannelVolume is full scale for SetChannelVolume.
	MaxChannelVolume = 255
	// MaxBalance is hard right for SetChannelBalance; -MaxBalance is hard left.
	MaxBalance = 127
)

// ErrUnknownHandle is reported when a handle is not (or no longer) playing.
var ErrUnknownHandle = errors.New("unknown mixer handle")

// Mixer is the output sink the sequencer pushes streams and levels into.
// Implementations must be safe for concurrent use.
type Mixer interface {
	// IsReady reports whether the output device is accepting data.
	IsReady() bool
	// PlayStream starts stream on the given bus and returns its handle.
	// volume is 0..MaxChannelVolume, balance is -MaxBalance..MaxBalance.
	// A zero Handle means the stream was rejected.
	PlayStream(kind SoundType, stream audio.Source, priority, volume, balance int) Handle
	SetChannelVolume(h Handle, volume int)
	SetChannelBalance(h Handle, balance int)
	IsSoundHandleActive(h Handle) bool
	// StopHandle cuts a channel immediately, discarding queued samples.
	StopHandle(h Handle)
}

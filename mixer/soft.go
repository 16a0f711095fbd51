// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/utils"
)

type channel struct {
	kind     SoundType
	priority int
	volume   int
	balance  int
	src      audio.Source // as handed to PlayStream
	pipe     audio.Source // resampled and mapped to stereo
}

// Soft is a software Mixer producing interleaved stereo float32 at a fixed rate.
// It is itself an audio.Source and, through Read, an io.Reader of 16-bit
// little-endian frames suitable for an output device.
type Soft struct {
	mu       sync.Mutex
	rate     int
	ready    bool
	next     Handle
	channels map[Handle]*channel
	order    []Handle
	groups   map[SoundType]int
	master   int

	scratch []float32

	readMu sync.Mutex // guards floats across Read calls
	floats []float32
}

var _ Mixer = (*Soft)(nil)

// NewSoft returns a ready mixer that outputs at rate Hz.
func NewSoft(rate int) *Soft {
	return &Soft{
		rate:     rate,
		ready:    true,
		channels: make(map[Handle]*channel),
		groups: map[SoundType]int{
			Plain:  MaxChannelVolume,
			Music:  MaxChannelVolume,
			Speech: MaxChannelVolume,
			SFX:    MaxChannelVolume,
		},
		master: MaxChannelVolume,
	}
}

func (s *Soft) SampleRate() int { return s.rate }
func (s *Soft) Channels() int   { return 2 }
func (s *Soft) BufSize() int    { return 4096 }

// Close stops every channel.
func (s *Soft) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, h := range s.order {
		if err := s.channels[h].pipe.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(s.channels, h)
	}
	s.order = nil

	return errors.Join(errs...)
}

func (s *Soft) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}

// SetReady toggles whether the mixer reports itself ready.
func (s *Soft) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ready = ready
}

func (s *Soft) PlayStream(kind SoundType, stream audio.Source, priority, volume, balance int) Handle {
	if stream == nil {
		return 0
	}

	var src audio.Source = stream
	if src.SampleRate() != s.rate {
		src = audio.NewResampler(src, s.rate)
	}
	pipe, err := audio.NewChannelMapper(src, 2)
	if err != nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	if s.next == 0 {
		s.next++
	}
	h := s.next

	s.channels[h] = &channel{
		kind:     kind,
		priority: priority,
		volume:   utils.ClampInt(volume, 0, MaxChannelVolume),
		balance:  utils.ClampInt(balance, -MaxBalance, MaxBalance),
		src:      stream,
		pipe:     pipe,
	}
	s.order = append(s.order, h)

	return h
}

func (s *Soft) SetChannelVolume(h Handle, volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.channels[h]; ok {
		ch.volume = utils.ClampInt(volume, 0, MaxChannelVolume)
	}
}

func (s *Soft) SetChannelBalance(h Handle, balance int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.channels[h]; ok {
		ch.balance = utils.ClampInt(balance, -MaxBalance, MaxBalance)
	}
}

func (s *Soft) IsSoundHandleActive(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.channels[h]
	return ok
}

func (s *Soft) StopHandle(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(h)
}

// ChannelVolume returns the volume and balance of h.
func (s *Soft) ChannelVolume(h Handle) (volume, balance int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.channels[h]
	if !ok {
		return 0, 0, ErrUnknownHandle
	}
	return ch.volume, ch.balance, nil
}

// Active returns how many channels are playing.
func (s *Soft) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.order)
}

// SetGroupVolume scales every channel on the kind bus (0..MaxChannelVolume).
func (s *Soft) SetGroupVolume(kind SoundType, volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groups[kind] = utils.ClampInt(volume, 0, MaxChannelVolume)
}

// SetMasterVolume scales the whole output (0..MaxChannelVolume).
func (s *Soft) SetMasterVolume(volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.master = utils.ClampInt(volume, 0, MaxChannelVolume)
}

func (s *Soft) remove(h Handle) {
	ch, ok := s.channels[h]
	if !ok {
		return
	}
	_ = ch.pipe.Close()
	delete(s.channels, h)

	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// gains returns the left and right multipliers for ch.
func (s *Soft) gains(ch *channel) (float32, float32) {
	vol := float32(ch.volume) / MaxChannelVolume *
		float32(s.groups[ch.kind]) / MaxChannelVolume *
		float32(s.master) / MaxChannelVolume

	left, right := vol, vol
	switch {
	case ch.balance < 0:
		right = vol * float32(MaxBalance+ch.balance) / MaxBalance
	case ch.balance > 0:
		left = vol * float32(MaxBalance-ch.balance) / MaxBalance
	}

	return left, right
}

// ReadSamples mixes every channel into dst. Starved channels contribute
// silence; dst is always filled completely.
func (s *Soft) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clear(dst)
	if cap(s.scratch) < len(dst) {
		s.scratch = make([]float32, len(dst))
	}
	buf := s.scratch[:len(dst)]

	var done []Handle
	for _, h := range s.order {
		ch := s.channels[h]
		left, right := s.gains(ch)

		n := 0
		for n < len(buf) {
			got, err := ch.pipe.ReadSamples(buf[n:])
			n += got
			if err != nil {
				// Decoder errors end the channel just like EOF
				done = append(done, h)
				break
			}
			if got == 0 {
				break
			}
		}

		for i := 0; i+1 < n; i += 2 {
			dst[i] += buf[i] * left
			dst[i+1] += buf[i+1] * right
		}
	}

	for _, h := range done {
		s.remove(h)
	}

	for i, v := range dst {
		dst[i] = max(-1, min(1, v))
	}

	return len(dst), nil
}

// Read renders len(p)/4 stereo frames as 16-bit little-endian PCM. It is
// safe for concurrent use.
func (s *Soft) Read(p []byte) (int, error) {
	samples := len(p) / 2
	samples -= samples % 2
	if samples == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.ErrShortBuffer
	}

	s.readMu.Lock()
	defer s.readMu.Unlock()

	if cap(s.floats) < samples {
		s.floats = make([]float32, samples)
	}
	buf := s.floats[:samples]

	n, err := s.ReadSamples(buf)
	if err != nil {
		return 0, err
	}
	for i := range n {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(utils.Float32ToInt16(buf[i])))
	}

	return n * 2, nil
}

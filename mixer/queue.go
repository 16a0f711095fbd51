// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"io"
	"sync"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/pcm"
)

// Queue is an appendable PCM stream: the producer queues raw buffers, the
// mixer drains them as float32 samples.
type Queue interface {
	audio.Source
	// QueueBuffer appends raw PCM laid out as described by flags.
	QueueBuffer(data []byte, flags pcm.Flags)
	// Finish marks the stream complete; queued data still plays out.
	Finish()
	// EndOfData reports that nothing is buffered right now.
	EndOfData() bool
	// EndOfStream reports a finished stream with nothing left to play.
	EndOfStream() bool
}

// QueueFactory creates the Queue a track feeds.
type QueueFactory func(rate, channels int) Queue

type queued struct {
	data  []byte
	flags pcm.Flags
}

// QueuingStream is the default Queue implementation.
type QueuingStream struct {
	mu       sync.Mutex
	rate     int
	channels int
	bufs     []queued
	pos      int // byte offset into bufs[0]
	finished bool
}

// NewQueuingStream returns an empty stream at rate with the given channel count.
func NewQueuingStream(rate, channels int) *QueuingStream {
	return &QueuingStream{rate: rate, channels: channels}
}

// NewQueue adapts NewQueuingStream to QueueFactory.
func NewQueue(rate, channels int) Queue {
	return NewQueuingStream(rate, channels)
}

func (q *QueuingStream) SampleRate() int { return q.rate }
func (q *QueuingStream) Channels() int   { return q.channels }
func (q *QueuingStream) BufSize() int    { return 4096 }

// Close drops every queued buffer and finishes the stream.
func (q *QueuingStream) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.bufs = nil
	q.pos = 0
	q.finished = true
	return nil
}

func (q *QueuingStream) QueueBuffer(data []byte, flags pcm.Flags) {
	if len(data) == 0 {
		return
	}

	// The caller may reuse data after queuing it
	buf := make([]byte, len(data))
	copy(buf, data)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.finished {
		return
	}
	q.bufs = append(q.bufs, queued{data: buf, flags: flags})
}

func (q *QueuingStream) Finish() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.finished = true
}

func (q *QueuingStream) EndOfData() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.bufs) == 0
}

func (q *QueuingStream) EndOfStream() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.finished && len(q.bufs) == 0
}

// Pending returns how many bytes are queued and not yet played.
func (q *QueuingStream) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	total := -q.pos
	for _, b := range q.bufs {
		total += len(b.data)
	}
	return max(total, 0)
}

// ReadSamples drains queued PCM into dst. A starved stream returns (0, nil);
// a finished and drained one returns io.EOF.
func (q *QueuingStream) ReadSamples(dst []float32) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	want := len(dst) - len(dst)%q.channels
	n := 0

	for n < want && len(q.bufs) > 0 {
		head := &q.bufs[0]
		size := head.flags.SampleSize()

		got := pcm.Decode(dst[n:want], head.data[q.pos:], head.flags)
		n += got
		q.pos += got * size

		if len(head.data)-q.pos < size {
			q.bufs[0] = queued{}
			q.bufs = q.bufs[1:]
			q.pos = 0
		}
	}

	if n == 0 && q.finished && len(q.bufs) == 0 {
		return 0, io.EOF
	}

	return n, nil
}

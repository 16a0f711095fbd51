// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/ik5/dimuse/audio"
	"github.com/ik5/dimuse/bank"
	"github.com/ik5/dimuse/internal/audiotest"
	"github.com/ik5/dimuse/mixer"
	"github.com/ik5/dimuse/pcm"
)

type fakeChannel struct {
	kind     mixer.SoundType
	stream   audio.Source
	priority int
	volume   int
	balance  int
	stopped  bool
}

// fakeMixer records what the engine asks of it and never drains streams.
type fakeMixer struct {
	mu    sync.Mutex
	ready bool
	next  mixer.Handle
	chans map[mixer.Handle]*fakeChannel
}

func newFakeMixer() *fakeMixer {
	return &fakeMixer{ready: true, chans: make(map[mixer.Handle]*fakeChannel)}
}

func (m *fakeMixer) IsReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ready
}

func (m *fakeMixer) setReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}

func (m *fakeMixer) PlayStream(kind mixer.SoundType, stream audio.Source, priority, volume, balance int) mixer.Handle {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	m.chans[m.next] = &fakeChannel{kind: kind, stream: stream, priority: priority, volume: volume, balance: balance}
	return m.next
}

func (m *fakeMixer) SetChannelVolume(h mixer.Handle, volume int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.chans[h]; ok {
		ch.volume = volume
	}
}

func (m *fakeMixer) SetChannelBalance(h mixer.Handle, balance int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.chans[h]; ok {
		ch.balance = balance
	}
}

func (m *fakeMixer) IsSoundHandleActive(h mixer.Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.chans[h]
	return ok && !ch.stopped
}

func (m *fakeMixer) StopHandle(h mixer.Handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.chans[h]; ok {
		ch.stopped = true
	}
}

func (m *fakeMixer) channel(h mixer.Handle) fakeChannel {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.chans[h]; ok {
		return *ch
	}
	return fakeChannel{}
}

// countingQueue remembers every byte queued and every Finish call.
type countingQueue struct {
	*mixer.QueuingStream
	data     []byte
	finishes int
}

func (q *countingQueue) QueueBuffer(data []byte, flags pcm.Flags) {
	q.data = append(q.data, data...)
	q.QueuingStream.QueueBuffer(data, flags)
}

func (q *countingQueue) Finish() {
	q.finishes++
	q.QueuingStream.Finish()
}

type queueRecorder struct {
	queues []*countingQueue
}

func (r *queueRecorder) factory(rate, channels int) mixer.Queue {
	q := &countingQueue{QueuingStream: mixer.NewQueuingStream(rate, channels)}
	r.queues = append(r.queues, q)
	return q
}

// recordHandler keeps every log record.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *recordHandler) WithGroup(string) slog.Handler             { return h }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *recordHandler) count(level slog.Level, msg string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level && r.Message == msg {
			n++
		}
	}
	return n
}

type harness struct {
	engine *Engine
	mixer  *fakeMixer
	queues *queueRecorder
	bank   *bank.Memory
	logs   *recordHandler
}

// testProfile runs at 10 Hz, so a mono 16-bit 22050 Hz track is fed 4410
// bytes per tick and twice that while its queue is empty.
func testProfile() Profile {
	p := ProfileDig
	p.Name = "test"
	return p
}

func newHarness(t *testing.T, p Profile, res ...*bank.Resource) *harness {
	t.Helper()

	h := &harness{
		mixer:  newFakeMixer(),
		queues: &queueRecorder{},
		bank:   bank.NewMemory(),
		logs:   &recordHandler{},
	}
	for _, r := range res {
		h.bank.Add(r)
	}
	h.engine = New(h.bank, h.mixer,
		WithProfile(p),
		WithLogger(slog.New(h.logs)),
		WithQueueFactory(h.queues.factory),
	)
	return h
}

func (h *harness) slot(i int) *Track {
	return &h.engine.pool.slots[i]
}

func (h *harness) used() int {
	n := 0
	for _, t := range h.engine.pool.slots {
		if t.Used {
			n++
		}
	}
	return n
}

// switchRegion drives a region boundary by hand.
func (h *harness) switchRegion(i int) bool {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	return h.engine.switchRegion(i)
}

func (h *harness) enterRegion(i, region int) {
	h.engine.mu.Lock()
	defer h.engine.mu.Unlock()
	h.engine.enterRegion(h.slot(i), region)
}

// pcm16 builds a mono 16-bit little-endian resource cut into regions of the
// given byte lengths.
func pcm16(id int, group bank.Group, regionLens ...int) *bank.Resource {
	total := 0
	regions := make([]bank.Region, 0, len(regionLens))
	for _, n := range regionLens {
		regions = append(regions, bank.Region{Offset: total, Length: n})
		total += n
	}

	return &bank.Resource{
		ID:           id,
		Name:         "",
		Group:        group,
		Bits:         16,
		Channels:     1,
		Freq:         22050,
		LittleEndian: true,
		Regions:      regions,
		Data:         audiotest.PCM16LE(total/2, 1000),
	}
}

// discardQueue drops everything queued to it.
type discardQueue struct {
	*mixer.QueuingStream
}

func (discardQueue) QueueBuffer([]byte, pcm.Flags) {}

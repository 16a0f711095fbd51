// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"testing"

	"github.com/ik5/dimuse/bank"
)

func triggerBank(marker string, pos int) []*bank.Resource {
	src := pcm16(1, GroupMusic, 1000, 1000, 1000)
	src.Markers = []bank.Marker{{Pos: pos, Name: marker}}
	return []*bank.Resource{src, pcm16(2, GroupMusic, 1000)}
}

func TestTrigger_CrossfadesToTarget(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testProfile(), triggerBank("boss", 500)...)
	if err := h.engine.StartSound(music(1)); err != nil {
		t.Fatal(err)
	}
	h.engine.SetTrigger(Trigger{Marker: "boss", FadeOutDelay: 30, SoundID: 2, Volume: 100})

	h.switchRegion(0)
	if h.switchRegion(0) {
		t.Fatal("triggered track kept feeding")
	}

	if tr := h.slot(0); tr.SoundID != 2 || tr.CurRegion != -1 || tr.Vol != 100000 || tr.Group != GroupMusic {
		t.Errorf("target = sound %d region %d vol %d group %v", tr.SoundID, tr.CurRegion, tr.Vol, tr.Group)
	}
	clone := h.slot(h.engine.pool.regular)
	if !clone.Used || clone.SoundID != 1 || clone.CurRegion != 1 || !clone.VolFade.Active {
		t.Errorf("clone = sound %d region %d fading %v", clone.SoundID, clone.CurRegion, clone.VolFade.Active)
	}
	if h.engine.triggerUsed {
		t.Error("trigger not consumed")
	}
	if got := h.queues.queues[0].finishes; got != 1 {
		t.Errorf("source queue finished %d times, want 1", got)
	}
}

func TestTrigger_EndMarkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		marker  string
		started bool
	}{
		{"exit", true},
		{"_end", false},
	}

	for _, tt := range tests {
		t.Run(tt.marker, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, testProfile(), triggerBank(tt.marker, 500)...)
			if err := h.engine.StartSound(music(1)); err != nil {
				t.Fatal(err)
			}
			h.engine.SetHookID(1, 9)
			h.engine.SetTrigger(Trigger{Marker: tt.marker, FadeOutDelay: 30, SoundID: 2})

			h.switchRegion(0)
			if !h.switchRegion(0) {
				t.Fatal("track stopped feeding")
			}

			tr := h.slot(0)
			if tr.SoundID != 1 || tr.CurRegion != 1 || tr.CurHookID != 0 {
				t.Errorf("track = sound %d region %d hook %d, want 1 1 0", tr.SoundID, tr.CurRegion, tr.CurHookID)
			}
			if !tr.VolFade.Active || tr.VolFade.Dest != 0 {
				t.Errorf("fade = %+v, want fade to 0", tr.VolFade)
			}
			if h.slot(h.engine.pool.regular).Used {
				t.Error("end marker made a clone")
			}
			if got := h.engine.SoundStatus(2); got != tt.started {
				t.Errorf("target playing = %v, want %v", got, tt.started)
			}
			if tt.started && h.slot(1).Vol != 127000 {
				t.Errorf("target vol = %d, want full volume", h.slot(1).Vol)
			}
		})
	}
}

func TestTrigger_WaitsForItsRegion(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testProfile(), triggerBank("boss", 1500)...)
	if err := h.engine.StartSound(music(1)); err != nil {
		t.Fatal(err)
	}
	h.engine.SetTrigger(Trigger{Marker: "boss", SoundID: 2})

	h.switchRegion(0)
	h.switchRegion(0)
	if tr := h.slot(0); tr.SoundID != 1 || tr.CurRegion != 1 {
		t.Fatalf("track = sound %d region %d, want 1 1", tr.SoundID, tr.CurRegion)
	}
	if !h.engine.triggerUsed {
		t.Fatal("trigger fired early")
	}

	h.switchRegion(0)
	if h.engine.triggerUsed || !h.engine.SoundStatus(2) {
		t.Error("trigger did not fire on its region")
	}
}

func TestSetTrigger_EmptyMarkerClears(t *testing.T) {
	t.Parallel()

	h := newHarness(t, testProfile())
	h.engine.SetTrigger(Trigger{Marker: "x"})
	h.engine.SetTrigger(Trigger{})
	if h.engine.triggerUsed {
		t.Error("trigger still pending")
	}
}

// SPDX-License-Identifier: EPL-2.0

package bank

import (
	"errors"
	"testing"
)

func TestResource_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		mutate      func(r *Resource)
		wantErr     error
		wantRegions []Region
		wantJumps   int
		wantMarkers int
	}{
		{
			name:        "clean",
			mutate:      func(r *Resource) {},
			wantRegions: []Region{{0, 100}, {100, 100}, {200, 100}},
			wantJumps:   2,
			wantMarkers: 2,
		},
		{
			name:        "no regions covers the data",
			mutate:      func(r *Resource) { r.Regions, r.Jumps = nil, nil },
			wantRegions: []Region{{0, 300}},
			wantMarkers: 2,
		},
		{
			name:        "region past the end is clamped",
			mutate:      func(r *Resource) { r.Regions[2].Length = 500 },
			wantErr:     ErrRegionOutOfRange,
			wantRegions: []Region{{0, 100}, {100, 100}, {200, 100}},
			wantJumps:   2,
			wantMarkers: 2,
		},
		{
			name:        "negative offset is clamped",
			mutate:      func(r *Resource) { r.Regions[0].Offset = -20 },
			wantErr:     ErrRegionOutOfRange,
			wantRegions: []Region{{0, 100}, {100, 100}, {200, 100}},
			wantJumps:   2,
			wantMarkers: 2,
		},
		{
			name:        "jump to a missing region is dropped",
			mutate:      func(r *Resource) { r.Jumps = append(r.Jumps, Jump{From: 0, To: 3}) },
			wantErr:     ErrMalformedJumpTable,
			wantRegions: []Region{{0, 100}, {100, 100}, {200, 100}},
			wantJumps:   2,
			wantMarkers: 2,
		},
		{
			name:        "marker outside the data is dropped",
			mutate:      func(r *Resource) { r.Markers = append(r.Markers, Marker{Pos: 301, Name: "late"}) },
			wantErr:     ErrRegionOutOfRange,
			wantRegions: []Region{{0, 100}, {100, 100}, {200, 100}},
			wantJumps:   2,
			wantMarkers: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := threeRegions()
			tt.mutate(r)

			err := r.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}

			if len(r.Regions) != len(tt.wantRegions) {
				t.Fatalf("regions = %v, want %v", r.Regions, tt.wantRegions)
			}
			for i := range r.Regions {
				if r.Regions[i] != tt.wantRegions[i] {
					t.Errorf("region %d = %v, want %v", i, r.Regions[i], tt.wantRegions[i])
				}
			}
			if len(r.Jumps) != tt.wantJumps {
				t.Errorf("jumps = %d, want %d", len(r.Jumps), tt.wantJumps)
			}
			if len(r.Markers) != tt.wantMarkers {
				t.Errorf("markers = %d, want %d", len(r.Markers), tt.wantMarkers)
			}
		})
	}
}

func TestResource_ValidateMonoDefault(t *testing.T) {
	t.Parallel()

	r := &Resource{Bits: 8, Data: make([]byte, 10)}
	if err := r.Validate(); err != nil {
		t.Fatal(err)
	}
	if r.Channels != 1 {
		t.Errorf("Channels = %d, want 1", r.Channels)
	}
}

func TestStoredSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frames, channels, bits, want int
	}{
		{100, 1, 8, 100},
		{100, 2, 16, 400},
		{100, 1, 12, 150},
		{100, 2, 12, 300},
	}
	for _, tt := range tests {
		if got := StoredSize(tt.frames, tt.channels, tt.bits); got != tt.want {
			t.Errorf("StoredSize(%d, %d, %d) = %d, want %d", tt.frames, tt.channels, tt.bits, got, tt.want)
		}
	}
}

func TestParseGroup(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]Group{"": GroupMusic, "music": GroupMusic, "voice": GroupSpeech, "speech": GroupSpeech, "sfx": GroupSFX} {
		got, ok := ParseGroup(in)
		if !ok || got != want {
			t.Errorf("ParseGroup(%q) = (%v, %v), want (%v, true)", in, got, ok, want)
		}
	}
	if _, ok := ParseGroup("ambient"); ok {
		t.Error("ParseGroup accepted an unknown group")
	}
}

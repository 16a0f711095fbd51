// SPDX-License-Identifier: EPL-2.0

// Package bank supplies sound resources to the sequencer.
//
// A Resource is a sound held fully in memory: raw PCM in its stored layout
// (8-bit unsigned, 16-bit, or 12-bit packed), cut into regions, with named
// markers, a jump table keyed by hook id and optional lip sync frames.
// Memory stores resources and hands out Sound handles through the Bank
// interface; every handle tracks its own read position state so tracks and
// their fade clones never share one.
//
// Banks are usually built from a JSON manifest:
//
//	{
//	  "rate": 22050,
//	  "sounds": [
//	    {"id": 2001, "name": "theme", "file": "theme.wav", "group": "music",
//	     "regions": [44100], "jumps": [{"from": 1, "to": 0, "hook": 0}]}
//	  ]
//	}
//
// LoadManifest decodes the listed files concurrently through an
// audio.Registry. WAV cue points become markers and region boundaries when
// the manifest does not list regions itself.
package bank

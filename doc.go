// SPDX-License-Identifier: EPL-2.0

// Package dimuse is a digital audio track sequencer and mixer for adventure
// game soundtracks.
//
// Music is stored as sounds cut into regions. A fixed pool of tracks plays
// them, and each track walks its regions on every engine tick. Jumps between
// regions are taken when the track's hook matches, marker triggers start
// other sounds, and fades can cross-fade a track against a copy of itself.
// Speech ducks the music while it plays.
//
// # Packages
//
//   - imuse: the sequencer engine, its track pool, game profiles and save state
//   - bank: the sound bank contract, an in-memory bank and a JSON manifest loader
//   - mixer: the mixer contract, queuing PCM streams and a software mixer
//   - fade: fade curves and the per-tick fade stepper
//   - pcm: raw PCM decoding and the 12-bit packed codec
//   - audio: streaming sources, resampling and channel mapping
//   - formats/wav, formats/aiff, formats/mp3, formats/vorbis: file decoders
//
// # Quick Start
//
// Load a bank, create a mixer and an engine, then start some music:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	b, _ := bank.LoadManifest(ctx, os.DirFS("sounds"), "bank.json", reg)
//
//	out := mixer.NewSoft(22050)
//	e := imuse.New(b, out, imuse.WithProfile(imuse.ProfileFT))
//	_ = e.StartMusic("theme", 1, 0, 127)
//
//	go e.Run(ctx)        // ticks at the profile rate
//	io.Copy(device, out) // 16-bit little-endian stereo
//
// # Offline Rendering
//
// Render and RenderWAV tick the engine without a clock and collect the mixed
// output, which is handy for tests and for exporting a cue:
//
//	f, _ := os.Create("cue.wav")
//	defer f.Close()
//	_ = dimuse.RenderWAV(f, e, out, time.Minute)
//
// # Concurrency
//
// Every Engine method is safe for concurrent use. Tick holds the engine lock
// while it calls into the mixer, so a Mixer implementation must never call
// back into the engine.
package dimuse

// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the core audio processing building blocks:
//   - Source interface for audio input
//   - Resampler for sample rate conversion
//   - ChannelMapper for mono/stereo up and down mixing
//   - Format registry for decoder registration
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// File decoders, the sequencer's queuing streams and the software mixer all
// implement it, so they can be chained together in processing pipelines.
//
// A Source backed by a file returns io.EOF once drained. A live Source, such
// as a mixer queue fed once per engine tick, may also return fewer samples
// than requested with a nil error; that means "starved, try again later".
//
// # Resampling
//
// The Resampler changes the sample rate of audio using cubic interpolation:
//
//	resampler := audio.NewResampler(track, 44100)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
//
// It keeps its position across starved reads, so it can sit between a live
// queue and an output device.
//
// # Channel Mapping
//
// ChannelMapper spreads mono onto stereo or folds any layout down:
//
//	stereo, err := audio.NewChannelMapper(voice, 2)
//	mono := audio.NewMonoMixer(music)
//
// # Cue Points
//
// Decoders whose container stores cue points implement CueSource. The sound
// bank turns those cues into region boundaries and trigger markers.
//
// # Sample Format
//
// Audio samples are represented as float32 in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// # Error Handling
//
// Audio processing functions return io.EOF when no more data is available.
// Other errors indicate problems with the source or processing:
//
//	for {
//	    n, err := source.ReadSamples(buf)
//	    if err == io.EOF {
//	        break // Normal end of stream
//	    }
//	    if err != nil {
//	        return err // Processing error
//	    }
//	    // Process n samples from buf
//	}
package audio

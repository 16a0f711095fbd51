// SPDX-License-Identifier: EPL-2.0

// Package mixer defines the output contract the sequencer drives and ships a
// software implementation of it.
//
// A track feeds raw PCM into a Queue. The Queue is handed to a Mixer with
// PlayStream, which returns a Handle used for later volume and balance
// changes. Queued data keeps playing after Finish until it is drained.
//
//	soft := mixer.NewSoft(44100)
//	q := mixer.NewQueuingStream(22050, 1)
//	h := soft.PlayStream(mixer.Music, q, 127, mixer.MaxChannelVolume, 0)
//	q.QueueBuffer(data, pcm.Bits16|pcm.LittleEndian)
//	q.Finish()
//
// Soft implements audio.Source and io.Reader, so it can be rendered to a
// file or handed straight to an audio device. Reads never block: a starved
// channel simply contributes silence.
package mixer

// SPDX-License-Identifier: EPL-2.0

// Package pcm converts raw sample bytes into the normalized float32 samples
// used by audio.Source implementations.
//
// Buffers are described by Flags, a bit set mirroring what a sound resource
// declares about its data:
//
//	flags := pcm.Bits16 | pcm.LittleEndian | pcm.Stereo
//	n := pcm.Decode(dst, raw, flags)
//
// The package also carries the 12-bit packed codec found in compressed
// bundle resources. Decode12Bit expands every 3 packed bytes into two
// big-endian 16-bit samples, so 12-bit regions are queued with Bits16 set
// and LittleEndian clear.
package pcm

// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1/2 Layer III files into audio.Source streams
// using github.com/hajimehoshi/go-mp3.
//
// Output is always interleaved stereo; mono files are duplicated by the
// underlying decoder. Reads are frame aligned, so a split frame returned by
// go-mp3 is carried over to the next ReadSamples call.
package mp3

// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files into audio.Source streams using
// github.com/jfreymuth/oggvorbis.
//
// Samples come out interleaved as float32 in [-1, 1] with the channel count
// and sample rate of the file.
//
//	reg := audio.NewRegistry()
//	reg.Register("ogg", vorbis.Decoder{})
package vorbis

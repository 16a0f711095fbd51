// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into audio.Source streams using
// github.com/go-audio/aiff.
//
// Signed PCM at 8, 16, 24 and 32 bits is supported, with any channel count
// and sample rate. Samples are normalized to [-1, 1) by bit depth.
//
//	reg := audio.NewRegistry()
//	reg.Register("aiff", aiff.Decoder{})
//	reg.Register("aif", aiff.Decoder{})
//
// The decoder needs to seek; readers that cannot are buffered in memory first.
package aiff

// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF WAVE files.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM at
// 8 (unsigned), 16, 24 and 32 bits with any channel count. The returned
// source also implements audio.CueSource: cue points of the file are
// reported in frame order, named from the labels of a LIST/adtl chunk when
// one is present.
//
//	src, err := wav.Decoder{}.Decode(f)
//	if cs, ok := src.(audio.CueSource); ok {
//		for _, c := range cs.Cues() {
//			fmt.Println(c.Name, c.Frame)
//		}
//	}
//
// WritePCM16 writes interleaved 16-bit samples behind a canonical 44 byte
// header; it only needs an io.Writer.
package wav

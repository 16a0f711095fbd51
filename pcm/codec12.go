// SPDX-License-Identifier: EPL-2.0

package pcm

import "encoding/binary"

// Decode12Bit unpacks 12-bit packed samples into big-endian signed 16-bit PCM.
// Every 3 input bytes carry two samples and expand into 4 output bytes; a
// trailing group shorter than 3 bytes is dropped.
func Decode12Bit(src []byte) []byte {
	groups := len(src) / 3
	dst := make([]byte, groups*4)

	for g := range groups {
		v1, v2, v3 := int(src[3*g]), int(src[3*g+1]), int(src[3*g+2])

		s1 := ((((v2 & 0x0f) << 8) | v1) << 4) - 0x8000
		s2 := ((((v2 & 0xf0) << 4) | v3) << 4) - 0x8000

		binary.BigEndian.PutUint16(dst[4*g:], uint16(int16(s1)))
		binary.BigEndian.PutUint16(dst[4*g+2:], uint16(int16(s2)))
	}

	return dst
}

// Encode12Bit packs big-endian signed 16-bit PCM into the 12-bit layout read by
// Decode12Bit. The low 4 bits of every sample are lost.
func Encode12Bit(src []byte) []byte {
	pairs := len(src) / 4
	dst := make([]byte, pairs*3)

	for p := range pairs {
		s1 := (int(int16(binary.BigEndian.Uint16(src[4*p:]))) + 0x8000) >> 4
		s2 := (int(int16(binary.BigEndian.Uint16(src[4*p+2:]))) + 0x8000) >> 4

		dst[3*p] = byte(s1 & 0xff)
		dst[3*p+1] = byte((s1>>8)&0x0f | (s2>>4)&0xf0)
		dst[3*p+2] = byte(s2 & 0xff)
	}

	return dst
}

// Packed12Size converts a decoded 16-bit byte count into the number of packed bytes holding it.
func Packed12Size(decoded int) int {
	return decoded * 3 / 4
}

// Unpacked12Size converts a packed byte count into the decoded 16-bit byte count.
func Unpacked12Size(packed int) int {
	return (packed / 3) * 4
}

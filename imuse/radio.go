// SPDX-License-Identifier: EPL-2.0

package imuse

// radioChatter high-passes unsigned 8-bit samples in place, leaving the thin
// sound of a voice over a radio. The last four samples are silenced.
func radioChatter(buf []byte) {
	if len(buf) <= 4 {
		return
	}

	value := 0
	for _, b := range buf[:4] {
		value += int(b) - 0x80
	}

	for i := range len(buf) - 4 {
		t := int(buf[i])
		v := t - value/4
		value = int(buf[i+4]) - 0x80 + (value - t + 0x80)
		buf[i] = byte(v*2 + 0x80)
	}

	for i := len(buf) - 4; i < len(buf); i++ {
		buf[i] = 0x80
	}
}

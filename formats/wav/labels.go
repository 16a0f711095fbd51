// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/go-audio/riff"
)

var (
	listID = [4]byte{'L', 'I', 'S', 'T'}
	adtlID = []byte("adtl")
	lablID = []byte("labl")
)

// readLabels maps cue ids to the names stored in LIST/adtl labl chunks.
func readLabels(data []byte) map[uint32]string {
	p := riff.New(bytes.NewReader(data))
	if err := p.ParseHeaders(); err != nil {
		return nil
	}

	labels := make(map[uint32]string)
	for {
		ch, err := p.NextChunk()
		if err != nil {
			break
		}
		if ch.ID != listID {
			ch.Drain()
			continue
		}

		body := make([]byte, ch.Size)
		if _, err := io.ReadFull(ch, body); err != nil {
			break
		}
		parseAdtl(body, labels)
	}

	return labels
}

func parseAdtl(body []byte, labels map[uint32]string) {
	if len(body) < 4 || !bytes.Equal(body[:4], adtlID) {
		return
	}

	for rest := body[4:]; len(rest) >= 8; {
		id := rest[:4]
		size := int(binary.LittleEndian.Uint32(rest[4:8]))
		rest = rest[8:]
		if size > len(rest) {
			return
		}

		if bytes.Equal(id, lablID) && size >= 4 {
			cue := binary.LittleEndian.Uint32(rest[:4])
			text := rest[4:size]
			if i := bytes.IndexByte(text, 0); i >= 0 {
				text = text[:i]
			}
			labels[cue] = string(text)
		}

		// Sub-chunks are word aligned
		size += size % 2
		rest = rest[min(size, len(rest)):]
	}
}

// SPDX-License-Identifier: EPL-2.0

package imuse

import (
	"testing"
	"unicode/utf8"
)

func TestTruncName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "theme", "theme"},
		{"exact", "abcdefghijklmno", "abcdefghijklmno"},
		{"long", "abcdefghijklmnopqrs", "abcdefghijklmno"},
		{"rune on the cut", "abcdefghijklmné", "abcdefghijklmn"},
		{"rune before the cut", "abcdefghijklmé!!", "abcdefghijklmé"},
		{"wide runes", "日本語のテーマ曲", "日本語のテ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := truncName(tt.in)
			if got != tt.want {
				t.Errorf("truncName(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if len(got) > maxSoundName || !utf8.ValidString(got) {
				t.Errorf("truncName(%q) = %q: %d bytes, valid %v", tt.in, got, len(got), utf8.ValidString(got))
			}
		})
	}
}

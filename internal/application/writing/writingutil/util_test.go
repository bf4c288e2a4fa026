package writingutil

import (
	"strings"
	"testing"
)

func TestTruncateHead(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than cap", "hello", 10, "hello"},
		{"exactly at cap", "hello", 5, "hello"},
		{"over cap keeps prefix", "hello world", 5, "hello"},
		{"zero cap", "hello", 0, ""},
		{"negative cap", "hello", -1, ""},
		{"empty input", "", 5, ""},
		{"multibyte runes", "日本語のテキスト", 3, "日本語"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateHead(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateHead(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncateTail(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"shorter than cap", "hello", 10, "hello"},
		{"exactly at cap", "hello", 5, "hello"},
		{"over cap keeps suffix", "hello world", 5, "world"},
		{"zero cap", "hello", 0, ""},
		{"negative cap", "hello", -1, ""},
		{"empty input", "", 5, ""},
		{"multibyte runes", "日本語のテキスト", 4, "テキスト"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TruncateTail(tc.in, tc.max); got != tc.want {
				t.Errorf("TruncateTail(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}

func TestTruncate2600CharParagraph(t *testing.T) {
	long := strings.Repeat("ab", 1300) // 2600 字符
	if len(long) != 2600 {
		t.Fatalf("setup: len = %d", len(long))
	}

	prev := TruncateTail(long, 2000)
	if len(prev) != 2000 {
		t.Fatalf("len(prev) = %d, want 2000", len(prev))
	}
	if prev != long[600:] {
		t.Error("prev must equal the final 2000-character suffix")
	}

	next := TruncateHead(long, 2000)
	if len(next) != 2000 {
		t.Fatalf("len(next) = %d, want 2000", len(next))
	}
	if next != long[:2000] {
		t.Error("next must equal the first 2000-character prefix")
	}
}

func TestTruncateIdentityAtOrBelowCap(t *testing.T) {
	s := strings.Repeat("x", 2000)
	if TruncateTail(s, 2000) != s || TruncateHead(s, 2000) != s {
		t.Fatal("truncation must be identity at the cap")
	}
}

package library

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "essay", "essay.json", false},
		{"already json", "essay.json", "essay.json", false},
		{"mixed chars", "My-Draft_2.json", "My-Draft_2.json", false},
		{"surrounding spaces", "  notes  ", "notes.json", false},
		{"empty", "", "", true},
		{"spaces only", "   ", "", true},
		{"slash", "a/b", "", true},
		{"backslash", `a\b`, "", true},
		{"traversal", "..secret", "", true},
		{"parent dir", "../etc/passwd", "", true},
		{"unicode", "文档", "", true},
		{"space inside", "my doc", "", true},
		{"too long", strings.Repeat("a", 300), "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SanitizeFilename(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("SanitizeFilename(%q) = %q, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizeFilename(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeFilenameLengthBoundary(t *testing.T) {
	// 加上 .json 后缀后恰好到上限
	base := strings.Repeat("a", maxFilenameLen-len(".json"))
	got, err := SanitizeFilename(base)
	if err != nil {
		t.Fatalf("boundary filename rejected: %v", err)
	}
	if len(got) != maxFilenameLen {
		t.Fatalf("len = %d, want %d", len(got), maxFilenameLen)
	}

	if _, err := SanitizeFilename(base + "a"); err == nil {
		t.Fatal("filename exceeding limit after suffix must be rejected")
	}
}

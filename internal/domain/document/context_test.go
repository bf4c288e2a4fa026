package document

import "testing"

func buildDoc(t *testing.T, title string, sections ...*Section) *Document {
	t.Helper()
	d := New(title)
	for _, s := range sections {
		d.Sections = append(d.Sections, s)
	}
	d.reindex()
	return d
}

func TestAssembleContext(t *testing.T) {
	a := &Section{ID: "a", UserText: "alpha draft"}
	b := &Section{ID: "b", UserText: "beta draft", GeneratedText: "beta generated"}
	c := &Section{ID: "c", UserText: "gamma draft"}
	doc := buildDoc(t, "Essay", a, b, c)

	cases := []struct {
		name      string
		sectionID string
		wantPrev  string
		wantNext  string
	}{
		{"first section has no prev", "a", "", "beta generated"},
		{"middle prefers generated text", "b", "alpha draft", "gamma draft"},
		{"last section has no next", "c", "beta generated", ""},
		{"missing id yields empty context", "missing", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			title, prev, next := AssembleContext(doc, tc.sectionID)
			if title != "Essay" {
				t.Errorf("title = %q, want %q", title, "Essay")
			}
			if prev != tc.wantPrev {
				t.Errorf("prev = %q, want %q", prev, tc.wantPrev)
			}
			if next != tc.wantNext {
				t.Errorf("next = %q, want %q", next, tc.wantNext)
			}
		})
	}
}

func TestAssembleContextScenario(t *testing.T) {
	// 文档 "AI Overview"：A 无生成文本，B 有生成文本
	a := &Section{ID: "A", UserText: "AI is changing the world"}
	b := &Section{ID: "B", GeneratedText: "B's output"}
	doc := buildDoc(t, "AI Overview", a, b)

	title, prev, next := AssembleContext(doc, "A")
	if title != "AI Overview" || prev != "" || next != "B's output" {
		t.Fatalf("got (%q, %q, %q), want (%q, %q, %q)",
			title, prev, next, "AI Overview", "", "B's output")
	}
}

func TestAssembleContextDoesNotTruncate(t *testing.T) {
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	a := &Section{ID: "a", UserText: string(long)}
	b := &Section{ID: "b"}
	doc := buildDoc(t, "Long", a, b)

	_, prev, _ := AssembleContext(doc, "b")
	if len(prev) != 5000 {
		t.Fatalf("assembler must not truncate: len(prev) = %d, want 5000", len(prev))
	}
}

package document

import (
	"encoding/json"
	"testing"
	"time"
)

func assertDenseOrder(t *testing.T, d *Document) {
	t.Helper()
	for i, s := range d.Sections {
		if s.Order != i {
			t.Fatalf("section %d has order %d, want %d", i, s.Order, i)
		}
	}
}

func TestAddSectionAssignsDenseOrder(t *testing.T) {
	d := New("doc")
	a := d.AddSection()
	b := d.AddSection()
	c := d.AddSection()

	if a.ID == "" || b.ID == "" || c.ID == "" {
		t.Fatal("sections must receive ids at creation")
	}
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Fatal("section ids must be unique")
	}
	if a.GeneratedText != "" {
		t.Errorf("new section generated_text = %q, want empty", a.GeneratedText)
	}
	assertDenseOrder(t, d)
}

func TestInsertSection(t *testing.T) {
	d := New("doc")
	first := d.AddSection()
	last := d.AddSection()

	mid := d.InsertSection(1)
	if got := d.Sections[1].ID; got != mid.ID {
		t.Fatalf("inserted section at index 1 = %s, want %s", got, mid.ID)
	}
	if d.Sections[0].ID != first.ID || d.Sections[2].ID != last.ID {
		t.Fatal("insert must not disturb neighbors")
	}
	assertDenseOrder(t, d)

	// 越界位置收敛到序列两端
	head := d.InsertSection(-5)
	if d.Sections[0].ID != head.ID {
		t.Fatal("negative position must insert at head")
	}
	tail := d.InsertSection(99)
	if d.Sections[len(d.Sections)-1].ID != tail.ID {
		t.Fatal("oversized position must insert at tail")
	}
	assertDenseOrder(t, d)
}

func TestDeleteSectionReindexes(t *testing.T) {
	d := New("doc")
	a := d.AddSection()
	b := d.AddSection()
	c := d.AddSection()

	if err := d.DeleteSection(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(d.Sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(d.Sections))
	}
	if d.Sections[0].ID != a.ID || d.Sections[1].ID != c.ID {
		t.Fatal("remaining sections out of order after delete")
	}
	assertDenseOrder(t, d)

	if err := d.DeleteSection("missing"); err == nil {
		t.Fatal("deleting an unknown id must fail")
	}
}

func TestMoveSection(t *testing.T) {
	d := New("doc")
	a := d.AddSection()
	b := d.AddSection()
	c := d.AddSection()

	if err := d.MoveSection(c.ID, 0); err != nil {
		t.Fatalf("move: %v", err)
	}
	want := []string{c.ID, a.ID, b.ID}
	for i, id := range want {
		if d.Sections[i].ID != id {
			t.Fatalf("sections[%d] = %s, want %s", i, d.Sections[i].ID, id)
		}
	}
	assertDenseOrder(t, d)

	// 越界位置收敛
	if err := d.MoveSection(c.ID, 99); err != nil {
		t.Fatalf("move: %v", err)
	}
	if d.Sections[len(d.Sections)-1].ID != c.ID {
		t.Fatal("oversized position must move to tail")
	}
	assertDenseOrder(t, d)

	if err := d.MoveSection("missing", 0); err == nil {
		t.Fatal("moving an unknown id must fail")
	}
}

func TestReorder(t *testing.T) {
	d := New("doc")
	a := d.AddSection()
	b := d.AddSection()
	c := d.AddSection()

	if err := d.Reorder([]string{b.ID, c.ID, a.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	want := []string{b.ID, c.ID, a.ID}
	for i, id := range want {
		if d.Sections[i].ID != id {
			t.Fatalf("sections[%d] = %s, want %s", i, d.Sections[i].ID, id)
		}
	}
	assertDenseOrder(t, d)

	cases := []struct {
		name string
		ids  []string
	}{
		{"too few", []string{a.ID, b.ID}},
		{"duplicate", []string{a.ID, a.ID, b.ID}},
		{"unknown id", []string{a.ID, b.ID, "missing"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := d.Reorder(tc.ids); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDefaultMetadata(t *testing.T) {
	m := DefaultMetadata()
	if m.WritingStyle != "formal" {
		t.Errorf("writing_style = %q", m.WritingStyle)
	}
	if m.TargetAudience != "general public" {
		t.Errorf("target_audience = %q", m.TargetAudience)
	}
	if m.Tone != "neutral" {
		t.Errorf("tone = %q", m.Tone)
	}
	if m.WordLimit != 250 {
		t.Errorf("word_limit = %d", m.WordLimit)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New("AI Overview")
	a := d.AddSection()
	a.MainPoint = "intro"
	a.UserText = "AI is changing the world"
	b := d.AddSection()
	b.GeneratedText = "B's output"
	d.Metadata.BackgroundContext = "tech article"
	d.Metadata.GenerationDirective = "keep it short"
	d.Metadata.Source = "openai"
	d.Metadata.Model = "gpt-4o"
	d.CreatedAt = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d.UpdatedAt = time.Date(2025, 3, 2, 11, 30, 0, 0, time.UTC)

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got Document
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Title != d.Title {
		t.Errorf("title = %q, want %q", got.Title, d.Title)
	}
	if got.Metadata != d.Metadata {
		t.Errorf("metadata = %+v, want %+v", got.Metadata, d.Metadata)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) || !got.UpdatedAt.Equal(d.UpdatedAt) {
		t.Error("timestamps must survive the round trip")
	}
	if len(got.Sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(got.Sections))
	}
	for i := range d.Sections {
		if *got.Sections[i] != *d.Sections[i] {
			t.Errorf("sections[%d] = %+v, want %+v", i, *got.Sections[i], *d.Sections[i])
		}
	}
}

func TestUnmarshalSortsByOrder(t *testing.T) {
	raw := `{
		"title": "shuffled",
		"sections": [
			{"id": "b", "order": 1, "user_text": "second"},
			{"id": "a", "order": 0, "user_text": "first"},
			{"id": "c", "order": 2, "user_text": "third"}
		],
		"metadata": {},
		"created_at": "2025-03-01T10:00:00Z",
		"updated_at": "2025-03-01T10:00:00Z"
	}`
	var d Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if d.Sections[i].ID != id {
			t.Fatalf("sections[%d] = %s, want %s", i, d.Sections[i].ID, id)
		}
	}
	assertDenseOrder(t, &d)
}

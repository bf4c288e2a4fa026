package writing

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"scribe-ai-api/internal/domain/document"
	wfmodel "scribe-ai-api/internal/workflow/model"
)

// fakeStore 内存文档库桩
type fakeStore struct {
	mu   sync.Mutex
	docs map[string]*document.Document // key: userID/filename
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]*document.Document)}
}

func (f *fakeStore) LoadDocument(ctx context.Context, userID, filename string) (*document.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[userID+"/"+filename]
	if !ok {
		return nil, context.Canceled
	}
	return doc, nil
}

func (f *fakeStore) SaveDocument(ctx context.Context, userID, filename string, doc *document.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[userID+"/"+filename] = doc
	return nil
}

// capturingGenerator 记录收到的输入
type capturingGenerator struct {
	mu   sync.Mutex
	last *wfmodel.ParagraphGenerateInput
}

func (c *capturingGenerator) Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error) {
	c.mu.Lock()
	c.last = in
	c.mu.Unlock()
	return wfmodel.TextOutcome("ok", 1), nil
}

func (c *capturingGenerator) lastInput() *wfmodel.ParagraphGenerateInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

func newTestManager(store DocumentStore, gen Generator, contextMax int) *Manager {
	return NewManager(store, gen, nil, testOptions(), contextMax)
}

func TestOpenBlankWorkspaceAndEdit(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeGenerator{}, 2000)
	ws, err := m.Open(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer m.Close("user-1", ws.ID)

	a := ws.AddSection(-1)
	b := ws.AddSection(-1)
	mid := ws.AddSection(1)

	doc, err := ws.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := []string{a.ID, mid.ID, b.ID}
	for i, id := range want {
		if doc.Sections[i].ID != id {
			t.Fatalf("sections[%d] = %s, want %s", i, doc.Sections[i].ID, id)
		}
		if doc.Sections[i].Order != i {
			t.Fatalf("sections[%d].Order = %d, want %d", i, doc.Sections[i].Order, i)
		}
	}

	text := "updated draft"
	if err := ws.UpdateSection(a.ID, SectionUpdate{UserText: &text}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := ws.DeleteSection(mid.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ws.UpdateSection("missing", SectionUpdate{}); err == nil {
		t.Fatal("updating an unknown section must fail")
	}
}

func TestWorkspaceOwnership(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeGenerator{}, 2000)
	ws, err := m.Open(context.Background(), "owner", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := m.Get("intruder", ws.ID); err == nil {
		t.Fatal("foreign user must not reach the workspace")
	}
	if err := m.Close("intruder", ws.ID); err == nil {
		t.Fatal("foreign user must not close the workspace")
	}
	if err := m.Close("owner", ws.ID); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := m.Get("owner", ws.ID); err == nil {
		t.Fatal("closed workspace must be gone")
	}
}

func TestWorkspaceSaveRoundTrip(t *testing.T) {
	store := newFakeStore()
	m := newTestManager(store, &fakeGenerator{}, 2000)

	ws, err := m.Open(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ws.SetTitle("My Essay")
	s := ws.AddSection(-1)
	text := "body"
	if err := ws.UpdateSection(s.ID, SectionUpdate{UserText: &text}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := ws.Save(context.Background(), ""); err == nil {
		t.Fatal("saving a blank workspace without a filename must fail")
	}
	if err := ws.Save(context.Background(), "essay.json"); err != nil {
		t.Fatalf("save: %v", err)
	}

	ws2, err := m.Open(context.Background(), "user-1", "essay.json")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	doc, err := ws2.Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if doc.Title != "My Essay" || len(doc.Sections) != 1 || doc.Sections[0].UserText != "body" {
		t.Fatalf("reloaded document mismatch: %+v", doc)
	}
}

func TestRequestGenerationTruncatesContext(t *testing.T) {
	gen := &capturingGenerator{}
	m := newTestManager(newFakeStore(), gen, 10)
	ws, err := m.Open(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer m.Close("user-1", ws.ID)

	prevSection := ws.AddSection(-1)
	target := ws.AddSection(-1)
	nextSection := ws.AddSection(-1)

	long := strings.Repeat("abcde", 10) // 50 字符
	if err := ws.UpdateSection(prevSection.ID, SectionUpdate{UserText: &long}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := ws.UpdateSection(nextSection.ID, SectionUpdate{UserText: &long}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := ws.RequestGeneration(target.ID, GenerationParams{MainPoint: "p", UserText: "d", Mode: "improve"}); err != nil {
		t.Fatalf("request: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for gen.lastInput() == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	in := gen.lastInput()
	if in == nil {
		t.Fatal("generator never invoked")
	}
	if in.PrevParagraph != long[len(long)-10:] {
		t.Errorf("prev = %q, want last 10 chars", in.PrevParagraph)
	}
	if in.NextParagraph != long[:10] {
		t.Errorf("next = %q, want first 10 chars", in.NextParagraph)
	}
	if in.WritingStyle != document.DefaultWritingStyle {
		t.Errorf("metadata fallback missing, writing_style = %q", in.WritingStyle)
	}
}

func TestPollUnknownSection(t *testing.T) {
	m := newTestManager(newFakeStore(), &fakeGenerator{}, 2000)
	ws, err := m.Open(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer m.Close("user-1", ws.ID)

	if _, err := ws.Poll("missing"); err == nil {
		t.Fatal("polling an unknown section must fail")
	}
}

func TestConcurrentEditDuringGeneration(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "generated", delay: 30 * time.Millisecond}}}
	m := newTestManager(newFakeStore(), gen, 2000)
	ws, err := m.Open(context.Background(), "user-1", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer m.Close("user-1", ws.ID)

	section := ws.AddSection(-1)
	if _, err := ws.RequestGeneration(section.ID, GenerationParams{MainPoint: "p", UserText: "d"}); err != nil {
		t.Fatalf("request: %v", err)
	}

	// 生成在途时并发编辑和快照，结果落地与编辑必须互斥（-race 下验证）
	deadline := time.Now().Add(100 * time.Millisecond)
	for i := 0; time.Now().Before(deadline); i++ {
		text := strings.Repeat("x", i%7+1)
		if err := ws.UpdateSection(section.ID, SectionUpdate{UserText: &text}); err != nil {
			t.Fatalf("update: %v", err)
		}
		if _, err := ws.Snapshot(); err != nil {
			t.Fatalf("snapshot: %v", err)
		}
	}

	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := ws.Poll(section.ID)
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		if !st.IsGenerating {
			if st.GeneratedText != "generated" {
				t.Errorf("generated_text = %q, want %q", st.GeneratedText, "generated")
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation did not finish in time")
}

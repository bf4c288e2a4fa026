package writing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"scribe-ai-api/internal/domain/document"
	wfmodel "scribe-ai-api/internal/workflow/model"
)

// fakeGenerator 可控的生成桩：按调用次序返回预设结果，支持人工延迟
type fakeGenerator struct {
	mu      sync.Mutex
	calls   int32
	results []fakeResult
}

type fakeResult struct {
	text  string
	delay time.Duration
	err   error
}

func (f *fakeGenerator) Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error) {
	idx := int(atomic.AddInt32(&f.calls, 1)) - 1
	f.mu.Lock()
	var r fakeResult
	if idx < len(f.results) {
		r = f.results[idx]
	}
	f.mu.Unlock()

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if r.err != nil {
		return nil, r.err
	}
	return wfmodel.TextOutcome(r.text, len(in.UserText)), nil
}

func (f *fakeGenerator) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func testOptions() Options {
	return Options{
		RequestTimeout:   2 * time.Second,
		CancelWait:       time.Second,
		RequireMainPoint: true,
	}
}

func waitForIdle(t *testing.T, s *Scheduler, section *document.Section) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if st := s.Status(section); !st.IsGenerating {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation did not settle in time")
}

func TestRequestGenerationStoresTrimmedResult(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "  generated text  "}}}
	s := NewScheduler(gen, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1", GeneratedText: "old"}
	stale, err := s.RequestGeneration(section, GenerationParams{MainPoint: "point", UserText: "draft", Mode: "rewrite"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if stale != "old" {
		t.Errorf("stale = %q, want %q", stale, "old")
	}
	if section.MainPoint != "point" || section.UserText != "draft" {
		t.Error("main_point and user_text must be written immediately")
	}

	waitForIdle(t, s, section)
	if section.GeneratedText != "generated text" {
		t.Errorf("generated_text = %q, want trimmed result", section.GeneratedText)
	}
}

func TestEmptyMainPointSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "should never appear"}}}
	s := NewScheduler(gen, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1", GeneratedText: "kept"}
	stale, err := s.RequestGeneration(section, GenerationParams{MainPoint: "   ", UserText: "draft"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if stale != "kept" {
		t.Errorf("stale = %q, want %q", stale, "kept")
	}

	time.Sleep(50 * time.Millisecond)
	if gen.callCount() != 0 {
		t.Fatal("empty main_point must never invoke the generator")
	}
	if section.GeneratedText != "kept" {
		t.Error("section must be left unchanged")
	}
}

func TestMainPointOptionalWhenDisabled(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "result"}}}
	opts := testOptions()
	opts.RequireMainPoint = false
	s := NewScheduler(gen, nil, opts)
	defer s.Close()

	section := &document.Section{ID: "s1"}
	if _, err := s.RequestGeneration(section, GenerationParams{UserText: "draft"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitForIdle(t, s, section)
	if section.GeneratedText != "result" {
		t.Errorf("generated_text = %q, want %q", section.GeneratedText, "result")
	}
}

func TestCancelAndReplaceSecondRequestWins(t *testing.T) {
	// 第一个请求人工延迟，第二个立即完成；结果只能来自第二个
	gen := &fakeGenerator{results: []fakeResult{
		{text: "first result", delay: 500 * time.Millisecond},
		{text: "second result"},
	}}
	s := NewScheduler(gen, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1"}
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "first draft"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "second draft"}); err != nil {
		t.Fatalf("second request: %v", err)
	}

	waitForIdle(t, s, section)
	time.Sleep(600 * time.Millisecond) // 第一个任务彻底退出

	if section.GeneratedText != "second result" {
		t.Fatalf("generated_text = %q, want %q", section.GeneratedText, "second result")
	}
	if section.UserText != "second draft" {
		t.Errorf("user_text = %q, want the second request's value", section.UserText)
	}
}

func TestFailurePreservesLastGoodValue(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{
		{text: "good value"},
		{err: errors.New("provider exploded")},
	}}
	s := NewScheduler(gen, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1"}
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "d"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitForIdle(t, s, section)
	if section.GeneratedText != "good value" {
		t.Fatalf("setup: generated_text = %q", section.GeneratedText)
	}

	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "d2"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitForIdle(t, s, section)

	if section.GeneratedText != "good value" {
		t.Errorf("failed attempt must not corrupt stored text, got %q", section.GeneratedText)
	}
	st := s.Status(section)
	if st.LastError == "" {
		t.Error("failure must be visible to the polling surface")
	}
}

func TestCancelSectionStopsInFlightTask(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "late result", delay: 400 * time.Millisecond}}}
	s := NewScheduler(gen, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1", GeneratedText: "before"}
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "d"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	s.CancelSection(section.ID)
	time.Sleep(500 * time.Millisecond)

	if section.GeneratedText != "before" {
		t.Errorf("cancelled task must not write, got %q", section.GeneratedText)
	}
}

func TestStructuredOutcomeBypassesSectionText(t *testing.T) {
	s := NewScheduler(structuredGenerator{}, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1", GeneratedText: "prior text"}
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "d"}); err != nil {
		t.Fatalf("request: %v", err)
	}
	waitForIdle(t, s, section)

	if section.GeneratedText != "prior text" {
		t.Errorf("structured outcome must not touch generated_text, got %q", section.GeneratedText)
	}
	st := s.Status(section)
	structured, ok := st.Structured.(map[string]string)
	if !ok {
		t.Fatalf("structured value not surfaced via status: %#v", st.Structured)
	}
	if structured["k"] != "v" {
		t.Errorf("structured value = %#v, want passthrough", structured)
	}
}

func TestNewRequestClearsStructuredResult(t *testing.T) {
	gen := &fakeGenerator{results: []fakeResult{{text: "plain"}}}
	s := NewScheduler(&structuredThenTextGenerator{text: gen}, nil, testOptions())
	defer s.Close()

	section := &document.Section{ID: "s1"}
	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p", UserText: "d"}); err != nil {
		t.Fatalf("first request: %v", err)
	}
	waitForIdle(t, s, section)
	if s.Status(section).Structured == nil {
		t.Fatal("first outcome should be structured")
	}

	if _, err := s.RequestGeneration(section, GenerationParams{MainPoint: "p2", UserText: "d2"}); err != nil {
		t.Fatalf("second request: %v", err)
	}
	waitForIdle(t, s, section)

	st := s.Status(section)
	if st.Structured != nil {
		t.Errorf("stale structured result must not linger, got %#v", st.Structured)
	}
	if st.GeneratedText != "plain" {
		t.Errorf("generated_text = %q, want %q", st.GeneratedText, "plain")
	}
}

type structuredGenerator struct{}

func (structuredGenerator) Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error) {
	return wfmodel.StructuredOutcome(map[string]string{"k": "v"}, 10), nil
}

// structuredThenTextGenerator 第一次返回结构化结果，之后委托给文本桩
type structuredThenTextGenerator struct {
	text  *fakeGenerator
	calls int32
}

func (g *structuredThenTextGenerator) Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error) {
	if atomic.AddInt32(&g.calls, 1) == 1 {
		return wfmodel.StructuredOutcome(map[string]string{"k": "v"}, 10), nil
	}
	return g.text.Invoke(ctx, in)
}

package prompt

import (
	"context"
	"testing"
)

func TestNormalizeMode(t *testing.T) {
	cases := []struct {
		in   string
		want Mode
	}{
		{"ideas", ModeIdeas},
		{"rewrite", ModeRewrite},
		{"improve", ModeImprove},
		{"proofread", ModeProofread},
		{"  Proofread  ", ModeProofread},
		{"IDEAS", ModeIdeas},
		{"", ModeRewrite},
		{"not-a-real-mode", ModeRewrite},
	}
	for _, tc := range cases {
		if got := NormalizeMode(tc.in); got != tc.want {
			t.Errorf("NormalizeMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSelectInstructionFallback(t *testing.T) {
	if SelectInstruction("not-a-real-mode") != SelectInstruction("rewrite") {
		t.Fatal("unknown mode must select the rewrite instruction")
	}
	if SelectInstruction("ideas") == SelectInstruction("rewrite") {
		t.Fatal("distinct modes must have distinct instructions")
	}
}

func TestSelectInstructionNeverEmpty(t *testing.T) {
	for _, mode := range []string{"ideas", "rewrite", "improve", "proofread", "bogus"} {
		if SelectInstruction(mode) == "" {
			t.Errorf("SelectInstruction(%q) returned empty text", mode)
		}
	}
}

func TestChatTemplateFormatIdempotent(t *testing.T) {
	r := NewRegistry()
	tpl, err := r.ChatTemplate(PromptParagraphGenV1)
	if err != nil {
		t.Fatalf("ChatTemplate: %v", err)
	}
	vars := map[string]any{
		"mode_instruction":     SelectInstruction("improve"),
		"title":                "AI Overview",
		"writing_style":        "formal",
		"tone":                 "neutral",
		"target_audience":      "general public",
		"background_context":   "tech article",
		"generation_directive": "keep it short",
		"word_limit":           250,
		"prev_paragraph":       "previous text",
		"user_text":            "current draft",
		"next_paragraph":       "next text",
		"generation_mode":      "improve",
	}

	first, err := tpl.Format(context.Background(), vars)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	second, err := tpl.Format(context.Background(), vars)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("message counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Content != second[i].Content {
			t.Errorf("message %d differs between identical formats", i)
		}
	}
	for _, m := range first {
		if m.Content == "" {
			t.Error("formatted message must not be empty")
		}
	}
}

func TestChatTemplateUnknownID(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ChatTemplate(PromptID("nope")); err == nil {
		t.Fatal("unknown prompt id must fail")
	}
}

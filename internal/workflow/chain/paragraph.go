package chain

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	llmctx "scribe-ai-api/internal/domain/service"
	wfmodel "scribe-ai-api/internal/workflow/model"
	workflowport "scribe-ai-api/internal/workflow/port"
	workflowprompt "scribe-ai-api/internal/workflow/prompt"
)

// ParagraphChain 段落生成链：格式化提示词 -> 调用 ChatModel -> 打标结果。
type ParagraphChain struct {
	factory workflowport.ChatModelFactory
}

func NewParagraphChain(factory workflowport.ChatModelFactory) *ParagraphChain {
	return &ParagraphChain{factory: factory}
}

// Invoke 执行一次段落生成。结果带类别标签：文本结果由调用方修整后存储，
// 结构化结果原样透传。
func (c *ParagraphChain) Invoke(ctx context.Context, in *wfmodel.ParagraphGenerateInput) (*wfmodel.GenerationOutcome, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	mode := workflowprompt.NormalizeMode(in.Mode)
	provider := strings.TrimSpace(in.Provider)

	ctx = llmctx.WithWorkflowProvider(ctx, "paragraph_generate", provider)
	ctx = llmctx.WithMode(ctx, string(mode))
	chatModel, err := c.factory.GetWithOverride(ctx, provider, in.Override)
	if err != nil {
		return nil, err
	}

	msgs, err := formatParagraphMessages(ctx, in, mode)
	if err != nil {
		return nil, err
	}
	promptChars := messageChars(msgs)

	outMsg, err := chatModel.Generate(ctx, msgs, buildParagraphModelOptions(in)...)
	if err != nil {
		return nil, err
	}
	if outMsg == nil {
		return nil, fmt.Errorf("empty llm response")
	}

	if outMsg.Content != "" {
		return wfmodel.TextOutcome(outMsg.Content, promptChars), nil
	}
	if len(outMsg.ToolCalls) > 0 {
		return wfmodel.StructuredOutcome(outMsg.ToolCalls, promptChars), nil
	}
	return nil, fmt.Errorf("empty llm response")
}

var paragraphPromptRegistry = workflowprompt.NewRegistry()

func formatParagraphMessages(ctx context.Context, in *wfmodel.ParagraphGenerateInput, mode workflowprompt.Mode) ([]*schema.Message, error) {
	tpl, err := paragraphPromptRegistry.ChatTemplate(workflowprompt.PromptParagraphGenV1)
	if err != nil {
		return nil, err
	}
	var wordLimit any = ""
	if in.WordLimit > 0 {
		wordLimit = in.WordLimit
	}
	vars := map[string]any{
		"mode_instruction":     workflowprompt.SelectInstruction(string(mode)),
		"title":                in.Title,
		"writing_style":        in.WritingStyle,
		"tone":                 in.Tone,
		"target_audience":      in.TargetAudience,
		"background_context":   in.BackgroundContext,
		"generation_directive": in.GenerationDirective,
		"word_limit":           wordLimit,
		"prev_paragraph":       in.PrevParagraph,
		"user_text":            in.UserText,
		"next_paragraph":       in.NextParagraph,
		"generation_mode":      string(mode),
	}
	return tpl.Format(ctx, vars)
}

func messageChars(msgs []*schema.Message) int {
	total := 0
	for _, m := range msgs {
		if m == nil {
			continue
		}
		total += utf8.RuneCountInString(m.Content)
	}
	return total
}

func buildParagraphModelOptions(in *wfmodel.ParagraphGenerateInput) []model.Option {
	opts := make([]model.Option, 0, 3)
	if in == nil {
		return opts
	}
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}
	return opts
}

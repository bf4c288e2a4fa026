// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"scribe-ai-api/internal/application/writing"
	"scribe-ai-api/internal/application/writing/writingutil"
	"scribe-ai-api/internal/config"
	"scribe-ai-api/internal/domain/service"
	"scribe-ai-api/internal/interfaces/http/dto"
	wfmodel "scribe-ai-api/internal/workflow/model"
	workflowprompt "scribe-ai-api/internal/workflow/prompt"
	pkgerrors "scribe-ai-api/pkg/errors"
	"scribe-ai-api/pkg/metrics"
)

// GenerateHandler 无状态生成处理器：一次请求携带全部上下文，同步返回结果
type GenerateHandler struct {
	generator writing.Generator
	recorder  service.GenerationUsageRecorder
	cfg       *config.Config
}

// NewGenerateHandler 创建无状态生成处理器
func NewGenerateHandler(generator writing.Generator, recorder service.GenerationUsageRecorder, cfg *config.Config) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		recorder:  recorder,
		cfg:       cfg,
	}
}

// GenerateText 无状态段落生成
// @Summary 无状态段落生成
// @Description 请求自带标题与相邻段落上下文，不读写任何文档状态
// @Tags Generate
// @Accept json
// @Produce json
// @Param body body dto.GenerateTextRequest true "生成参数"
// @Success 200 {object} dto.Response[dto.GenerateTextResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/v1/generate/text [post]
func (h *GenerateHandler) GenerateText(c *gin.Context) {
	var req dto.GenerateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Source, req.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	maxChars := h.cfg.Generation.ContextMaxChars
	mode := string(workflowprompt.NormalizeMode(req.Mode))

	input := &wfmodel.ParagraphGenerateInput{
		Title:               req.Title,
		UserText:            req.UserText,
		PrevParagraph:       writingutil.TruncateTail(req.PrevParagraph, maxChars),
		NextParagraph:       writingutil.TruncateHead(req.NextParagraph, maxChars),
		Mode:                mode,
		WritingStyle:        req.WritingStyle,
		Tone:                req.Tone,
		TargetAudience:      req.TargetAudience,
		BackgroundContext:   req.BackgroundContext,
		GenerationDirective: req.GenerationDirective,
		WordLimit:           req.WordLimit,
		Provider:            provider,
		Model:               model,
		Override:            req.Override.ToOverride(),
		Temperature:         req.Temperature,
		MaxTokens:           req.MaxTokens,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.Generation.RequestTimeout)
	defer cancel()

	start := time.Now()
	outcome, err := h.generator.Invoke(ctx, input)
	duration := time.Since(start)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.GenerationTotal.WithLabelValues(mode, status).Inc()
	metrics.GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	h.recordUsage(c, provider, model, mode, outcome, duration, status)

	if err != nil {
		respondError(c, pkgerrors.ErrGenerationFailed.WithError(err))
		return
	}

	resp := &dto.GenerateTextResponse{Mode: mode}
	if outcome.Kind == wfmodel.OutcomeStructured {
		resp.Structured = outcome.Structured
	} else {
		resp.GeneratedText = strings.TrimSpace(outcome.Text)
	}
	dto.Success(c, resp)
}

// recordUsage 记录一次无状态生成的用量，失败不影响响应
func (h *GenerateHandler) recordUsage(c *gin.Context, provider, model, mode string, outcome *wfmodel.GenerationOutcome, duration time.Duration, status string) {
	if h.recorder == nil {
		return
	}
	promptChars := 0
	if outcome != nil {
		promptChars = outcome.PromptChars
	}
	_ = h.recorder.Record(c.Request.Context(), service.GenerationUsageInput{
		UserID:      currentUserID(c),
		Source:      provider,
		Model:       model,
		Mode:        mode,
		PromptChars: promptChars,
		DurationMs:  int(duration.Milliseconds()),
		Status:      status,
	})
}

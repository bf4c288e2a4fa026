// Package writing 实现段落写作流程：按 Section 串行化的生成调度和编辑工作区。
package writing

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"scribe-ai-api/internal/domain/document"
	"scribe-ai-api/internal/domain/service"
	wfmodel "scribe-ai-api/internal/workflow/model"
	workflowprompt "scribe-ai-api/internal/workflow/prompt"
	pkgerrors "scribe-ai-api/pkg/errors"
	"scribe-ai-api/pkg/logger"
	"scribe-ai-api/pkg/metrics"
)

// Options 调度器配置
type Options struct {
	// RequestTimeout 单次生成任务的超时上限
	RequestTimeout time.Duration
	// CancelWait 等待被替换任务退出的上限
	CancelWait time.Duration
	// RequireMainPoint 为 true 时，主旨为空的请求静默跳过
	RequireMainPoint bool
}

// DefaultOptions 返回默认调度配置
func DefaultOptions() Options {
	return Options{
		RequestTimeout:   120 * time.Second,
		CancelWait:       5 * time.Second,
		RequireMainPoint: true,
	}
}

// GenerationParams 一次生成请求的参数
type GenerationParams struct {
	UserID string

	MainPoint string
	UserText  string
	Mode      string

	Title         string
	PrevParagraph string
	NextParagraph string

	Metadata document.Metadata
	Override *wfmodel.ProviderOverride
}

// SectionStatus 轮询返回的段落生成状态
type SectionStatus struct {
	GeneratedText string `json:"generated_text"`
	IsGenerating  bool   `json:"is_generating"`
	LastError     string `json:"last_error,omitempty"`
	// Structured 最近一次结构化结果，不落入段落文本，仅经轮询透传
	Structured any `json:"structured,omitempty"`
}

// sectionSlot 每个 Section 独占的调度槽。
// mu 只保护槽本身的任务句柄和状态；Section 的可变字段由调度器的
// sectionMu 保护，从不跨 LLM 调用持锁。
type sectionSlot struct {
	mu             sync.Mutex
	cancel         context.CancelFunc
	done           chan struct{}
	generation     uint64
	generating     bool
	lastErr        error
	lastStructured any
}

// Scheduler 按 Section 做 cancel-and-replace 调度：任一时刻每个 Section
// 至多一个生成任务在途，新请求总是先取消旧任务再启动。
type Scheduler struct {
	generator Generator
	recorder  service.GenerationUsageRecorder
	opts      Options

	lifeCtx    context.Context
	lifeCancel context.CancelFunc

	// sectionMu 保护全部 Section 可变字段（main_point/user_text/generated_text）。
	// 与工作区共用同一把锁，结构性编辑和结果落地互斥。
	// 锁序固定为 slot.mu -> sectionMu，不可反向嵌套。
	sectionMu sync.Locker

	mu    sync.Mutex
	slots map[string]*sectionSlot
}

// NewScheduler 创建调度器。recorder 可为 nil（不记录用量）。
// 生成任务挂在调度器自身的生命周期上，不随触发请求的取消而终止。
func NewScheduler(generator Generator, recorder service.GenerationUsageRecorder, opts Options) *Scheduler {
	return newScheduler(generator, recorder, opts, &sync.Mutex{})
}

// newScheduler 以外部提供的段落字段锁创建调度器，工作区据此共享自身的互斥锁
func newScheduler(generator Generator, recorder service.GenerationUsageRecorder, opts Options, sectionMu sync.Locker) *Scheduler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultOptions().RequestTimeout
	}
	if opts.CancelWait <= 0 {
		opts.CancelWait = DefaultOptions().CancelWait
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		generator:  generator,
		recorder:   recorder,
		opts:       opts,
		lifeCtx:    ctx,
		lifeCancel: cancel,
		sectionMu:  sectionMu,
		slots:      make(map[string]*sectionSlot),
	}
}

func (s *Scheduler) slot(sectionID string) *sectionSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl, ok := s.slots[sectionID]
	if !ok {
		sl = &sectionSlot{}
		s.slots[sectionID] = sl
	}
	return sl
}

// RequestGeneration 为目标段落发起生成。
// 立即返回段落当前（旧）的 generated_text，调用方轮询获取新值。
// 主旨为空且 RequireMainPoint 开启时静默跳过，不视为错误。
func (s *Scheduler) RequestGeneration(section *document.Section, p GenerationParams) (string, error) {
	if s.generator == nil {
		return "", pkgerrors.ErrGenerationFailed.WithDetail("generator not configured")
	}
	sl := s.slot(section.ID)

	if s.opts.RequireMainPoint && strings.TrimSpace(p.MainPoint) == "" {
		s.sectionMu.Lock()
		defer s.sectionMu.Unlock()
		return section.GeneratedText, nil
	}

	sl.mu.Lock()
	// 取消在途任务：后到的请求总是胜出
	prevDone := sl.done
	if sl.cancel != nil {
		sl.cancel()
		metrics.GenerationSuperseded.Inc()
	}
	// 立即写入最新意图，生成完成前的读取也反映新值
	s.sectionMu.Lock()
	section.MainPoint = p.MainPoint
	section.UserText = p.UserText
	stale := section.GeneratedText
	s.sectionMu.Unlock()

	sl.generation++
	gen := sl.generation
	taskCtx, cancel := context.WithCancel(s.lifeCtx)
	done := make(chan struct{})
	sl.cancel = cancel
	sl.done = done
	sl.generating = true
	sl.lastErr = nil
	sl.lastStructured = nil
	sl.mu.Unlock()

	// 有界等待旧任务观察到取消，不持锁等待
	if prevDone != nil {
		select {
		case <-prevDone:
		case <-time.After(s.opts.CancelWait):
			logger.Warn(taskCtx, "superseded generation task did not exit within cancel wait",
				"section_id", section.ID)
		}
	}

	go s.run(taskCtx, sl, section, gen, p, done)
	return stale, nil
}

// run 生成任务体：格式化提示词、调用生成链、按代数令牌决定结果是否落地。
// done 由任务自身在退出时关闭，替换方据此做有界等待。
func (s *Scheduler) run(ctx context.Context, sl *sectionSlot, section *document.Section, gen uint64, p GenerationParams, done chan struct{}) {
	defer close(done)
	metrics.ActiveGenerations.Inc()
	defer metrics.ActiveGenerations.Dec()

	start := time.Now()
	mode := string(workflowprompt.NormalizeMode(p.Mode))

	callCtx, cancelCall := context.WithTimeout(ctx, s.opts.RequestTimeout)
	defer cancelCall()

	outcome, err := s.generator.Invoke(callCtx, buildGenerateInput(p))

	sl.mu.Lock()
	superseded := sl.generation != gen
	status := "success"
	if !superseded {
		sl.generating = false
		sl.cancel = nil
		switch {
		case err == nil:
			s.storeOutcome(sl, section, outcome)
		case errors.Is(err, context.Canceled):
			// 取消不是错误，保留既有文本
			status = "cancelled"
		default:
			// 失败保留最后一次成功的值，细节不进入 Section 状态
			sl.lastErr = pkgerrors.ErrGenerationFailed.WithError(err)
			status = "error"
		}
	} else {
		// 被新请求替换：结果一律不落地
		status = "cancelled"
	}
	if !superseded && sl.done == done {
		sl.done = nil
	}
	sl.mu.Unlock()

	if err != nil && status == "error" {
		logger.Error(ctx, "paragraph generation failed", err, "section_id", section.ID, "mode", mode)
	}

	duration := time.Since(start)
	metrics.GenerationTotal.WithLabelValues(mode, status).Inc()
	metrics.GenerationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	s.recordUsage(ctx, p, mode, outcome, duration, status)
}

// storeOutcome 落地生成结果：文本修整后写入段落，
// 结构化结果不触碰段落文本，留待轮询透传。调用方持有 slot 锁。
func (s *Scheduler) storeOutcome(sl *sectionSlot, section *document.Section, outcome *wfmodel.GenerationOutcome) {
	if outcome == nil {
		return
	}
	if outcome.Kind == wfmodel.OutcomeText {
		s.sectionMu.Lock()
		section.GeneratedText = strings.TrimSpace(outcome.Text)
		s.sectionMu.Unlock()
		sl.lastStructured = nil
		return
	}
	sl.lastStructured = outcome.Structured
}

// Status 轮询段落的生成状态
func (s *Scheduler) Status(section *document.Section) SectionStatus {
	sl := s.slot(section.ID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	s.sectionMu.Lock()
	generated := section.GeneratedText
	s.sectionMu.Unlock()
	st := SectionStatus{
		GeneratedText: generated,
		IsGenerating:  sl.generating,
		Structured:    sl.lastStructured,
	}
	if sl.lastErr != nil {
		st.LastError = sl.lastErr.Error()
	}
	return st
}

// CancelSection 取消段落的在途任务并等待其退出（有界）。
// 段落删除前必须调用，避免悬挂的写入者。
func (s *Scheduler) CancelSection(sectionID string) {
	s.mu.Lock()
	sl, ok := s.slots[sectionID]
	if ok {
		delete(s.slots, sectionID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	sl.mu.Lock()
	if sl.cancel != nil {
		sl.cancel()
		sl.cancel = nil
	}
	// 失效代数令牌，迟到的结果不再落地
	sl.generation++
	sl.generating = false
	done := sl.done
	sl.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-time.After(s.opts.CancelWait):
		}
	}
}

// Close 取消全部在途任务，调度器不再可用
func (s *Scheduler) Close() {
	s.lifeCancel()
	s.mu.Lock()
	ids := make([]string, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.CancelSection(id)
	}
}

func (s *Scheduler) recordUsage(ctx context.Context, p GenerationParams, mode string, outcome *wfmodel.GenerationOutcome, duration time.Duration, status string) {
	if s.recorder == nil {
		return
	}
	promptChars := 0
	if outcome != nil {
		promptChars = outcome.PromptChars
	}
	in := service.GenerationUsageInput{
		UserID:      p.UserID,
		Source:      p.Metadata.Source,
		Model:       p.Metadata.Model,
		Mode:        mode,
		PromptChars: promptChars,
		DurationMs:  int(duration.Milliseconds()),
		Status:      status,
	}
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.recorder.Record(recordCtx, in); err != nil {
		logger.Warn(ctx, "failed to record generation usage", "error", err.Error())
	}
}

func buildGenerateInput(p GenerationParams) *wfmodel.ParagraphGenerateInput {
	return &wfmodel.ParagraphGenerateInput{
		Title:               p.Title,
		UserText:            p.UserText,
		PrevParagraph:       p.PrevParagraph,
		NextParagraph:       p.NextParagraph,
		Mode:                p.Mode,
		WritingStyle:        p.Metadata.WritingStyle,
		Tone:                p.Metadata.Tone,
		TargetAudience:      p.Metadata.TargetAudience,
		BackgroundContext:   p.Metadata.BackgroundContext,
		GenerationDirective: p.Metadata.GenerationDirective,
		WordLimit:           p.Metadata.WordLimit,
		Provider:            p.Metadata.Source,
		Model:               p.Metadata.Model,
		Override:            p.Override,
	}
}

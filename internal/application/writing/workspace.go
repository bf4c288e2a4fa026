package writing

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"scribe-ai-api/internal/application/writing/writingutil"
	"scribe-ai-api/internal/domain/document"
	"scribe-ai-api/internal/domain/service"
	pkgerrors "scribe-ai-api/pkg/errors"
	"scribe-ai-api/pkg/metrics"
)

// DocumentStore 定义工作区对文档库的最小依赖（port），由 library 服务实现
type DocumentStore interface {
	LoadDocument(ctx context.Context, userID, filename string) (*document.Document, error)
	SaveDocument(ctx context.Context, userID, filename string, doc *document.Document) error
}

// Workspace 一个用户对一份文档的在线编辑副本。
// mu 保护文档及全部段落的可变字段；调度器共用这把锁落地生成结果，
// 编辑、快照和结果写入因此互斥。
type Workspace struct {
	ID       string
	UserID   string
	Filename string

	mu    sync.Mutex
	doc   *document.Document
	sched *Scheduler
	store DocumentStore

	contextMaxChars int
}

// Manager 管理全部在线工作区
type Manager struct {
	store     DocumentStore
	generator Generator
	recorder  service.GenerationUsageRecorder
	opts      Options

	// contextMaxChars 相邻段落上下文的截断上限（按 rune 计）
	contextMaxChars int

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

// NewManager 创建工作区管理器
func NewManager(store DocumentStore, generator Generator, recorder service.GenerationUsageRecorder, opts Options, contextMaxChars int) *Manager {
	if contextMaxChars <= 0 {
		contextMaxChars = 2000
	}
	return &Manager{
		store:           store,
		generator:       generator,
		recorder:        recorder,
		opts:            opts,
		contextMaxChars: contextMaxChars,
		workspaces:      make(map[string]*Workspace),
	}
}

// Open 打开工作区。filename 为空时从空白文档开始，否则从文档库加载。
func (m *Manager) Open(ctx context.Context, userID, filename string) (*Workspace, error) {
	var doc *document.Document
	if filename == "" {
		doc = document.New("")
	} else {
		loaded, err := m.store.LoadDocument(ctx, userID, filename)
		if err != nil {
			return nil, err
		}
		doc = loaded
	}

	ws := &Workspace{
		ID:              uuid.NewString(),
		UserID:          userID,
		Filename:        filename,
		doc:             doc,
		store:           m.store,
		contextMaxChars: m.contextMaxChars,
	}
	// 调度器与工作区共用段落字段锁，生成结果落地不会与编辑或快照交错
	ws.sched = newScheduler(m.generator, m.recorder, m.opts, &ws.mu)

	m.mu.Lock()
	m.workspaces[ws.ID] = ws
	m.mu.Unlock()
	metrics.ActiveWorkspaces.Inc()
	return ws, nil
}

// Get 按 ID 取工作区并校验归属
func (m *Manager) Get(userID, workspaceID string) (*Workspace, error) {
	m.mu.Lock()
	ws, ok := m.workspaces[workspaceID]
	m.mu.Unlock()
	if !ok || ws.UserID != userID {
		return nil, pkgerrors.ErrWorkspaceNotFound
	}
	return ws, nil
}

// Close 关闭工作区并取消全部在途生成
func (m *Manager) Close(userID, workspaceID string) error {
	m.mu.Lock()
	ws, ok := m.workspaces[workspaceID]
	if ok && ws.UserID == userID {
		delete(m.workspaces, workspaceID)
	}
	m.mu.Unlock()
	if !ok || ws.UserID != userID {
		return pkgerrors.ErrWorkspaceNotFound
	}
	ws.sched.Close()
	metrics.ActiveWorkspaces.Dec()
	return nil
}

// CloseAll 关闭全部工作区，进程退出前调用
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		all = append(all, ws)
	}
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()
	for _, ws := range all {
		ws.sched.Close()
		metrics.ActiveWorkspaces.Dec()
	}
}

// Snapshot 返回文档的深拷贝，供 DTO 序列化使用
func (w *Workspace) Snapshot() (*document.Document, error) {
	w.mu.Lock()
	raw, err := json.Marshal(w.doc)
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var copied document.Document
	if err := json.Unmarshal(raw, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}

// AddSection 在指定位置插入段落；position 为 -1 时追加到末尾。创建不触发生成。
func (w *Workspace) AddSection(position int) *document.Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	if position < 0 {
		return w.doc.AddSection()
	}
	return w.doc.InsertSection(position)
}

// SectionUpdate 段落字段的局部更新，nil 字段保持不变
type SectionUpdate struct {
	MainPoint *string
	UserText  *string
}

// UpdateSection 更新段落字段
func (w *Workspace) UpdateSection(sectionID string, update SectionUpdate) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.doc.Section(sectionID)
	if s == nil {
		return pkgerrors.ErrSectionNotFound
	}
	if update.MainPoint != nil {
		s.MainPoint = *update.MainPoint
	}
	if update.UserText != nil {
		s.UserText = *update.UserText
	}
	w.doc.Touch()
	return nil
}

// DeleteSection 删除段落。先取消在途生成，再移除并重排。
func (w *Workspace) DeleteSection(sectionID string) error {
	w.mu.Lock()
	exists := w.doc.Section(sectionID) != nil
	w.mu.Unlock()
	if !exists {
		return pkgerrors.ErrSectionNotFound
	}

	// 删除前取消，避免悬挂的写入者
	w.sched.CancelSection(sectionID)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.doc.DeleteSection(sectionID); err != nil {
		return pkgerrors.ErrSectionNotFound
	}
	return nil
}

// MoveSection 移动段落
func (w *Workspace) MoveSection(sectionID string, position int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.doc.MoveSection(sectionID, position); err != nil {
		return pkgerrors.ErrSectionNotFound
	}
	return nil
}

// Reorder 按给定顺序重排全部段落
func (w *Workspace) Reorder(sectionIDs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.doc.Reorder(sectionIDs); err != nil {
		return pkgerrors.ErrValidationFailed.WithDetail(err.Error())
	}
	return nil
}

// SetTitle 更新标题
func (w *Workspace) SetTitle(title string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc.Title = title
	w.doc.Touch()
}

// SetMetadata 更新生成元数据
func (w *Workspace) SetMetadata(md document.Metadata) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.doc.Metadata = md
	w.doc.Touch()
}

// Save 保存回文档库。filename 为空时使用打开时的文件名。
func (w *Workspace) Save(ctx context.Context, filename string) error {
	if filename == "" {
		filename = w.Filename
	}
	if filename == "" {
		return pkgerrors.ErrFilenameInvalid.WithDetail("workspace has no filename")
	}
	doc, err := w.Snapshot()
	if err != nil {
		return err
	}
	if err := w.store.SaveDocument(ctx, w.UserID, filename, doc); err != nil {
		return err
	}
	w.mu.Lock()
	w.Filename = filename
	w.mu.Unlock()
	return nil
}

// RequestGeneration 为段落发起生成：组装上下文、截断、交给调度器。
// 立即返回旧的 generated_text。
func (w *Workspace) RequestGeneration(sectionID string, p GenerationParams) (string, error) {
	w.mu.Lock()
	section := w.doc.Section(sectionID)
	if section == nil {
		w.mu.Unlock()
		return "", pkgerrors.ErrSectionNotFound
	}
	title, prev, next := document.AssembleContext(w.doc, sectionID)
	w.mu.Unlock()

	p.UserID = w.UserID
	p.Title = title
	p.PrevParagraph = writingutil.TruncateTail(prev, w.contextMaxChars)
	p.NextParagraph = writingutil.TruncateHead(next, w.contextMaxChars)
	if p.Metadata == (document.Metadata{}) {
		// 请求未携带元数据时回退到文档级设置
		p.Metadata = w.metadata()
	}
	return w.sched.RequestGeneration(section, p)
}

// Poll 轮询段落生成状态
func (w *Workspace) Poll(sectionID string) (SectionStatus, error) {
	w.mu.Lock()
	section := w.doc.Section(sectionID)
	w.mu.Unlock()
	if section == nil {
		return SectionStatus{}, pkgerrors.ErrSectionNotFound
	}
	return w.sched.Status(section), nil
}

func (w *Workspace) metadata() document.Metadata {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.doc.Metadata
}

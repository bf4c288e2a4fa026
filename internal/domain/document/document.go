// Package document 定义文档聚合：标题、有序段落序列和生成元数据。
// 段落顺序以 Order 字段为准，任何结构变更后必须立即重排为 0..N-1 的连续序列。
package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// 元数据默认值，与前端编辑器的初始设置保持一致
const (
	DefaultWritingStyle   = "formal"
	DefaultTargetAudience = "general public"
	DefaultTone           = "neutral"
	DefaultWordLimit      = 250
)

// Metadata 生成元数据值对象，每次生成调用由调用方提供完整实例
type Metadata struct {
	WritingStyle        string `json:"writing_style"`
	TargetAudience      string `json:"target_audience"`
	Tone                string `json:"tone"`
	BackgroundContext   string `json:"background_context"`
	GenerationDirective string `json:"generation_directive"`
	// WordLimit 期望字数上限，0 表示未设置
	WordLimit int `json:"word_limit,omitempty"`
	// Source LLM 提供商标识
	Source string `json:"source,omitempty"`
	// Model LLM 模型标识
	Model string `json:"model,omitempty"`
}

// DefaultMetadata 返回带默认值的元数据
func DefaultMetadata() Metadata {
	return Metadata{
		WritingStyle:   DefaultWritingStyle,
		TargetAudience: DefaultTargetAudience,
		Tone:           DefaultTone,
		WordLimit:      DefaultWordLimit,
	}
}

// Section 文档中的一个段落单元
type Section struct {
	ID        string `json:"id"`
	MainPoint string `json:"main_point"`
	UserText  string `json:"user_text"`
	// GeneratedText 最近一次成功生成的文本，首次生成前为空
	GeneratedText string `json:"generated_text"`
	// Order 零基位置，连续无空洞，结构变更时重新计算
	Order int `json:"order"`
}

// Document 文档聚合根，独占持有其全部 Section
type Document struct {
	Title     string     `json:"title"`
	Sections  []*Section `json:"sections"`
	Metadata  Metadata   `json:"metadata"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// New 创建空文档
func New(title string) *Document {
	now := time.Now().UTC()
	return &Document{
		Title:     title,
		Sections:  make([]*Section, 0),
		Metadata:  DefaultMetadata(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Section 按 id 查找段落，未找到返回 nil
func (d *Document) Section(id string) *Section {
	for _, s := range d.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// indexOf 返回段落在序列中的下标，未找到返回 -1
func (d *Document) indexOf(id string) int {
	for i, s := range d.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// AddSection 在末尾追加新段落并返回。创建不触发生成。
func (d *Document) AddSection() *Section {
	s := &Section{
		ID:    uuid.NewString(),
		Order: len(d.Sections),
	}
	d.Sections = append(d.Sections, s)
	d.touch()
	return s
}

// InsertSection 在指定位置插入新段落；position 超出范围时收敛到 [0, N]
func (d *Document) InsertSection(position int) *Section {
	if position < 0 {
		position = 0
	}
	if position > len(d.Sections) {
		position = len(d.Sections)
	}
	s := &Section{ID: uuid.NewString()}
	d.Sections = append(d.Sections, nil)
	copy(d.Sections[position+1:], d.Sections[position:])
	d.Sections[position] = s
	d.reindex()
	d.touch()
	return s
}

// DeleteSection 删除段落并重排后续 Order
func (d *Document) DeleteSection(id string) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("section %s not found", id)
	}
	d.Sections = append(d.Sections[:idx], d.Sections[idx+1:]...)
	d.reindex()
	d.touch()
	return nil
}

// MoveSection 将段落移动到新位置；position 超出范围时收敛到 [0, N-1]
func (d *Document) MoveSection(id string, position int) error {
	idx := d.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("section %s not found", id)
	}
	if position < 0 {
		position = 0
	}
	if position >= len(d.Sections) {
		position = len(d.Sections) - 1
	}
	s := d.Sections[idx]
	d.Sections = append(d.Sections[:idx], d.Sections[idx+1:]...)
	d.Sections = append(d.Sections, nil)
	copy(d.Sections[position+1:], d.Sections[position:])
	d.Sections[position] = s
	d.reindex()
	d.touch()
	return nil
}

// Reorder 按给定 id 序列重排全部段落；序列必须恰好是现有段落的一个排列
func (d *Document) Reorder(ids []string) error {
	if len(ids) != len(d.Sections) {
		return fmt.Errorf("reorder expects %d section ids, got %d", len(d.Sections), len(ids))
	}
	reordered := make([]*Section, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("duplicate section id %s", id)
		}
		seen[id] = true
		s := d.Section(id)
		if s == nil {
			return fmt.Errorf("section %s not found", id)
		}
		reordered = append(reordered, s)
	}
	d.Sections = reordered
	d.reindex()
	d.touch()
	return nil
}

// reindex 将每个段落的 Order 重置为其序列下标
func (d *Document) reindex() {
	for i, s := range d.Sections {
		s.Order = i
	}
}

// touch 更新修改时间
func (d *Document) touch() {
	d.UpdatedAt = time.Now().UTC()
}

// Touch 供上层在字段级编辑后刷新修改时间
func (d *Document) Touch() {
	d.touch()
}

// UnmarshalJSON 解析文档并按 Order 归位，保证加载后序列不变量成立
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Document(a)
	if d.Sections == nil {
		d.Sections = make([]*Section, 0)
	}
	sort.SliceStable(d.Sections, func(i, j int) bool {
		return d.Sections[i].Order < d.Sections[j].Order
	})
	d.reindex()
	return nil
}

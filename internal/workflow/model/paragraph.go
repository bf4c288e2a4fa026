package model

// ParagraphGenerateInput 段落生成输入。上下文字段（prev/next）由调用方在调用前截断。
type ParagraphGenerateInput struct {
	Title         string
	UserText      string
	PrevParagraph string
	NextParagraph string

	// Mode 生成模式（ideas/rewrite/improve/proofread），未识别时等同 rewrite
	Mode string

	// 生成元数据，逐字代入提示词
	WritingStyle        string
	Tone                string
	TargetAudience      string
	BackgroundContext   string
	GenerationDirective string
	// WordLimit 0 表示未设置
	WordLimit int

	// Provider/Model 为空时由工厂回退到默认配置
	Provider string
	Model    string

	// Override 可选的提供商覆盖，受服务端配置开关控制
	Override *ProviderOverride

	Temperature *float32
	MaxTokens   *int
}

// OutcomeKind 生成结果的类别标签
type OutcomeKind int

const (
	// OutcomeText 纯文本结果，存储前去除首尾空白
	OutcomeText OutcomeKind = iota
	// OutcomeStructured 结构化结果，原样透传，不做修整
	OutcomeStructured
)

// GenerationOutcome 带标签的生成结果。文本与结构化二选一。
type GenerationOutcome struct {
	Kind       OutcomeKind
	Text       string
	Structured any

	// PromptChars 本次调用提示词的字符数，用于用量记录
	PromptChars int
}

// TextOutcome 构造文本结果
func TextOutcome(text string, promptChars int) *GenerationOutcome {
	return &GenerationOutcome{Kind: OutcomeText, Text: text, PromptChars: promptChars}
}

// StructuredOutcome 构造结构化结果
func StructuredOutcome(v any, promptChars int) *GenerationOutcome {
	return &GenerationOutcome{Kind: OutcomeStructured, Structured: v, PromptChars: promptChars}
}

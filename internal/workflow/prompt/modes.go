package prompt

import "strings"

// Mode 生成模式，封闭集合
type Mode string

const (
	ModeIdeas     Mode = "ideas"
	ModeRewrite   Mode = "rewrite"
	ModeImprove   Mode = "improve"
	ModeProofread Mode = "proofread"
)

// NormalizeMode 归一化模式字符串，未识别的模式回退到 rewrite，从不报错
func NormalizeMode(mode string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(mode))) {
	case ModeIdeas:
		return ModeIdeas
	case ModeRewrite:
		return ModeRewrite
	case ModeImprove:
		return ModeImprove
	case ModeProofread:
		return ModeProofread
	default:
		return ModeRewrite
	}
}

var modeInstructions = map[Mode]string{
	ModeIdeas: "Provide a bulleted list of 4-6 specific, actionable improvement suggestions " +
		"for the current paragraph draft, covering content, structure, style, clarity, flow, " +
		"and impact where relevant. Do not rewrite the paragraph; output only the suggestion list.",
	ModeRewrite: "Completely rewrite the current paragraph draft as a full replacement paragraph. " +
		"You are free to restructure it for clarity, engagement, and impact while preserving " +
		"the author's intent.",
	ModeImprove: "Enhance the provided paragraph draft with targeted polish while preserving its " +
		"structure and meaning. Focus on strengthening word choices, tightening sentences, and " +
		"smoothing transitions.",
	ModeProofread: "Proofread the current paragraph draft. Correct grammar, spelling, and " +
		"punctuation errors only. Do not change content, wording, or structure beyond what a " +
		"correction requires.",
}

// SelectInstruction 返回模式对应的任务指令文本。纯函数，未知模式等同 rewrite。
func SelectInstruction(mode string) string {
	return modeInstructions[NormalizeMode(mode)]
}

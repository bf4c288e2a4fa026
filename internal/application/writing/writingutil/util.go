// Package writingutil 提供写作流程的纯文本工具函数
package writingutil

import "unicode/utf8"

// TruncateHead 保留字符串开头的 maxRunes 个字符（按 rune 计），
// 用于"后一段落"上下文：最邻近的后续内容优先。
func TruncateHead(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	n := 0
	for i := range s {
		if n == maxRunes {
			return s[:i]
		}
		n++
	}
	return s
}

// TruncateTail 保留字符串末尾的 maxRunes 个字符（按 rune 计），
// 用于"前一段落"上下文：最邻近截断点的内容优先。
func TruncateTail(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	total := utf8.RuneCountInString(s)
	if total <= maxRunes {
		return s
	}
	skip := total - maxRunes
	n := 0
	for i := range s {
		if n == skip {
			return s[i:]
		}
		n++
	}
	return s
}

package document

// AssembleContext 为目标段落组装生成上下文：标题、前一段文本、后一段文本。
// 相邻段落优先取其 generated_text，为空时回退到 user_text。
// 目标 id 不存在时返回 (标题, "", "")，不视为错误。
// 纯函数，不截断，不修改文档。
func AssembleContext(doc *Document, sectionID string) (title, prev, next string) {
	title = doc.Title
	idx := doc.indexOf(sectionID)
	if idx < 0 {
		return title, "", ""
	}
	if idx > 0 {
		prev = paragraphText(doc.Sections[idx-1])
	}
	if idx < len(doc.Sections)-1 {
		next = paragraphText(doc.Sections[idx+1])
	}
	return title, prev, next
}

// paragraphText 段落上下文取值：生成文本优先，其次用户草稿
func paragraphText(s *Section) string {
	if s.GeneratedText != "" {
		return s.GeneratedText
	}
	return s.UserText
}

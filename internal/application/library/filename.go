// Package library 实现文档库：文档的存取、列表、删除与历史快照。
package library

import (
	"regexp"
	"strings"

	pkgerrors "scribe-ai-api/pkg/errors"
)

const maxFilenameLen = 255

var filenamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// SanitizeFilename 规范化用户提交的文件名。
// 仅允许字母、数字、点、下划线和连字符；拒绝路径分隔符和目录穿越；
// 无 .json 后缀时自动补上。
func SanitizeFilename(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", pkgerrors.ErrFilenameInvalid.WithDetail("filename is empty")
	}
	if strings.ContainsAny(name, "/\\") {
		return "", pkgerrors.ErrFilenameInvalid.WithDetail("filename must not contain path separators")
	}
	if strings.Contains(name, "..") {
		return "", pkgerrors.ErrFilenameInvalid.WithDetail("filename must not contain '..'")
	}
	if !filenamePattern.MatchString(name) {
		return "", pkgerrors.ErrFilenameInvalid.WithDetail("filename contains invalid characters")
	}
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	if len(name) > maxFilenameLen {
		return "", pkgerrors.ErrFilenameInvalid.WithDetail("filename too long")
	}
	return name, nil
}

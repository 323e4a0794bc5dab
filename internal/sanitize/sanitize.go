// Package sanitize 清理用户提交的纯文本字段（消息、个人资料）。
package sanitize

import (
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicy     = bluemonday.StrictPolicy()
	unsafeFileChar = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// Text 去掉 HTML 标签、空字节和首尾空白
func Text(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	// StrictPolicy 会转义实体，这里还原成纯文本
	input = html.UnescapeString(htmlPolicy.Sanitize(input))
	return strings.TrimSpace(input)
}

// Truncate 按字符数截断
func Truncate(input string, max int) string {
	r := []rune(input)
	if len(r) > max {
		return string(r[:max])
	}
	return input
}

// Filename 只保留安全的文件名字符，去掉路径部分
func Filename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFileChar.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	return name
}

// HasExtension 检查文件扩展名（不区分大小写）
func HasExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

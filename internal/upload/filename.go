// Package upload 处理候选人上传的简历文件：文件名清洗与病毒扫描。
package upload

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Windows 保留设备名，落盘到共享目录时会出问题。
var reservedNames = map[string]bool{
	"CON": true, "AUX": true, "COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "PRN": true, "NUL": true,
}

// SanitizeFilename 把用户提供的文件名转换为只含 ASCII 字母、数字、下划线、点和连字符的安全名称。
// 先做 NFKD 分解并去掉组合符号（é → e），路径分隔符视为空白，空白折叠为下划线，
// 最后去掉首尾的点和下划线。结果可能为空，调用方需要处理。
func SanitizeFilename(name string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, name); err == nil {
		name = folded
	}

	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")

	if name != "" {
		base, _, _ := strings.Cut(name, ".")
		if reservedNames[strings.ToUpper(base)] {
			name = "_" + name
		}
	}
	return name
}

package jobdesc

import (
	"strings"

	"golang.org/x/net/html"
)

type sectionKind int

const (
	paragraphSection sectionKind = iota
	listSection
)

type sectionHeader struct {
	Text string
	Kind sectionKind
}

// displaySections 的顺序决定前缀匹配优先级，匹配区分大小写。
var displaySections = []sectionHeader{
	{Text: "Summary:", Kind: paragraphSection},
	{Text: "Responsibilities:", Kind: listSection},
	{Text: "Required Skills:", Kind: listSection},
	{Text: "Preferred Qualifications:", Kind: listSection},
	{Text: "Experience Range:", Kind: paragraphSection},
	{Text: "Job Location:", Kind: paragraphSection},
}

func matchSection(line string) (sectionHeader, bool) {
	for _, s := range displaySections {
		if strings.HasPrefix(line, s.Text) {
			return s, true
		}
	}
	return sectionHeader{}, false
}

// ToDisplayHTML 单遍扫描规范文本并输出展示用 HTML 片段。
// 乱序或不完整的输入只会退化成零散段落，不会报错。
func ToDisplayHTML(text string) string {
	var b strings.Builder
	listOpen := false

	for _, raw := range splitLines(Normalize(text)) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if section, ok := matchSection(line); ok {
			if listOpen {
				b.WriteString("</ul>\n")
				listOpen = false
			}
			content := strings.TrimSpace(strings.ReplaceAll(line, section.Text, ""))
			switch section.Kind {
			case paragraphSection:
				b.WriteString("<h5>" + section.Text + "</h5>\n<p>" + content + "</p>\n")
			case listSection:
				b.WriteString("<h5>" + section.Text + "</h5>\n<ul>\n")
				listOpen = true
			}
			continue
		}

		if listOpen {
			item := strings.TrimSpace(strings.TrimLeft(line, "-*• "))
			b.WriteString("<li>" + item + "</li>\n")
		} else {
			b.WriteString("<p>" + line + "</p>\n")
		}
	}

	if listOpen {
		b.WriteString("</ul>\n")
	}
	return b.String()
}

// ToPlainPreview 提取 HTML 中的可见文本，各文本节点去空白后以单个空格拼接。
func ToPlainPreview(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	parts := make([]string, 0, 16)
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF 或解析错误都意味着没有更多文本
			return strings.Join(parts, " ")
		case html.TextToken:
			if text := strings.TrimSpace(string(z.Text())); text != "" {
				parts = append(parts, text)
			}
		}
	}
}

// TruncateWords 保留前 n 个单词，发生截断时追加 "..."。
func TruncateWords(s string, n int) string {
	if s == "" {
		return ""
	}
	words := strings.Fields(s)
	if n < 0 {
		n = 0
	}
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + "..."
}

// Clean 将 JD 压成单行文本：换行（含字面量 "\n"）替换为空格并移除残留反斜杠。
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, `\n`, " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, `\`, "")
	return strings.TrimSpace(text)
}

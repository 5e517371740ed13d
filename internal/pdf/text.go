package pdf

import (
	"bytes"
	"fmt"
	"strings"

	ledongthuc "github.com/ledongthuc/pdf"
)

// ExtractText 提取 PDF 中所有页面的纯文本，页与页之间以换行分隔。
// 无法提取文字的页面（例如扫描件）被跳过。
func ExtractText(data []byte) (text string, err error) {
	// ledongthuc/pdf 遇到损坏文件时可能 panic。
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

package api

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// loadTemplates 解析内嵌的 HTML 页面模板，模板名为文件名（例如 index.html）。
func loadTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

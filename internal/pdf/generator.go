// Package pdf 负责 PDF 的生成（无头浏览器打印 HTML）与文本提取。
package pdf

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Renderer 把一段完整的 HTML 文档渲染为 PDF。
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// RodRenderer 每次渲染启动一个独立的无头 Chromium，渲染完成后清理。
type RodRenderer struct {
	Timeout time.Duration
}

// NewRodRenderer 返回默认 30 秒超时的渲染器。
func NewRodRenderer() *RodRenderer {
	return &RodRenderer{Timeout: 30 * time.Second}
}

// RenderHTML 使用 go-rod 在无头浏览器中渲染 HTML 并返回 A4 PDF 字节。
func (r *RodRenderer) RenderHTML(ctx context.Context, htmlContent string) ([]byte, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	launch := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)

	if path, ok := launcher.LookPath(); ok {
		launch = launch.Bin(path)
	}

	browserURL, err := launch.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chromium: %w", err)
	}
	defer launch.Cleanup()

	browser := rod.New().Context(ctx).ControlURL(browserURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
	}()

	page, err := browser.Timeout(timeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer func() {
		_ = page.Close()
	}()

	page = page.Timeout(timeout)
	if err := page.SetDocumentContent(htmlContent); err != nil {
		return nil, fmt.Errorf("set document content: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait load: %w", err)
	}

	// 210mm x 297mm，页边距交给模板里的 @page 规则。
	paperWidth, paperHeight, noMargin := 8.27, 11.69, 0.0
	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        &paperWidth,
		PaperHeight:       &paperHeight,
		MarginTop:         &noMargin,
		MarginBottom:      &noMargin,
		MarginLeft:        &noMargin,
		MarginRight:       &noMargin,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	defer func() {
		_ = reader.Close()
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read pdf bytes: %w", err)
	}

	return data, nil
}

// Package mailer 发送 HR 邮件：Markdown 正文渲染为经过清洗的 HTML，并附带纯文本版本。
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"hrportal/internal/config"
)

// ErrNotConfigured 表示未配置 SMTP 主机。
var ErrNotConfigured = errors.New("smtp is not configured")

// Attachment 是随邮件发送的文件。
type Attachment struct {
	Filename string
	Data     []byte
}

// Message 是一封待发送的邮件，Body 为 Markdown。
type Message struct {
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Sender 发送邮件。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// RenderMarkdown 把 Markdown 转为 HTML 并按 UGC 策略清洗。
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}

// SMTPMailer 通过 go-mail 连接 SMTP 服务器发送邮件。
type SMTPMailer struct {
	cfg config.SMTPConfig
}

// New 返回 SMTP 发送器。
func New(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send 组装 multipart/alternative 邮件并发送。
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(m.cfg.Host) == "" {
		return ErrNotConfigured
	}

	out, err := m.build(msg)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg Message) (*mail.Msg, error) {
	htmlBody, err := RenderMarkdown(msg.Body)
	if err != nil {
		return nil, err
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	out := mail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("set from %q: %w", from, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("set to %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	out.AddAlternativeString(mail.TypeTextHTML, htmlBody)

	for _, a := range msg.Attachments {
		if err := out.AttachReader(a.Filename, bytes.NewReader(a.Data)); err != nil {
			return nil, fmt.Errorf("attach %s: %w", a.Filename, err)
		}
	}
	return out, nil
}

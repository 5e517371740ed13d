package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"hrportal/internal/config"
)

func TestRenderMarkdown(t *testing.T) {
	got, err := RenderMarkdown("# Offer\n\nWelcome **Ada**.\n\n- day one\n- day two")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{"<h1", "Offer</h1>", "<strong>Ada</strong>", "<li>day one</li>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
}

func TestRenderMarkdown_StripsScripts(t *testing.T) {
	got, err := RenderMarkdown("hi <script>alert(1)</script> [x](javascript:alert(1))")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "javascript:") {
		t.Fatalf("unsafe html kept: %q", got)
	}
}

func TestSend_RequiresHost(t *testing.T) {
	err := New(config.SMTPConfig{}).Send(context.Background(), Message{To: "a@example.com"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestBuild_PlainAndHTMLParts(t *testing.T) {
	m := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "hr@example.com"})
	msg, err := m.build(Message{
		To:          "ada@example.com",
		Subject:     "Salary Slip",
		Body:        "Your slip is **attached**.",
		Attachments: []Attachment{{Filename: "E1_2024-06-30.pdf", Data: []byte("%PDF-1.4")}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.String()
	for _, want := range []string{"multipart/alternative", "text/plain", "text/html", "E1_2024-06-30.pdf", "Subject: Salary Slip"} {
		if !strings.Contains(raw, want) {
			t.Fatalf("missing %q in message", want)
		}
	}
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hrportal/internal/mailer"
)

// ErrMailerUnavailable 表示未配置邮件发送器。
var ErrMailerUnavailable = errors.New("mailer is not configured")

// SendEmail 发送 Markdown 正文的邮件（HTML + 纯文本两个版本）。
func (s *Service) SendEmail(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	subject = strings.TrimSpace(subject)
	if to == "" || subject == "" || strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: to, subject and body are required", ErrInvalidInput)
	}
	return s.sendMail(ctx, mailer.Message{To: to, Subject: subject, Body: body})
}

func (s *Service) sendMail(ctx context.Context, msg mailer.Message) error {
	if s.mailer == nil {
		return ErrMailerUnavailable
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// EmailSalarySlip 把渲染好的工资条 PDF 作为附件发给员工。
func (s *Service) EmailSalarySlip(ctx context.Context, view PayslipView, filename string, data []byte) error {
	if strings.TrimSpace(view.EmailID) == "" {
		return fmt.Errorf("%w: employee %s has no email", ErrInvalidInput, view.EmpID)
	}
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached your salary slip for **%s**.\n\nNet salary: %s\n\nRegards,\n%s HR",
		view.EmployeeName, view.Period, view.Net, view.Company)
	return s.sendMail(ctx, mailer.Message{
		To:          view.EmailID,
		Subject:     "Salary Slip for " + view.Period,
		Body:        body,
		Attachments: []mailer.Attachment{{Filename: filename, Data: data}},
	})
}

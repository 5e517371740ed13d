package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"hrportal/internal/database"
	"hrportal/internal/errcode"
	"hrportal/internal/mailer"
	"hrportal/internal/services"
	"hrportal/internal/storage"
	"hrportal/internal/store"
	"hrportal/internal/tasks"
)

type memObjects map[string][]byte

func (m memObjects) PutObject(_ context.Context, key string, data []byte, _ string) error {
	m[key] = data
	return nil
}

func (m memObjects) ReadObject(_ context.Context, key string) ([]byte, error) {
	b, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return b, nil
}

func (m memObjects) OpenObject(ctx context.Context, key string) (io.ReadCloser, storage.ObjectMeta, error) {
	b, err := m.ReadObject(ctx, key)
	if err != nil {
		return nil, storage.ObjectMeta{}, err
	}
	return io.NopCloser(bytes.NewReader(b)), storage.ObjectMeta{Key: key}, nil
}

func (m memObjects) DeleteObject(_ context.Context, key string) error {
	delete(m, key)
	return nil
}

type fakeRenderer struct {
	html string
	err  error
}

func (r *fakeRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	r.html = html
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.7 payslip"), nil
}

type fakePublisher struct {
	channels []string
	messages []PayslipNotifyMessage
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	var msg PayslipNotifyMessage
	_ = json.Unmarshal(message.([]byte), &msg)
	p.channels = append(p.channels, channel)
	p.messages = append(p.messages, msg)
	return redis.NewIntResult(1, nil)
}

type recordingMailer struct {
	sent []mailer.Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type handlerFixture struct {
	objects   memObjects
	repos     *store.Repositories
	svc       *services.Service
	renderer  *fakeRenderer
	publisher *fakePublisher
	mail      *recordingMailer
	handler   *PayslipTaskHandler
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		objects:   memObjects{},
		renderer:  &fakeRenderer{},
		publisher: &fakePublisher{},
		mail:      &recordingMailer{},
	}
	f.repos = store.NewCSVRepositories(f.objects)
	f.svc = services.New(services.Options{
		Repos:         f.repos,
		Objects:       f.objects,
		Mailer:        f.mail,
		PublicBaseURL: "https://hr.example.com",
		Company:       "Statscog Labs",
		Now:           func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) },
	})
	f.handler = NewPayslipTaskHandler(f.svc, f.renderer, f.publisher, nil)

	ctx := context.Background()
	if _, err := f.svc.ImportEmployees(ctx, []database.Employee{{EmpID: "E001", EmployeeName: "Ada <Admin>", EmailID: "ada@example.com"}}, nil); err != nil {
		t.Fatalf("seed employee: %v", err)
	}
	gross := decimal.NewFromInt(1000)
	if _, err := f.svc.GenerateSalarySlip(ctx, services.GenerateSlipInput{EmpID: "E001", Gross: &gross}); err != nil {
		t.Fatalf("seed slip: %v", err)
	}
	return f
}

func TestPayslipTaskHandler_RendersStoresAndNotifies(t *testing.T) {
	f := newHandlerFixture(t)
	ctx := context.Background()

	task, _ := tasks.NewPayslipRenderTask(tasks.PayslipRenderPayload{SlipID: "SP001", EmpID: "E001", SendEmail: true, CorrelationID: "c-1"})
	if err := f.handler.ProcessTask(ctx, task); err != nil {
		t.Fatalf("process: %v", err)
	}

	for _, want := range []string{"Statscog Labs", "Salary Slip for June 2024", "SP001", "920.00", "Tax (5%)", "Ada &lt;Admin&gt;"} {
		if !strings.Contains(f.renderer.html, want) {
			t.Fatalf("rendered html missing %q", want)
		}
	}

	const key = "salary-slips/E001_2024-06-15_SP001.pdf"
	if string(f.objects[key]) != "%PDF-1.7 payslip" {
		t.Fatalf("pdf not uploaded under %s", key)
	}
	slip, err := f.repos.SalarySlips.Get(ctx, "SP001")
	if err != nil || slip.PdfKey != key {
		t.Fatalf("pdf key not recorded: %+v %v", slip, err)
	}

	if len(f.mail.sent) != 1 || f.mail.sent[0].To != "ada@example.com" || len(f.mail.sent[0].Attachments) != 1 {
		t.Fatalf("unexpected mail: %+v", f.mail.sent)
	}

	if len(f.publisher.messages) != 1 || f.publisher.channels[0] != "payslip_notify:E001" {
		t.Fatalf("unexpected notifications: %+v", f.publisher)
	}
	msg := f.publisher.messages[0]
	if msg.Status != "completed" || msg.ErrorCode != errcode.OK || msg.DownloadLink != "https://hr.example.com/download-slip/E001_2024-06-15_SP001.pdf" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestPayslipTaskHandler_EmailFailureIsNotRetried(t *testing.T) {
	f := newHandlerFixture(t)
	f.mail.err = errors.New("smtp down")

	task, _ := tasks.NewPayslipRenderTask(tasks.PayslipRenderPayload{SlipID: "SP001", EmpID: "E001", SendEmail: true})
	if err := f.handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("process: %v", err)
	}
	if msg := f.publisher.messages[0]; msg.ErrorCode != errcode.ResourceMissing || msg.Status != "completed" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestPayslipTaskHandler_MissingSlipIsSkipped(t *testing.T) {
	f := newHandlerFixture(t)
	task, _ := tasks.NewPayslipRenderTask(tasks.PayslipRenderPayload{SlipID: "SP404", EmpID: "E001"})
	if err := f.handler.ProcessTask(context.Background(), task); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if f.renderer.html != "" {
		t.Fatal("renderer should not run")
	}
}

func TestPayslipTaskHandler_RenderFailureReturnsError(t *testing.T) {
	f := newHandlerFixture(t)
	f.renderer.err = errors.New("chromium crashed")

	task, _ := tasks.NewPayslipRenderTask(tasks.PayslipRenderPayload{SlipID: "SP001", EmpID: "E001"})
	if err := f.handler.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected error")
	}
	// 非最后一次重试，不发送失败通知。
	if len(f.publisher.messages) != 0 {
		t.Fatalf("unexpected notifications: %+v", f.publisher.messages)
	}
	slip, _ := f.repos.SalarySlips.Get(context.Background(), "SP001")
	if slip.PdfKey != "" {
		t.Fatalf("pdf key should stay empty, got %q", slip.PdfKey)
	}
}

package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"hrportal/internal/database"
	"hrportal/internal/services"
	"hrportal/internal/storage"
	"hrportal/internal/store"
)

type memObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memObjects) PutObject(_ context.Context, key string, data []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memObjects) ReadObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrObjectNotFound, key)
	}
	return append([]byte(nil), data...), nil
}

func (m *memObjects) OpenObject(ctx context.Context, key string) (io.ReadCloser, storage.ObjectMeta, error) {
	data, err := m.ReadObject(ctx, key)
	if err != nil {
		return nil, storage.ObjectMeta{}, err
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectMeta{Key: key, Size: int64(len(data))}, nil
}

func (m *memObjects) DeleteObject(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func newTestServer(t *testing.T) (*Server, *services.Service) {
	t.Helper()
	objects := &memObjects{objects: map[string][]byte{}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := services.New(services.Options{
		Repos:         store.NewCSVRepositories(objects),
		Objects:       objects,
		PublicBaseURL: "https://hr.example.com",
		Logger:        logger,
		Now:           func() time.Time { return time.Date(2024, 3, 1, 8, 0, 0, 0, time.Local) },
	})
	return New(svc, logger), svc
}

func call(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	switch c := res.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", res.Content[0])
		return ""
	}
}

func TestPostJobThenListAndGet(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	res, err := s.postJob(ctx, call(map[string]interface{}{
		"job_description": "Job Title: HR Generalist\nJob Location: Bengaluru\nSummary:\nRun onboarding and leave administration for growing teams.",
	}))
	if err != nil || res.IsError {
		t.Fatalf("post_job failed: %v %s", err, resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "JD001") {
		t.Fatalf("expected JD001, got %s", resultText(t, res))
	}

	res, _ = s.listJobs(ctx, call(nil))
	var jobs []services.JobSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &jobs); err != nil {
		t.Fatalf("decode jobs: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Title != "HR Generalist" || jobs[0].Location != "Bengaluru" {
		t.Fatalf("unexpected jobs: %+v", jobs)
	}

	res, _ = s.getJob(ctx, call(map[string]interface{}{"job_id": "JD001"}))
	if res.IsError || !strings.Contains(resultText(t, res), "\"job_title\": \"HR Generalist\"") {
		t.Fatalf("unexpected get_job result: %s", resultText(t, res))
	}
}

func TestPostJob_StructuredSections(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()

	res, _ := s.postJob(ctx, call(map[string]interface{}{
		"Responsibilities": []interface{}{"Run payroll", "File statutory returns"},
		"Summary":          "Own the monthly payroll cycle end to end for every region.",
		"Job Location":     "Remote",
		"Job Title":        "Payroll Specialist",
	}))
	if res.IsError {
		t.Fatalf("post_job failed: %s", resultText(t, res))
	}
	job, err := svc.GetJob(ctx, "JD001")
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if job.Title != "Payroll Specialist" || job.Location != "Remote" {
		t.Fatalf("unexpected job: %+v", job)
	}
	if !strings.HasPrefix(job.Description, "Job Title:\nPayroll Specialist\n\nJob Location:") {
		t.Fatalf("sections not in display order: %q", job.Description)
	}
}

func TestToolErrors(t *testing.T) {
	s, _ := newTestServer(t)
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() (*mcp.CallToolResult, error)
	}{
		{"missing job id", func() (*mcp.CallToolResult, error) { return s.getJob(ctx, call(nil)) }},
		{"unknown job", func() (*mcp.CallToolResult, error) {
			return s.getJob(ctx, call(map[string]interface{}{"job_id": "JD999"}))
		}},
		{"short description", func() (*mcp.CallToolResult, error) {
			return s.postJob(ctx, call(map[string]interface{}{"job_description": "too short"}))
		}},
		{"unknown employee", func() (*mcp.CallToolResult, error) {
			return s.getEmployee(ctx, call(map[string]interface{}{"emp_id": "E404"}))
		}},
		{"salary not a number", func() (*mcp.CallToolResult, error) {
			return s.generateSalarySlip(ctx, call(map[string]interface{}{"employee_id": "E1", "salary": "lots"}))
		}},
		{"salary wrong type", func() (*mcp.CallToolResult, error) {
			return s.generateSalarySlip(ctx, call(map[string]interface{}{"employee_id": "E1", "salary": true}))
		}},
		{"mailer missing", func() (*mcp.CallToolResult, error) {
			return s.sendEmail(ctx, call(map[string]interface{}{"to": "a@example.com", "subject": "s", "body": "b"}))
		}},
		{"bad arguments", func() (*mcp.CallToolResult, error) {
			var req mcp.CallToolRequest
			req.Params.Arguments = "not an object"
			return s.listApplicants(ctx, req)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.run()
			if err != nil {
				t.Fatalf("tool returned protocol error: %v", err)
			}
			if !res.IsError {
				t.Fatalf("expected tool error, got %s", resultText(t, res))
			}
		})
	}
}

func TestGenerateSalarySlipAndLink(t *testing.T) {
	s, svc := newTestServer(t)
	ctx := context.Background()
	if _, err := svc.ImportEmployees(ctx, []database.Employee{{EmpID: "E7", EmployeeName: "Lin", EmailID: "lin@example.com"}}, nil); err != nil {
		t.Fatalf("import: %v", err)
	}

	res, _ := s.generateSalarySlip(ctx, call(map[string]interface{}{"employee_id": "E7"}))
	if !res.IsError {
		t.Fatalf("expected error without salary, got %s", resultText(t, res))
	}

	// 缺少工资的调用不占用编号。
	res, _ = s.generateSalarySlip(ctx, call(map[string]interface{}{"employee_id": "E7", "salary": float64(30000)}))
	if res.IsError {
		t.Fatalf("generate failed: %s", resultText(t, res))
	}
	var slip services.SlipResult
	if err := json.Unmarshal([]byte(resultText(t, res)), &slip); err != nil {
		t.Fatalf("decode slip: %v", err)
	}
	if slip.SlipID != "SP001" || slip.Net != "27600.00" {
		t.Fatalf("unexpected slip: %+v", slip)
	}

	res, _ = s.getSalarySlipLink(ctx, call(map[string]interface{}{"emp_id": "E7"}))
	if !res.IsError {
		t.Fatalf("expected pending error before pdf exists")
	}

	if err := svc.AttachSlipPDF(ctx, "SP001", "salary-slips/E7_2024-03-01_SP001.pdf", []byte("%PDF")); err != nil {
		t.Fatalf("attach: %v", err)
	}
	res, _ = s.getSalarySlipLink(ctx, call(map[string]interface{}{"emp_id": "E7"}))
	if res.IsError || !strings.Contains(resultText(t, res), "https://hr.example.com/download-slip/E7_2024-03-01_SP001.pdf") {
		t.Fatalf("unexpected link result: %s", resultText(t, res))
	}
}

func TestToolsRegistered(t *testing.T) {
	s, _ := newTestServer(t)
	want := []string{
		"list_jobs", "get_job", "post_job", "list_applicants", "get_resume_texts",
		"get_employee", "generate_salary_slip", "get_salary_slip_link", "send_email",
	}
	registered := make(map[string]bool, len(s.toolNames))
	for _, name := range s.toolNames {
		registered[name] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
	if len(s.toolNames) != len(want) {
		t.Errorf("expected %d tools, got %v", len(want), s.toolNames)
	}
}

package tasks

import (
	"encoding/json"
	"testing"
)

func TestNewPayslipRenderTask(t *testing.T) {
	task, err := NewPayslipRenderTask(PayslipRenderPayload{SlipID: "SP001", EmpID: "E1", SendEmail: true, CorrelationID: "c-1"})
	if err != nil {
		t.Fatalf("new task: %v", err)
	}
	if task.Type() != TypePayslipRender {
		t.Fatalf("type = %q", task.Type())
	}
	var raw map[string]any
	if err := json.Unmarshal(task.Payload(), &raw); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if raw["slip_id"] != "SP001" || raw["emp_id"] != "E1" || raw["send_email"] != true || raw["correlation_id"] != "c-1" {
		t.Fatalf("unexpected payload: %v", raw)
	}
}

package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypePayslipRender = "payslip:render"
)

// PayslipRenderPayload 描述渲染一张工资条 PDF 所需的信息。
type PayslipRenderPayload struct {
	SlipID        string `json:"slip_id"`
	EmpID         string `json:"emp_id"`
	SendEmail     bool   `json:"send_email"`
	CorrelationID string `json:"correlation_id"`
}

// NewPayslipRenderTask 构造工资条 PDF 渲染任务，失败时最多重试 5 次。
func NewPayslipRenderTask(p PayslipRenderPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePayslipRender, payload, asynq.MaxRetry(5)), nil
}

// PayslipNotifyChannel 返回员工工资条通知的 Redis Pub/Sub 频道。
func PayslipNotifyChannel(empID string) string {
	return "payslip_notify:" + empID
}

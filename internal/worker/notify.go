package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"hrportal/internal/tasks"
)

// PayslipNotifyMessage 是通过 Redis Pub/Sub 转发给 WebSocket 客户端的工资条状态消息。
type PayslipNotifyMessage struct {
	Status        string `json:"status"`
	SlipID        string `json:"slip_id"`
	EmpID         string `json:"emp_id"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
	DownloadLink  string `json:"download_link,omitempty"`
}

// Publisher 是 redis.Client 的发布子集。
type Publisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

func publishPayslipNotify(ctx context.Context, pub Publisher, msg PayslipNotifyMessage) error {
	if pub == nil {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := tasks.PayslipNotifyChannel(msg.EmpID)
	if err := pub.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"hrportal/internal/ids"
	"hrportal/internal/metrics"
)

// IDSource 是 Sequencer 读取现有编号的来源，所有 Repository 都满足它。
type IDSource interface {
	IDs(ctx context.Context) ([]string, error)
}

// Sequencer 在锁内完成“读取现有编号 → 计算下一个 → 写入”，
// 避免并发请求拿到同一个编号。
type Sequencer struct {
	locker Locker
}

// NewSequencer 创建分配器，locker 为 nil 时退化为不加锁。
func NewSequencer(locker Locker) *Sequencer {
	if locker == nil {
		locker = NopLocker{}
	}
	return &Sequencer{locker: locker}
}

// WithNextID 分配 prefix 系列的下一个编号并在持锁期间执行 fn（通常是插入）。
// fn 返回 ErrDuplicateID 时视为编号被其它写入者抢占，重新分配一次。
func (s *Sequencer) WithNextID(ctx context.Context, prefix string, src IDSource, fn func(ctx context.Context, id string) error) (string, error) {
	unlock, err := s.locker.Lock(ctx, "ids:"+prefix)
	if err != nil {
		return "", fmt.Errorf("lock %s sequence: %w", prefix, err)
	}
	defer unlock()

	const attempts = 2
	for attempt := 1; ; attempt++ {
		existing, err := src.IDs(ctx)
		if err != nil {
			return "", fmt.Errorf("read %s ids: %w", prefix, err)
		}
		id, err := ids.Next(existing, prefix)
		if err != nil {
			return "", err
		}
		err = fn(ctx, id)
		if err == nil {
			metrics.RecordIDAllocated(prefix)
			return id, nil
		}
		if errors.Is(err, ErrDuplicateID) && attempt < attempts {
			continue
		}
		return "", err
	}
}

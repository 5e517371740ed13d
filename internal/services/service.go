// Package services 实现 HR 门户的业务操作，HTTP API 与 MCP 工具共用同一套实现。
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"hrportal/internal/jobdesc"
	"hrportal/internal/mailer"
	"hrportal/internal/payroll"
	"hrportal/internal/storage"
	"hrportal/internal/store"
	"hrportal/internal/upload"
)

// ErrInvalidInput 表示请求缺少必填字段或字段格式不正确。
var ErrInvalidInput = errors.New("invalid input")

// TaskEnqueuer 是 asynq.Client 的子集，便于测试替换。
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Options 汇总 Service 的依赖。
type Options struct {
	Repos         *store.Repositories
	Sequencer     *store.Sequencer
	Objects       storage.ObjectStore
	Mailer        mailer.Sender
	Tasks         TaskEnqueuer
	Scanner       upload.Scanner
	Rates         payroll.Rates
	Location      jobdesc.LocationStrategy
	PublicBaseURL string
	Company       string
	Logger        *slog.Logger
	Now           func() time.Time
}

// Service 提供全部业务操作。
type Service struct {
	repos         *store.Repositories
	seq           *store.Sequencer
	objects       storage.ObjectStore
	mailer        mailer.Sender
	tasks         TaskEnqueuer
	scanner       upload.Scanner
	rates         payroll.Rates
	location      jobdesc.LocationStrategy
	publicBaseURL string
	company       string
	logger        *slog.Logger
	now           func() time.Time
}

// New 创建 Service，未提供的可选依赖使用默认值。
func New(opts Options) *Service {
	s := &Service{
		repos:         opts.Repos,
		seq:           opts.Sequencer,
		objects:       opts.Objects,
		mailer:        opts.Mailer,
		tasks:         opts.Tasks,
		scanner:       opts.Scanner,
		rates:         opts.Rates,
		location:      opts.Location,
		publicBaseURL: opts.PublicBaseURL,
		company:       opts.Company,
		logger:        opts.Logger,
		now:           opts.Now,
	}
	if s.seq == nil {
		s.seq = store.NewSequencer(nil)
	}
	if s.scanner == nil {
		s.scanner = upload.NewScanner("")
	}
	if s.rates.TaxPercent.IsZero() && s.rates.PFPercent.IsZero() {
		s.rates = payroll.DefaultRates()
	}
	if s.location == "" {
		s.location = jobdesc.LocationExact
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

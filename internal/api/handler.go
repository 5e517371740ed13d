package api

import (
	"hrportal/internal/services"
)

// Handler 持有 HTTP 处理函数共享的依赖。
type Handler struct {
	svc            *services.Service
	company        string
	maxUploadBytes int64
	applyLimiter   redisRateCounter
}

// HandlerOptions 配置 Handler。ApplyLimiter 为空时不限制投递频率。
type HandlerOptions struct {
	Company        string
	MaxUploadBytes int64
	ApplyLimiter   redisRateCounter
}

// NewHandler 创建 Handler。
func NewHandler(svc *services.Service, opts HandlerOptions) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		svc:            svc,
		company:        opts.Company,
		maxUploadBytes: opts.MaxUploadBytes,
		applyLimiter:   opts.ApplyLimiter,
	}
}

package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/hibiken/asynq"

	"hrportal/internal/errcode"
	"hrportal/internal/metrics"
	"hrportal/internal/pdf"
	"hrportal/internal/services"
	"hrportal/internal/store"
	"hrportal/internal/tasks"
)

// PayslipTaskHandler 负责消费工资条 PDF 渲染任务。
type PayslipTaskHandler struct {
	svc       *services.Service
	renderer  pdf.Renderer
	publisher Publisher
	logger    *slog.Logger
}

// NewPayslipTaskHandler 创建任务处理器。
func NewPayslipTaskHandler(
	svc *services.Service,
	renderer pdf.Renderer,
	publisher Publisher,
	logger *slog.Logger,
) *PayslipTaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayslipTaskHandler{
		svc:       svc,
		renderer:  renderer,
		publisher: publisher,
		logger:    logger,
	}
}

// ProcessTask 实现 asynq.Handler。
func (h *PayslipTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	log := h.logger

	var payload tasks.PayslipRenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		log.Error("unmarshal task payload failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	log = log.With(
		slog.String("correlation_id", payload.CorrelationID),
		slog.String("slip_id", payload.SlipID),
		slog.String("emp_id", payload.EmpID),
	)
	log.Info("starting payslip render task")

	view, err := h.svc.PayslipView(ctx, payload.SlipID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("salary slip or employee not found, skipping task")
			return nil
		}
		log.Error("load salary slip failed", slog.Any("error", err))
		return err
	}

	defer func() {
		if retErr == nil || !isFinalAsynqAttempt(ctx) {
			return
		}
		notify := PayslipNotifyMessage{
			Status:        "error",
			SlipID:        payload.SlipID,
			EmpID:         payload.EmpID,
			CorrelationID: payload.CorrelationID,
			ErrorCode:     errcode.SystemError,
			ErrorMessage:  strings.TrimSpace(retErr.Error()),
		}
		if err := publishPayslipNotify(ctx, h.publisher, notify); err != nil {
			log.Error("publish payslip error notification failed", slog.Any("error", err))
		}
	}()

	htmlContent, err := renderPayslipHTML(view)
	if err != nil {
		log.Error("render payslip html failed", slog.Any("error", err))
		return err
	}
	pdfBytes, err := h.renderer.RenderHTML(ctx, htmlContent)
	if err != nil {
		log.Error("render payslip pdf failed", slog.Any("error", err))
		return err
	}
	if err := h.svc.AttachSlipPDF(ctx, view.SlipID, view.ObjectKey, pdfBytes); err != nil {
		log.Error("store payslip pdf failed", slog.Any("error", err))
		return err
	}
	metrics.RecordPayslipGenerated()

	notify := PayslipNotifyMessage{
		Status:        "completed",
		SlipID:        view.SlipID,
		EmpID:         view.EmpID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
		DownloadLink:  h.svc.DownloadURL(view.ObjectKey),
	}
	if payload.SendEmail {
		// 邮件失败不重试任务，否则会重复渲染；以 4004 告知调用方。
		if err := h.svc.EmailSalarySlip(ctx, view, path.Base(view.ObjectKey), pdfBytes); err != nil {
			log.Warn("email payslip failed", slog.Any("error", err))
			notify.ErrorCode = errcode.ResourceMissing
			notify.ErrorMessage = "工资条已生成，但邮件发送失败：" + err.Error()
		}
	}
	if err := publishPayslipNotify(ctx, h.publisher, notify); err != nil {
		// PDF 已就绪，通知失败只记录日志。
		log.Error("publish redis notification failed", slog.Any("error", err))
	}

	log.Info("payslip render task completed", slog.String("object_key", view.ObjectKey))
	return nil
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}

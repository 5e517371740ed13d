package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hrportal/internal/api/middleware"
	"hrportal/internal/ids"
	"hrportal/internal/payroll"
	"hrportal/internal/services"
	"hrportal/internal/store"
	"hrportal/internal/upload"
)

// Error 以 {"status":"error","message":...} 输出错误。
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"status": "error", "message": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Conflict(c *gin.Context, msg string)   { Error(c, http.StatusConflict, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// Success 输出 {"status":"success", ...}。
func Success(c *gin.Context, status int, body gin.H) {
	out := gin.H{"status": "success"}
	for k, v := range body {
		out[k] = v
	}
	c.JSON(status, out)
}

// statusFor 把业务层的哨兵错误映射为 HTTP 状态码与对外消息。
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, payroll.ErrNegativeGross):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, upload.ErrInfected):
		return http.StatusBadRequest, "malicious file detected"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrSlipPending):
		return http.StatusAccepted, "salary slip is still being generated, please retry shortly"
	case errors.Is(err, ids.ErrMalformedID):
		return http.StatusInternalServerError, "data integrity error: existing records contain a malformed id"
	case errors.Is(err, services.ErrMailerUnavailable):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, store.ErrLockTimeout):
		return http.StatusServiceUnavailable, "server is busy, please retry"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondError 记录并输出业务错误，5xx 才记 error 级别日志。
func respondError(c *gin.Context, op string, err error) {
	status, msg := statusFor(err)
	log := middleware.LoggerFromContext(c)
	if status >= http.StatusInternalServerError {
		log.Error(op+" failed", "error", err)
	} else {
		log.Info(op+" rejected", "status", status, "error", err)
	}
	Error(c, status, msg)
}

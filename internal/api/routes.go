package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hrportal/internal/config"
	"hrportal/internal/services"
)

// RegisterRoutes 注册 HR 门户的全部路由，路径与既有客户端保持一致。
// redisClient 为空时不启用投递限流与工资条 WebSocket 推送。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	svc *services.Service,
	redisClient *redis.Client,
	logger *slog.Logger,
) {
	opts := HandlerOptions{
		Company:        cfg.API.CompanyName,
		MaxUploadBytes: cfg.API.MaxUploadBytes,
	}
	if redisClient != nil {
		opts.ApplyLimiter = redisClient
	}
	h := NewHandler(svc, opts)

	router.GET("/", h.Home)
	router.GET("/job/:job_id", h.JobDetail)
	router.GET("/apply", h.ApplyForm)
	router.POST("/apply", h.Apply)
	router.POST("/post-job-form", h.PostJobForm)
	router.POST("/post-job", h.PostJob)
	router.GET("/jobs", h.ListJobs)

	router.GET("/api/applicants/:job_id", h.ListApplicants)
	router.GET("/resumes/:job_id", h.ResumeTexts)

	router.GET("/employee/:emp_id", h.GetEmployee)
	router.POST("/send-email", h.SendEmail)

	router.POST("/generate-salary-slip", h.GenerateSalarySlip)
	router.GET("/salary-slip/:emp_id", h.SalarySlipLink)
	router.GET("/download-slip/:filename", h.DownloadSlip)

	if redisClient != nil {
		wsHandler := NewWsHandler(redisClient, logger, cfg.API.AllowedOrigins)
		router.GET("/ws/payslips/:emp_id", wsHandler.HandlePayslips)
	}
}

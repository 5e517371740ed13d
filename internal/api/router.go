package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrportal/internal/api/middleware"
	"hrportal/internal/config"
	"hrportal/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎：挂载通用中间件、HTML 模板、健康检查与 Prometheus 端点。
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		cors.New(corsConfig(cfg.API.AllowedOrigins)),
	)
	router.SetHTMLTemplate(loadTemplates())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// 未配置来源白名单时允许任意来源（页面与接口本身不带凭证）。
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.CorrelationIDHeader}
	c.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	c.MaxAge = 12 * time.Hour
	return c
}

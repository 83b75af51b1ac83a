package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"jobhelper/internal/api/middleware"
	"jobhelper/internal/config"
	"jobhelper/internal/metrics"
)

// NewRouter 构建 Gin 路由引擎并挂载通用中间件与运维端点。
func NewRouter(cfg *config.Config, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.CorrelationIDMiddleware(),
		middleware.SlogLoggerMiddleware(logger),
		metrics.GinMiddleware(),
		gin.Recovery(),
	)

	// 前端运行在独立端口，Cookie 鉴权需要放行凭据。
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.API.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Correlation-ID"},
		ExposeHeaders:    []string{"X-Correlation-ID"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

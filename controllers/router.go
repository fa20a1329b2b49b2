package controllers

import (
	"net/http"

	"order-entry/logger"
	"order-entry/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 创建带监控和健康检查的 Gin 路由
func NewRouter(oc *OrderController, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.PrometheusMiddleware())
	r.Use(middlewares.RequestLogger(log))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	oc.RegisterRoutes(r)
	return r
}

package middleware

import (
	"net/http"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/gin-gonic/gin"
)

// RateLimit 基于 Sentinel 的限流中间件
// 流控规则由 main 在启动时加载
func RateLimit(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			// 被限流了
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, please retry later"})
			c.Abort()
			return
		}
		defer e.Exit() // 务必退出

		c.Next()
	}
}

package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dbfleet/internal/pkg/logger"
)

// LoggerMiddleware 日志中间件
// 按路径区分agent上报与运维API两类流量
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		cost := time.Since(start)

		logger.Info(fmt.Sprintf("%s %s %s %v %.2fs %v", c.Request.Proto, c.Request.Method, path, c.Writer.Status(), cost.Seconds(), query),
			zap.String("channel", routeChannel(path)),
			zap.String("ip", c.ClientIP()),
			zap.String("user-agent", c.Request.UserAgent()),
			zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()),
		)
	}
}

// routeChannel 流量分类
func routeChannel(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/"):
		return "operator"
	case path == "/health" || path == "/metrics" || strings.HasPrefix(path, "/swagger/"):
		return "system"
	default:
		return "agent"
	}
}

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"dbfleet/internal/pkg/config"
)

// AgentAuthMiddleware Agent接口的Basic认证
// Agent接口面向机器, 使用真实HTTP状态码而不是业务码信封
func AgentAuthMiddleware(cfg *config.AgentConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(username), []byte(cfg.User)) != 1 ||
			subtle.ConstantTimeCompare([]byte(password), []byte(cfg.Password)) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="dbfleet-agent"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware 按客户端 IP 限速，超出时交给 onLimited 处理并中止后续 handler
func RateLimitMiddleware(limiter security.RateLimiter, onLimited gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter.Allow(c.ClientIP()) {
			c.Next()
			return
		}
		onLimited(c)
		c.Abort()
	}
}

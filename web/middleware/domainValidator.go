package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"

	"github.com/gin-gonic/gin"
)

// DomainValidatorMiddleware 只放行 Host 与配置域名一致的请求
func DomainValidatorMiddleware(domain string) gin.HandlerFunc {
	want := strings.ToLower(strings.Trim(strings.TrimSpace(domain), "[]"))
	return func(c *gin.Context) {
		host := hostOnly(c.Request.Host)
		if strings.EqualFold(host, want) {
			c.Next()
			return
		}
		logger.Debugf("reject request for host %q, expected %q", c.Request.Host, domain)
		c.AbortWithStatus(http.StatusForbidden)
	}
}

// hostOnly 去掉端口和 IPv6 的方括号
func hostOnly(hostport string) string {
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		return host
	}
	return strings.Trim(hostport, "[]")
}

package middleware

import (
	"errors"
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"

	"github.com/gin-gonic/gin"
)

// RecoveryMiddleware 捕获 handler 中的 panic，记录日志后返回 500
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			// 客户端断开导致的写失败不打印堆栈
			if err, ok := rec.(error); ok && isBrokenPipe(err) {
				logger.Errorf("[PANIC RECOVER] Broken pipe on %s: %v", c.Request.URL.Path, err)
				_ = c.Error(err)
				c.Abort()
				return
			}

			if config.IsDebug() {
				logger.Errorf("[PANIC RECOVER] %s %s: %v\nStack: %s", c.Request.Method, c.Request.URL.Path, rec, debug.Stack())
			} else {
				logger.Errorf("[PANIC RECOVER] %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
			}
			c.AbortWithStatus(http.StatusInternalServerError)
		}()
		c.Next()
	}
}

func isBrokenPipe(err error) bool {
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

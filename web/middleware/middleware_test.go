package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/security"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- DomainValidator 测试 ---

func TestDomainValidatorMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		domain     string
		host       string
		wantStatus int
	}{
		{"精确匹配", "example.com", "example.com", http.StatusOK},
		{"带端口匹配", "example.com", "example.com:8080", http.StatusOK},
		{"忽略大小写", "Example.COM", "example.com", http.StatusOK},
		{"IPv4", "192.168.1.1", "192.168.1.1:443", http.StatusOK},
		{"IPv6", "::1", "[::1]:10000", http.StatusOK},
		{"IPv6 带括号配置", "[::1]", "[::1]", http.StatusOK},
		{"其它域名", "example.com", "evil.com", http.StatusForbidden},
		{"子域名", "example.com", "sub.example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(DomainValidatorMiddleware(tt.domain))
			r.GET("/test", func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			req.Host = tt.host
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// --- Recovery 测试 ---

func TestRecoveryMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/panic", func(c *gin.Context) {
		panic("intentional test panic")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/panic", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := logger.GetLogs(50, "ERROR")
	found := false
	for _, logMsg := range logs {
		if strings.Contains(logMsg, "[PANIC RECOVER]") && strings.Contains(logMsg, "intentional test panic") {
			found = true
			break
		}
	}
	assert.True(t, found, "Expected panic log not found in logger buffer. Captured logs: %v", logs)
}

func TestRecoveryMiddleware_NoPanic(t *testing.T) {
	r := gin.New()
	r.Use(RecoveryMiddleware())
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "fine")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fine", w.Body.String())
}

// --- RateLimit 测试 ---

func TestRateLimitMiddleware(t *testing.T) {
	limiter := security.NewRateLimiter(&security.RateLimitConfig{PerMinute: 1, Burst: 2})
	defer limiter.Close()

	handled := 0
	r := gin.New()
	r.POST("/lookup", RateLimitMiddleware(limiter, func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}), func(c *gin.Context) {
		handled++
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/lookup", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 2, handled)

	// 其它 IP 不受影响
	req := httptest.NewRequest("POST", "/lookup", nil)
	req.RemoteAddr = "198.51.100.1:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

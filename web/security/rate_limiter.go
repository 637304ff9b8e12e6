// Package security 提供按客户端 IP 的令牌桶限速。
package security

import (
	"sync"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"

	"golang.org/x/time/rate"
)

// RateLimiter 接口定义按 IP 的请求速率限制器
type RateLimiter interface {
	Allow(ip string) bool
	AddWhitelist(ip string)
	Close()
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterImpl 令牌桶速率限制器的实现
type rateLimiterImpl struct {
	limiters  map[string]*clientLimiter
	whitelist map[string]bool
	mutex     sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	closeChan chan struct{}
	closeOnce sync.Once
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// NewRateLimiter 创建限速器并启动过期清理
func NewRateLimiter(cfg *RateLimitConfig) RateLimiter {
	if cfg == nil {
		cfg = &RateLimitConfig{
			PerMinute: config.DefaultLookupPerMinute,
			Burst:     config.DefaultLookupBurst,
		}
	}
	rl := newRateLimiter(rate.Limit(float64(cfg.PerMinute)/60), cfg.Burst)
	go rl.cleanupLoop(10 * time.Minute)
	return rl
}

func newRateLimiter(limit rate.Limit, burst int) *rateLimiterImpl {
	return &rateLimiterImpl{
		limiters:  make(map[string]*clientLimiter),
		whitelist: make(map[string]bool),
		limit:     limit,
		burst:     burst,
		idleTTL:   config.LookupLimiterIdleTTL,
		closeChan: make(chan struct{}),
	}
}

// Allow 检查该 IP 是否还有令牌
func (rl *rateLimiterImpl) Allow(ip string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	// 白名单IP直接允许
	if rl.whitelist[ip] {
		return true
	}

	client, exists := rl.limiters[ip]
	if !exists {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rl.limit, rl.burst),
		}
		rl.limiters[ip] = client
	}
	client.lastSeen = time.Now()

	if !client.limiter.Allow() {
		logger.Warningf("请求速率限制：拒绝来自 %s 的查询", ip)
		return false
	}
	return true
}

// AddWhitelist 添加IP到白名单
func (rl *rateLimiterImpl) AddWhitelist(ip string) {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.whitelist[ip] = true
}

// cleanupExpiredLimiters 清理过期的限速器
func (rl *rateLimiterImpl) cleanupExpiredLimiters() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	threshold := time.Now().Add(-rl.idleTTL)
	for ip, client := range rl.limiters {
		if client.lastSeen.Before(threshold) {
			delete(rl.limiters, ip)
		}
	}
}

// cleanupLoop 定期清理过期限速器
func (rl *rateLimiterImpl) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupExpiredLimiters()
		case <-rl.closeChan:
			return
		}
	}
}

// Close 停止清理任务，可重复调用
func (rl *rateLimiterImpl) Close() {
	rl.closeOnce.Do(func() {
		close(rl.closeChan)
	})
}

package service

import (
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/sub"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/crypto"

	"github.com/google/wire"
)

// ServiceSet 包含所有服务及其相关的 Provider
var ServiceSet = wire.NewSet(
	NewAdminVerifier,
	NewSubscriptionFetcher,
	NewSubscriptionScraper,
	NewSettingService,
	NewLookupService,
	NewScrapeService,
)

// NewAdminVerifier 读取配置的管理密码，弱密码只记录警告
func NewAdminVerifier() (*crypto.PasswordVerifier, error) {
	password := config.GetAdminPassword()
	if isWeakAdminPassword(password) {
		logger.Warning("weak admin password detected, set web.admin_password (BSV_WEB_ADMIN_PASSWORD) before production")
	}
	return crypto.NewPasswordVerifier(password)
}

func NewSubscriptionFetcher() *sub.Fetcher {
	return sub.NewFetcher(config.GetHTTPTimeout())
}

func NewSubscriptionScraper() *sub.Scraper {
	return sub.NewScraper(config.GetHTTPTimeout())
}

func isWeakAdminPassword(password string) bool {
	value := strings.TrimSpace(password)
	if len(value) < 8 {
		return true
	}
	switch strings.ToLower(value) {
	case "password", "admin123", "12345678", "changeme":
		return true
	}
	return value == config.DefaultAdminPassword
}

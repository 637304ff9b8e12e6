package service

import (
	"context"
	"strings"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/panel"
	"github.com/Phechr2025/Bio-Shop-VPN-information/sub"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/json_util"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/qr"
)

// PanelSession 一次查询使用的已登录面板会话
type PanelSession interface {
	Login(ctx context.Context) error
	FetchInbounds(ctx context.Context) ([]panel.Inbound, error)
}

// PanelSessionFactory 根据配置创建面板会话
type PanelSessionFactory func(cfg *model.PanelConfig) (PanelSession, error)

// SubscriptionFetcher 拉取订阅内容
type SubscriptionFetcher interface {
	Fetch(ctx context.Context, subURL string) (string, []string)
}

// LookupResult 结果页展示的客户端信息
type LookupResult struct {
	ClientID string
	Email    string
	Enable   bool
	Flow     string

	TotalGB     string
	TotalGBText string
	ExpiryTime  string
	ExpiryText  string
	LimitIP     string

	HasTraffic     bool
	UsageUp        int64
	UsageDown      int64
	UsageTotal     int64
	UsageUpText    string
	UsageDownText  string
	UsageTotalText string

	InboundProtocol string
	InboundRemark   string
	Listen          string
	Port            string

	SubURL    string
	SubRaw    string
	Configs   []string
	QRDataURI string
}

// LookupService 登录面板并按 Client ID 查询客户端
type LookupService struct {
	settingService *SettingService
	newSession     PanelSessionFactory
	fetcher        SubscriptionFetcher
	location       *time.Location
}

// NewLookupService 创建 LookupService 实例，通过构造函数注入依赖
func NewLookupService(settingService *SettingService, fetcher *sub.Fetcher) *LookupService {
	return &LookupService{
		settingService: settingService,
		newSession:     defaultPanelSession,
		fetcher:        fetcher,
		location:       time.Local,
	}
}

func defaultPanelSession(cfg *model.PanelConfig) (PanelSession, error) {
	return panel.NewClient(cfg.PanelBaseURL, cfg.PanelUsername, cfg.PanelPassword, config.GetHTTPTimeout())
}

// Lookup 执行完整的查询流程：登录、获取 inbounds、匹配客户端、拉取订阅、生成二维码
func (s *LookupService) Lookup(ctx context.Context, clientID string) (*LookupResult, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, common.ErrEmptyClientID
	}

	cfg, err := s.settingService.GetPanelConfig()
	if err != nil {
		return nil, err
	}

	session, err := s.newSession(cfg)
	if err != nil {
		return nil, common.HandleError("LookupService.Lookup", err)
	}
	if err := session.Login(ctx); err != nil {
		return nil, common.HandleError("LookupService.Login", err)
	}
	inbounds, err := session.FetchInbounds(ctx)
	if err != nil {
		return nil, common.HandleError("LookupService.FetchInbounds", err)
	}

	client, inbound, traffic, ok := panel.FindClient(inbounds, clientID)
	if !ok {
		logger.Infof("client %s not found in %d inbounds", clientID, len(inbounds))
		return nil, common.ErrClientNotFound
	}

	result := s.buildResult(clientID, client, inbound, traffic)

	if cfg.SubTemplate != "" {
		result.SubURL = sub.FormatSubURL(cfg.SubTemplate, clientID, result.Email)
	}
	if result.SubURL != "" {
		result.SubRaw, result.Configs = s.fetcher.Fetch(ctx, result.SubURL)
		dataURI, err := qr.Encode(result.SubURL)
		if err != nil {
			common.IgnoreError("LookupService.QR", err)
		} else {
			result.QRDataURI = dataURI
		}
	}
	return result, nil
}

func (s *LookupService) buildResult(clientID string, client panel.Client, inbound panel.Inbound, traffic panel.TrafficStat) *LookupResult {
	result := &LookupResult{
		ClientID:        clientID,
		Email:           client.Email(),
		Enable:          true,
		Flow:            client.Flow(),
		TotalGB:         json_util.Stringify(client.TotalGB()),
		ExpiryTime:      json_util.Stringify(client.ExpiryTime()),
		LimitIP:         json_util.Stringify(client.LimitIP()),
		InboundProtocol: inbound.Protocol(),
		InboundRemark:   inbound.Remark(),
		Listen:          inbound.Listen(),
		Port:            inbound.Port(),
	}
	if enable, ok := client.Enable(); ok {
		result.Enable = enable
	}
	if total, ok := json_util.Int64(client.TotalGB()); ok && total > 0 {
		result.TotalGBText = common.FormatTraffic(total)
	}
	if expiry, ok := json_util.Int64(client.ExpiryTime()); ok {
		result.ExpiryText = common.FormatExpiry(expiry, s.location)
	}
	if traffic != nil {
		result.HasTraffic = true
		result.UsageUp = traffic.Up()
		result.UsageDown = traffic.Down()
		result.UsageTotal = traffic.Total()
		result.UsageUpText = common.FormatTraffic(result.UsageUp)
		result.UsageDownText = common.FormatTraffic(result.UsageDown)
		result.UsageTotalText = common.FormatTraffic(result.UsageTotal)
	}
	return result
}

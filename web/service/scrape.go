package service

import (
	"context"
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/sub"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
)

// PageScraper 抓取并解析订阅页面
type PageScraper interface {
	FetchAndParse(ctx context.Context, baseURL, subID string) (*sub.ParsedSubscription, error)
}

// ScrapeService 按订阅 ID 抓取订阅信息页面
type ScrapeService struct {
	settingService *SettingService
	scraper        PageScraper
}

func NewScrapeService(settingService *SettingService, scraper *sub.Scraper) *ScrapeService {
	return &ScrapeService{
		settingService: settingService,
		scraper:        scraper,
	}
}

func (s *ScrapeService) Lookup(ctx context.Context, subID string) (*sub.ParsedSubscription, error) {
	subID = strings.TrimSpace(subID)
	if subID == "" {
		return nil, common.ErrEmptySubID
	}
	cfg, err := s.settingService.GetScrapeConfig()
	if err != nil {
		return nil, err
	}
	parsed, err := s.scraper.FetchAndParse(ctx, cfg.URL, subID)
	if err != nil {
		return nil, common.HandleError("ScrapeService.Lookup", err)
	}
	return parsed, nil
}

package service

import (
	"strings"

	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/repository"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/common"
	"github.com/Phechr2025/Bio-Shop-VPN-information/util/crypto"
)

// SettingService 读写保存在数据库中的面板连接配置和订阅页地址
type SettingService struct {
	panelRepo  repository.PanelConfigRepository
	scrapeRepo repository.ScrapeConfigRepository
	verifier   *crypto.PasswordVerifier
}

// NewSettingService 创建 SettingService 实例，通过构造函数注入依赖
func NewSettingService(
	panelRepo repository.PanelConfigRepository,
	scrapeRepo repository.ScrapeConfigRepository,
	verifier *crypto.PasswordVerifier,
) *SettingService {
	return &SettingService{
		panelRepo:  panelRepo,
		scrapeRepo: scrapeRepo,
		verifier:   verifier,
	}
}

// GetPanelConfig 表为空或基础地址为空时返回 ErrConfigMissing
func (s *SettingService) GetPanelConfig() (*model.PanelConfig, error) {
	cfg, err := s.panelRepo.Find()
	if database.IsNotFound(err) {
		return nil, common.ErrConfigMissing
	}
	if err != nil {
		return nil, common.HandleError("SettingService.GetPanelConfig", err)
	}
	if !cfg.IsConfigured() {
		return nil, common.ErrConfigMissing
	}
	return cfg, nil
}

// SavePanelConfig 校验管理密码和必填项后整表替换面板配置，校验失败时不写入
func (s *SettingService) SavePanelConfig(adminPassword string, cfg *model.PanelConfig) error {
	if !s.verifier.Verify(adminPassword) {
		logger.Warning("panel config save rejected: wrong admin password")
		return common.ErrAdminPassword
	}
	return s.UpdatePanelConfig(cfg)
}

// UpdatePanelConfig 不做密码校验，命令行 setting 子命令使用
func (s *SettingService) UpdatePanelConfig(cfg *model.PanelConfig) error {
	if cfg == nil {
		return common.ErrMissingFields
	}
	row := *cfg
	row.Normalize()
	if row.PanelBaseURL == "" || row.PanelUsername == "" || row.PanelPassword == "" {
		return common.ErrMissingFields
	}
	if err := s.panelRepo.Replace(&row); err != nil {
		return common.HandleError("SettingService.UpdatePanelConfig", err)
	}
	logger.Infof("panel config updated: %s", row.PanelBaseURL)
	return nil
}

func (s *SettingService) GetScrapeConfig() (*model.ScrapeConfig, error) {
	cfg, err := s.scrapeRepo.Find()
	if database.IsNotFound(err) {
		return nil, common.ErrConfigMissing
	}
	if err != nil {
		return nil, common.HandleError("SettingService.GetScrapeConfig", err)
	}
	if !cfg.IsConfigured() {
		return nil, common.ErrConfigMissing
	}
	return cfg, nil
}

func (s *SettingService) SaveScrapeConfig(adminPassword string, baseURL string) error {
	if !s.verifier.Verify(adminPassword) {
		logger.Warning("scrape config save rejected: wrong admin password")
		return common.ErrAdminPassword
	}
	return s.UpdateScrapeConfig(baseURL)
}

func (s *SettingService) UpdateScrapeConfig(baseURL string) error {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return common.ErrMissingFields
	}
	if err := s.scrapeRepo.Replace(&model.ScrapeConfig{URL: baseURL}); err != nil {
		return common.HandleError("SettingService.UpdateScrapeConfig", err)
	}
	logger.Infof("scrape base url updated: %s", baseURL)
	return nil
}

// ViewPanelConfig 返回管理页展示用的当前配置，读取失败时返回空配置
func (s *SettingService) ViewPanelConfig() *model.PanelConfig {
	cfg, err := s.panelRepo.Find()
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("read panel config err:", err)
		}
		return &model.PanelConfig{}
	}
	return cfg
}

func (s *SettingService) ViewScrapeConfig() *model.ScrapeConfig {
	cfg, err := s.scrapeRepo.Find()
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("read scrape config err:", err)
		}
		return &model.ScrapeConfig{}
	}
	return cfg
}

package model

import "strings"

const (
	DefaultPanelBaseURL  = "http://127.0.0.1:2053"
	DefaultPanelUsername = "admin"
	DefaultPanelPassword = "password"
	DefaultSubTemplate   = "http://127.0.0.1:2096/sub/{email}"
	DefaultScrapeBaseURL = "http://127.0.0.1:2096/sub"
)

// PanelConfig 3x-ui 面板的连接信息
type PanelConfig struct {
	Id            int    `json:"id" gorm:"primaryKey;autoIncrement"`
	PanelBaseURL  string `json:"panelBaseUrl" form:"panel_base_url" gorm:"column:panel_base_url"`
	PanelUsername string `json:"panelUsername" form:"panel_username" gorm:"column:panel_username"`
	PanelPassword string `json:"panelPassword" form:"panel_password" gorm:"column:panel_password"`
	// SubTemplate 订阅地址模板，支持 {id} 和 {email}
	SubTemplate string `json:"subTemplate" form:"sub_template" gorm:"column:sub_template"`
}

func (PanelConfig) TableName() string {
	return "config"
}

// IsConfigured 基础地址为空视为未配置
func (c *PanelConfig) IsConfigured() bool {
	return c != nil && strings.TrimSpace(c.PanelBaseURL) != ""
}

// Normalize 去掉所有字段首尾空白
func (c *PanelConfig) Normalize() {
	c.PanelBaseURL = strings.TrimSpace(c.PanelBaseURL)
	c.PanelUsername = strings.TrimSpace(c.PanelUsername)
	c.PanelPassword = strings.TrimSpace(c.PanelPassword)
	c.SubTemplate = strings.TrimSpace(c.SubTemplate)
}

func DefaultPanelConfig() *PanelConfig {
	return &PanelConfig{
		PanelBaseURL:  DefaultPanelBaseURL,
		PanelUsername: DefaultPanelUsername,
		PanelPassword: DefaultPanelPassword,
		SubTemplate:   DefaultSubTemplate,
	}
}

// ScrapeConfig 订阅页面的基础地址
type ScrapeConfig struct {
	Id  int    `json:"id" gorm:"primaryKey;autoIncrement"`
	URL string `json:"url" form:"base_url" gorm:"column:url"`
}

func (ScrapeConfig) TableName() string {
	return "scrape_config"
}

func (c *ScrapeConfig) IsConfigured() bool {
	return c != nil && strings.TrimSpace(c.URL) != ""
}

func DefaultScrapeConfig() *ScrapeConfig {
	return &ScrapeConfig{URL: DefaultScrapeBaseURL}
}

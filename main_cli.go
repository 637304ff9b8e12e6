package main

import (
	"fmt"

	"github.com/Phechr2025/Bio-Shop-VPN-information/bootstrap"
	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/model"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
)

// CLI 颜色常量
const (
	Reset  = "\033[0m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
)

// initAppForCLI 初始化数据库和服务用于 CLI 命令
func initAppForCLI() (*bootstrap.App, error) {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		return nil, err
	}
	return bootstrap.InitializeApp()
}

func resetSetting() {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println("Failed to initialize database:", err)
		return
	}
	if err := database.ResetDefaults(); err != nil {
		fmt.Println("Failed to reset settings:", err)
		return
	}
	fmt.Println("Settings successfully reset")
}

// mergePanelConfig 只覆盖命令行中给出的字段
func mergePanelConfig(current *model.PanelConfig, panelURL, username, password, subTemplate string) *model.PanelConfig {
	merged := *current
	if panelURL != "" {
		merged.PanelBaseURL = panelURL
	}
	if username != "" {
		merged.PanelUsername = username
	}
	if password != "" {
		merged.PanelPassword = password
	}
	if subTemplate != "" {
		merged.SubTemplate = subTemplate
	}
	return &merged
}

func updateSetting(panelURL, username, password, subTemplate, scrapeURL string) {
	if panelURL == "" && username == "" && password == "" && subTemplate == "" && scrapeURL == "" {
		return
	}

	app, err := initAppForCLI()
	if err != nil {
		fmt.Println("Failed to initialize database:", err)
		return
	}

	if panelURL != "" || username != "" || password != "" || subTemplate != "" {
		cfg := mergePanelConfig(app.SettingService.ViewPanelConfig(), panelURL, username, password, subTemplate)
		if err := app.SettingService.UpdatePanelConfig(cfg); err != nil {
			fmt.Println(Red+"Failed to update panel settings:"+Reset, err)
		} else {
			logger.Infof("panel settings updated, base url %s", cfg.PanelBaseURL)
			fmt.Println(Green + "Panel settings updated" + Reset)
		}
	}

	if scrapeURL != "" {
		if err := app.SettingService.UpdateScrapeConfig(scrapeURL); err != nil {
			fmt.Println(Red+"Failed to update subscription page URL:"+Reset, err)
		} else {
			fmt.Println(Green + "Subscription page URL updated" + Reset)
		}
	}
}

func showSetting() {
	app, err := initAppForCLI()
	if err != nil {
		fmt.Println("Failed to initialize database:", err)
		return
	}

	panelCfg := app.SettingService.ViewPanelConfig()
	scrapeCfg := app.SettingService.ViewScrapeConfig()

	fmt.Println("")
	fmt.Println(Green + "Current settings:" + Reset)
	fmt.Println("")
	if config.GetAdminPassword() == config.DefaultAdminPassword {
		fmt.Println(Red + "------>> admin password is the default, set BSV_WEB_ADMIN_PASSWORD" + Reset)
		fmt.Println("")
	}
	fmt.Println(Green + fmt.Sprintf("port: %d", config.GetPort()) + Reset)
	fmt.Println(Green + fmt.Sprintf("panel base url: %s", panelCfg.PanelBaseURL) + Reset)
	fmt.Println(Green + fmt.Sprintf("panel username: %s", panelCfg.PanelUsername) + Reset)
	fmt.Println(Green + fmt.Sprintf("subscription template: %s", panelCfg.SubTemplate) + Reset)
	fmt.Println(Green + fmt.Sprintf("subscription page url: %s", scrapeCfg.URL) + Reset)
	fmt.Println(Yellow + "panel password is not shown" + Reset)
	fmt.Println("")
}

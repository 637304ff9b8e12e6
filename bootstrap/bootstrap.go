package bootstrap

import (
	"log"
	"os"
	"path/filepath"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database/repository"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/service"

	"github.com/joho/godotenv"
)

// App 封装应用运行时所需的所有服务实例
type App struct {
	SettingService *service.SettingService
	LookupService  *service.LookupService
	ScrapeService  *service.ScrapeService

	// Repositories
	PanelConfigRepo  repository.PanelConfigRepository
	ScrapeConfigRepo repository.ScrapeConfigRepository
}

// NewApp 创建并初始化应用实例
func NewApp(
	settingService *service.SettingService,
	lookupService *service.LookupService,
	scrapeService *service.ScrapeService,
	panelConfigRepo repository.PanelConfigRepository,
	scrapeConfigRepo repository.ScrapeConfigRepository,
) *App {
	return &App{
		SettingService: settingService,
		LookupService:  lookupService,
		ScrapeService:  scrapeService,

		PanelConfigRepo:  panelConfigRepo,
		ScrapeConfigRepo: scrapeConfigRepo,
	}
}

// InitDatabase 初始化数据库连接
func InitDatabase() error {
	return database.InitDB(config.GetDBPath())
}

// InitLogger 根据配置初始化日志系统
func InitLogger() {
	level := logger.ParseLevel(string(config.GetLogLevel()))

	logPath := ""
	if config.IsLogFileEnabled() {
		folder := config.GetLogFolder()
		if err := os.MkdirAll(folder, 0o755); err != nil {
			log.Printf("无法创建日志目录 %s: %v", folder, err)
		} else {
			logPath = filepath.Join(folder, config.GetName()+".log")
		}
	}

	logger.InitLogger(level.GoLogging(), logPath)
}

// LoadEnv 加载环境变量
func LoadEnv() {
	if err := godotenv.Load(); err == nil {
		config.RefreshEnvConfig()
	}
}

// Initialize 执行完整的应用初始化流程
func Initialize() (*App, error) {
	log.Printf("Starting %v %v", config.GetName(), config.GetVersion())

	LoadEnv()
	InitLogger()

	if err := InitDatabase(); err != nil {
		return nil, err
	}

	app, err := InitializeApp()
	if err != nil {
		return nil, err
	}
	return app, nil
}

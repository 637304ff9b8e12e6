package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug   LogLevel = "debug"
	Info    LogLevel = "info"
	Notice  LogLevel = "notice"
	Warning LogLevel = "warning"
	Error   LogLevel = "error"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := viper.GetString("app.log_level")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return viper.GetBool("app.debug")
}

// IsLogFileEnabled 是否把日志额外写入 GetLogFolder 下的文件
func IsLogFileEnabled() bool {
	return viper.GetBool("app.log_file")
}

func getBaseDir() string {
	exePath, err := os.Executable()
	if err != nil {
		return "."
	}
	exeDir := filepath.Dir(exePath)
	exeDirLower := strings.ToLower(filepath.ToSlash(exeDir))
	if strings.Contains(exeDirLower, "/appdata/local/temp/") || strings.Contains(exeDirLower, "/go-build") {
		wd, err := os.Getwd()
		if err != nil {
			return "."
		}
		return wd
	}
	return exeDir
}

func GetDBFolderPath() string {
	path := viper.GetString("paths.db_folder")
	if path != "" {
		return path
	}
	if runtime.GOOS == "windows" {
		return getBaseDir()
	}
	return "/etc/" + GetName()
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	path := viper.GetString("paths.log_folder")
	if path != "" {
		return path
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(".", "log")
	}
	return "/var/log"
}

// GetListen 返回 Web 监听地址，空字符串表示所有网卡
func GetListen() string {
	return strings.TrimSpace(viper.GetString("web.listen"))
}

func GetPort() int {
	port := viper.GetInt("web.port")
	if port <= 0 || port > 65535 {
		return DefaultWebPort
	}
	return port
}

// GetWebDomain 返回允许访问的域名，为空时不校验 Host
func GetWebDomain() string {
	return strings.TrimSpace(viper.GetString("web.domain"))
}

// GetTrustedProxies 返回可信反向代理的 IP/CIDR 列表。
// 为空时不信任任何 X-Forwarded-For / X-Real-IP，客户端 IP 取连接的对端地址。
func GetTrustedProxies() []string {
	var proxies []string
	for _, item := range viper.GetStringSlice("web.trusted_proxies") {
		for _, p := range strings.Split(item, ",") {
			if p = strings.TrimSpace(p); p != "" {
				proxies = append(proxies, p)
			}
		}
	}
	return proxies
}

// GetAdminPassword 返回 /admin 页面使用的管理密码
func GetAdminPassword() string {
	return viper.GetString("web.admin_password")
}

// GetHTTPTimeout 返回访问面板、订阅地址时每次请求的超时时间
func GetHTTPTimeout() time.Duration {
	d := viper.GetDuration("http.timeout")
	if d <= 0 {
		return DefaultHTTPTimeout
	}
	return d
}

// GetLookupRate 返回 POST /lookup 每个 IP 每分钟允许的次数和突发量
func GetLookupRate() (perMinute int, burst int) {
	perMinute = viper.GetInt("limit.lookup_per_minute")
	burst = viper.GetInt("limit.lookup_burst")
	if perMinute <= 0 {
		perMinute = DefaultLookupPerMinute
	}
	if burst <= 0 {
		burst = DefaultLookupBurst
	}
	return perMinute, burst
}

func init() {
	initStaticConfig()
}

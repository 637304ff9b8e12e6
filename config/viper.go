package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "BSV"

// initStaticConfig 初始化 Viper 静态配置管理
func initStaticConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath("/etc/" + GetName())
	viper.AddConfigPath(".")
	viper.AddConfigPath(getBaseDir())

	// 环境变量设置
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setStaticDefaults()

	// 配置文件是可选的，不存在时静默使用默认值
	_ = viper.ReadInConfig()
}

// RefreshEnvConfig 重新读取环境变量（bootstrap 加载 .env 之后调用，测试中也会用到）
func RefreshEnvConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{
		"app.debug", "app.log_level", "app.log_file",
		"paths.db_folder", "paths.log_folder",
		"web.listen", "web.port", "web.domain", "web.trusted_proxies", "web.admin_password",
		"http.timeout", "limit.lookup_per_minute", "limit.lookup_burst",
	} {
		env := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if v, ok := os.LookupEnv(env); ok {
			viper.Set(key, v)
		}
	}
}

// UsedConfigFile 返回实际读取的配置文件路径，没有则为空
func UsedConfigFile() string {
	return viper.ConfigFileUsed()
}

// setStaticDefaults 设置静态配置的默认值
func setStaticDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.log_file", false)

	viper.SetDefault("web.listen", "")
	viper.SetDefault("web.port", DefaultWebPort)
	viper.SetDefault("web.domain", "")
	viper.SetDefault("web.trusted_proxies", []string{})
	viper.SetDefault("web.admin_password", DefaultAdminPassword)

	viper.SetDefault("http.timeout", DefaultHTTPTimeout)

	viper.SetDefault("limit.lookup_per_minute", DefaultLookupPerMinute)
	viper.SetDefault("limit.lookup_burst", DefaultLookupBurst)
}

package config

import "time"

// =================================================================
// Web 相关常量
// =================================================================

const (
	// DefaultWebPort 默认监听端口
	DefaultWebPort = 10000

	// DefaultAdminPassword 默认管理密码，上线前务必通过配置修改
	DefaultAdminPassword = "1234"

	// DBCheckpointInterval 定期合并 SQLite WAL 的间隔
	DBCheckpointInterval = time.Hour

	// ShutdownTimeout 关闭 Web 服务时等待请求结束的时间
	ShutdownTimeout = 10 * time.Second
)

// =================================================================
// 外部请求相关常量
// =================================================================

const (
	// DefaultHTTPTimeout 访问面板和订阅地址的单次请求超时
	DefaultHTTPTimeout = 15 * time.Second

	// MaxResponseBodySize 读取外部响应体的上限
	MaxResponseBodySize = 8 << 20
)

// =================================================================
// 查询限速相关常量
// =================================================================

const (
	// DefaultLookupPerMinute 每个 IP 每分钟允许的查询次数
	DefaultLookupPerMinute = 20

	// DefaultLookupBurst 查询突发量
	DefaultLookupBurst = 5

	// LookupLimiterIdleTTL 超过该时长未活动的 IP 限速器会被清理
	LookupLimiterIdleTTL = time.Hour
)

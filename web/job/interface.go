package job

// Job 后台任务的统一接口
type Job interface {
	// Start 异步启动，不阻塞调用方
	Start() error
	// Stop 等待任务退出后返回
	Stop() error
	Name() string
}

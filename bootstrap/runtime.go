package bootstrap

import (
	"context"
	"sync"

	"github.com/Phechr2025/Bio-Shop-VPN-information/config"
	"github.com/Phechr2025/Bio-Shop-VPN-information/database"
	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web"
	"github.com/Phechr2025/Bio-Shop-VPN-information/web/job"
)

// webComponent 把 web.Server 接入 LifecycleManager
type webComponent struct {
	mu     sync.Mutex
	server *web.Server
	status Status
}

func (w *webComponent) Name() string {
	return "web(" + string(w.server.Variant()) + ")"
}

func (w *webComponent) Start(ctx context.Context) error {
	w.setStatus(StatusStarting)
	if err := w.server.Start(); err != nil {
		w.setStatus(StatusStopped)
		return err
	}
	w.setStatus(StatusRunning)
	return nil
}

func (w *webComponent) Stop(ctx context.Context) error {
	w.setStatus(StatusStopping)
	err := w.server.Stop()
	w.setStatus(StatusStopped)
	return err
}

func (w *webComponent) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *webComponent) setStatus(s Status) {
	w.mu.Lock()
	w.status = s
	w.mu.Unlock()
}

// jobsComponent 把后台任务管理器接入 LifecycleManager
type jobsComponent struct {
	mu      sync.Mutex
	manager *job.Manager
	status  Status
}

func (j *jobsComponent) Name() string {
	return "jobs"
}

func (j *jobsComponent) Start(ctx context.Context) error {
	j.manager.StartAll()
	j.mu.Lock()
	j.status = StatusRunning
	j.mu.Unlock()
	return nil
}

func (j *jobsComponent) Stop(ctx context.Context) error {
	j.manager.StopAll()
	j.mu.Lock()
	j.status = StatusStopped
	j.mu.Unlock()
	return nil
}

func (j *jobsComponent) Status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func newJobManager() *job.Manager {
	m := job.NewManager()
	m.Register(job.NewCheckpointJob(config.DBCheckpointInterval, database.Checkpoint))
	return m
}

// Runtime 封装应用运行时状态
type Runtime struct {
	App       *App
	Variant   web.Variant
	WebServer *web.Server

	mu        sync.Mutex
	lifecycle *LifecycleManager
}

// NewRuntime 创建运行时实例
func NewRuntime(app *App, variant web.Variant) *Runtime {
	return &Runtime{
		App:     app,
		Variant: variant,
	}
}

// StartWebServer 启动 Web 服务器
func (r *Runtime) StartWebServer() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked()
}

func (r *Runtime) startLocked() error {
	r.WebServer = web.NewServer(
		r.Variant,
		r.App.SettingService,
		r.App.LookupService,
		r.App.ScrapeService,
	)
	r.lifecycle = NewLifecycleManager()
	r.lifecycle.Register(&jobsComponent{manager: newJobManager()})
	r.lifecycle.Register(&webComponent{server: r.WebServer})
	return r.lifecycle.StartAll(context.Background())
}

// StopAll 停止所有服务
func (r *Runtime) StopAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Runtime) stopLocked() {
	if r.lifecycle == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	r.lifecycle.StopAll(ctx)
}

// Restart 重新读取环境变量后重启 Web 服务（用于 SIGHUP 信号处理）
func (r *Runtime) Restart() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stopLocked()
	config.RefreshEnvConfig()
	if err := r.startLocked(); err != nil {
		return err
	}
	logger.Info("Web server restarted successfully.")
	return nil
}

// Statuses 返回已注册组件的状态
func (r *Runtime) Statuses() map[string]Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lifecycle == nil {
		return map[string]Status{}
	}
	return r.lifecycle.Statuses()
}

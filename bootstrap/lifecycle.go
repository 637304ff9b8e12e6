package bootstrap

import (
	"context"
	"sync"

	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
)

type Status int

const (
	StatusStopped Status = iota
	StatusStarting
	StatusRunning
	StatusStopping
)

func (s Status) String() string {
	switch s {
	case StatusStarting:
		return "starting"
	case StatusRunning:
		return "running"
	case StatusStopping:
		return "stopping"
	default:
		return "stopped"
	}
}

type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Status() Status
}

// LifecycleManager 按注册顺序启动组件，逆序停止
type LifecycleManager struct {
	mu         sync.Mutex
	components []Component
	started    int
}

func NewLifecycleManager() *LifecycleManager {
	return &LifecycleManager{
		components: make([]Component, 0),
	}
}

func (m *LifecycleManager) Register(c Component) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, c)
	logger.Infof("[Lifecycle] Registered component: %s", c.Name())
}

// StartAll 任一组件启动失败时，已启动的组件会被逆序停止
func (m *LifecycleManager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, c := range m.components {
		logger.Infof("[Lifecycle] Starting component: %s", c.Name())
		if err := c.Start(ctx); err != nil {
			logger.Errorf("[Lifecycle] Failed to start component %s: %v", c.Name(), err)
			m.started = i
			m.stopStarted(ctx)
			return err
		}
	}
	m.started = len(m.components)
	return nil
}

func (m *LifecycleManager) StopAll(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopStarted(ctx)
}

func (m *LifecycleManager) stopStarted(ctx context.Context) {
	for i := m.started - 1; i >= 0; i-- {
		c := m.components[i]
		logger.Infof("[Lifecycle] Stopping component: %s", c.Name())

		stopDone := make(chan error, 1)
		go func() {
			stopDone <- c.Stop(ctx)
		}()

		select {
		case err := <-stopDone:
			if err != nil {
				logger.Errorf("[Lifecycle] Error stopping component %s: %v", c.Name(), err)
			}
		case <-ctx.Done():
			logger.Errorf("[Lifecycle] Timeout stopping component %s", c.Name())
		}
	}
	m.started = 0
}

// Statuses 返回各组件当前状态，键为组件名
func (m *LifecycleManager) Statuses() map[string]Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]Status, len(m.components))
	for _, c := range m.components {
		out[c.Name()] = c.Status()
	}
	return out
}

package job

import (
	"sync"
	"time"

	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"

	cron "github.com/robfig/cron/v3"
)

// CheckpointJob 定期把 SQLite WAL 合并回主库文件
type CheckpointJob struct {
	interval   time.Duration
	checkpoint func() error

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCheckpointJob interval 小于一秒时按一秒执行
func NewCheckpointJob(interval time.Duration, checkpoint func() error) *CheckpointJob {
	return &CheckpointJob{
		interval:   interval,
		checkpoint: checkpoint,
	}
}

func (j *CheckpointJob) Name() string {
	return "CheckpointJob"
}

func (j *CheckpointJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(cron.Every(j.interval), j)
	c.Start()
	j.cron = c
	return nil
}

// Stop 等待正在执行的任务结束，退出前再做一次 checkpoint
func (j *CheckpointJob) Stop() error {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	j.Run()
	return nil
}

// Run 实现 cron.Job
func (j *CheckpointJob) Run() {
	if err := j.checkpoint(); err != nil {
		logger.Warning("database checkpoint failed:", err)
	}
}

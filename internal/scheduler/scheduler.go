package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler 周期任务调度的抽象：按固定 cron 表达式回调注册的任务。
// 后台组件（过期清理、限流桶回收）只依赖这个接口，不关心底层计时器。
type Scheduler interface {
	Schedule(spec string, name string, job func()) error
	Start()
	Stop()
}

// CronScheduler 基于 robfig/cron 的实现。同一个任务通过
// SkipIfStillRunning 串行化：上一轮没跑完时跳过本轮触发。
type CronScheduler struct {
	cron *cron.Cron
}

var _ Scheduler = (*CronScheduler)(nil)

func NewCronScheduler() *CronScheduler {
	return &CronScheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
		)),
	}
}

func (s *CronScheduler) Schedule(spec string, name string, job func()) error {
	wrapped := cron.NewChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	).Then(cron.FuncJob(job))

	_, err := s.cron.AddJob(spec, wrapped)
	if err != nil {
		return err
	}
	zap.L().Info("Scheduled background job",
		zap.String("job", name),
		zap.String("spec", spec))
	return nil
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

func (s *CronScheduler) Stop() {
	// Stop 只停止触发新任务，已在执行的任务自行结束
	s.cron.Stop()
}

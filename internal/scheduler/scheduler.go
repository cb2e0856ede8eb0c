package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"dbfleet/internal/core/ingest"
	"dbfleet/internal/pkg/config"
)

// Scheduler 维护任务调度器
// 三个任务: 当前主机老化归档 / 历史快照清理 / 数据新鲜度检查
type Scheduler struct {
	cron          *cron.Cron
	logger        *zap.Logger
	maintenance   *ingest.Maintenance
	cronSchedules map[string]cron.EntryID // 存储任务ID，便于管理
}

// NewScheduler 创建调度器
func NewScheduler(store ingest.Store, sink ingest.AlertSink, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	// 同一任务未结束时跳过下一次触发
	c := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)

	return &Scheduler{
		cron:          c,
		logger:        logger,
		maintenance:   ingest.NewMaintenance(store, sink),
		cronSchedules: make(map[string]cron.EntryID),
	}
}

// Start 启动调度器
func (s *Scheduler) Start(cfg *config.Config) error {
	log := s.logger.Sugar()

	log.Info("启动定时任务调度器...")

	currentMaxAge := time.Duration(cfg.Cleaning.CurrentHourRate) * time.Hour
	historyRetention := time.Duration(cfg.Cleaning.HistoricalHourRate) * time.Hour
	freshnessThreshold := time.Duration(cfg.Freshness.ThresholdDays) * 24 * time.Hour

	jobs := []struct {
		name string
		cron string
		run  func() error
	}{
		{
			name: "age_current_hosts",
			cron: cfg.Cleaning.CurrentCron,
			run: func() error {
				aged, err := s.maintenance.AgeCurrentHosts(context.Background(), currentMaxAge)
				if err != nil {
					return err
				}
				log.Infof("当前主机老化归档完成: aged=%d", aged)
				return nil
			},
		},
		{
			name: "purge_history",
			cron: cfg.Cleaning.HistoricalCron,
			run: func() error {
				purged, err := s.maintenance.PurgeHistory(context.Background(), historyRetention)
				if err != nil {
					return err
				}
				log.Infof("历史快照清理完成: purged=%d", purged)
				return nil
			},
		},
		{
			name: "freshness_check",
			cron: cfg.Freshness.Cron,
			run: func() error {
				created, err := s.maintenance.FreshnessCheck(context.Background(), freshnessThreshold)
				if err != nil {
					return err
				}
				log.Infof("数据新鲜度检查完成: alerts=%d", created)
				return nil
			},
		},
	}

	for _, job := range jobs {
		job := job
		entryID, err := s.cron.AddFunc(job.cron, func() {
			log.Infof("执行定时任务: %s", job.name)
			if err := job.run(); err != nil {
				log.Errorf("定时任务 %s 执行失败: %v", job.name, err)
			}
		})
		if err != nil {
			log.Errorf("注册定时任务 %s (%s) 失败: %v", job.name, job.cron, err)
			return err
		}
		s.cronSchedules[job.name] = entryID
		log.Infof("定时任务已注册: %s cron=%s entry_id=%d", job.name, job.cron, entryID)
	}

	// 启动 cron
	s.cron.Start()
	log.Info("定时任务调度器启动成功")

	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

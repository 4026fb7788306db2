package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"go-satire/internal/model"
)

// ConfigStore 配置读取协作方
type ConfigStore interface {
	ListActiveTenantConfigs() ([]model.TenantConfig, error)
	GetTenantConfig(id uint) (*model.TenantConfig, error)
}

// CycleRunner 每次tick执行的投稿周期
type CycleRunner interface {
	RunCycle(ctx context.Context, tenant *model.TenantConfig)
}

// Scheduler 进程级注册表:每个激活租户恰好持有一个定时器
// 注册表是唯一的共享可变结构,所有读写都在锁内完成
type Scheduler struct {
	mu      sync.Mutex
	cron    *cron.Cron
	store   ConfigStore
	runner  CycleRunner
	entries map[uint]cron.EntryID
}

func NewScheduler(store ConfigStore, runner CycleRunner) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		store:   store,
		runner:  runner,
		entries: make(map[uint]cron.EntryID),
	}
}

// Start 为所有激活配置建立定时器并启动调度
// 单个租户注册失败只记日志,不影响其他租户
func (s *Scheduler) Start() error {
	log.Println("[Scheduler] Starting scheduler system...")

	configs, err := s.store.ListActiveTenantConfigs()
	if err != nil {
		return fmt.Errorf("load active configs: %w", err)
	}
	log.Printf("[Scheduler] Found %d active configurations", len(configs))

	for i := range configs {
		config := configs[i]
		if err := s.register(&config); err != nil {
			log.Printf("[Scheduler] Failed to create scheduler for config %d: %v", config.ID, err)
		}
	}

	s.cron.Start()
	log.Println("[Scheduler] Scheduler system started")
	return nil
}

// Upsert 重新读取配置并替换该租户的定时器
// 配置修改只通过这里生效,注册表不会自动刷新
func (s *Scheduler) Upsert(configID uint) error {
	log.Printf("[Scheduler] Updating scheduler for config %d...", configID)

	config, err := s.store.GetTenantConfig(configID)
	if err != nil {
		return fmt.Errorf("load config %d: %w", configID, err)
	}
	if config == nil {
		log.Printf("[Scheduler] Config %d not found", configID)
		return nil
	}

	// 未激活则摘除现有定时器
	if !config.IsActive {
		s.Stop(configID)
		return nil
	}

	if err := s.register(config); err != nil {
		log.Printf("[Scheduler] Failed to create scheduler for config %d: %v", configID, err)
		return nil
	}

	log.Printf("[Scheduler] Scheduler updated for config %d", configID)
	return nil
}

// register 注册新定时器,已有同租户定时器时先摘除(幂等)
func (s *Scheduler) register(config *model.TenantConfig) error {
	trigger, err := DeriveTrigger(config)
	if err != nil {
		return err
	}

	log.Printf("[Scheduler] Creating scheduler for config %d: interval=%dmin, hours=%d-%d",
		config.ID, config.IntervalMinutes(), config.StartHour(), config.EndHour())

	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[config.ID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, config.ID)
	}

	// 每次注册拿到新的配置快照和新的单飞标志
	snapshot := *config
	var inFlight atomic.Bool
	entryID := s.cron.Schedule(trigger, cron.FuncJob(func() {
		if !inFlight.CompareAndSwap(false, true) {
			log.Printf("[Scheduler] Previous cycle for config %d still running, skipping fire", snapshot.ID)
			return
		}
		defer inFlight.Store(false)

		log.Printf("[Scheduler] Running automated posting cycle for config %d...", snapshot.ID)
		s.runner.RunCycle(context.Background(), &snapshot)
	}))

	s.entries[config.ID] = entryID
	log.Printf("[Scheduler] Scheduler created for config %d", config.ID)
	return nil
}

// Stop 摘除指定租户的定时器,不存在时为空操作
// 只阻止后续触发,不打断已在执行的周期
func (s *Scheduler) Stop(configID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entryID, ok := s.entries[configID]
	if !ok {
		log.Printf("[Scheduler] No scheduler found for config %d", configID)
		return
	}

	s.cron.Remove(entryID)
	delete(s.entries, configID)
	log.Printf("[Scheduler] Scheduler stopped for config %d", configID)
}

// StopAll 摘除全部定时器并清空注册表
func (s *Scheduler) StopAll() {
	log.Println("[Scheduler] Stopping all schedulers...")

	s.mu.Lock()
	for configID, entryID := range s.entries {
		s.cron.Remove(entryID)
		log.Printf("[Scheduler] Stopped scheduler for config %d", configID)
	}
	s.entries = make(map[uint]cron.EntryID)
	s.mu.Unlock()

	s.cron.Stop()
	log.Println("[Scheduler] All schedulers stopped")
}

// IsRunning 注册表非空时为真
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries) > 0
}

// EntryCount 当前注册的定时器数
func (s *Scheduler) EntryCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// TriggerManualCycle 手动对所有激活配置各跑一轮(用于调试)
func (s *Scheduler) TriggerManualCycle(ctx context.Context) error {
	log.Println("[Scheduler] Manual cycle triggered")

	configs, err := s.store.ListActiveTenantConfigs()
	if err != nil {
		return fmt.Errorf("load active configs: %w", err)
	}

	for i := range configs {
		s.runner.RunCycle(ctx, &configs[i])
	}
	return nil
}

package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/store"
	domainsync "github.com/shopsync/backend/internal/domain/sync"
)

// TenantSyncer runs one sync for one tenant. The application sync
// service implements it.
type TenantSyncer interface {
	SyncTenant(ctx context.Context, tenant *store.Tenant, trigger domainsync.RunTrigger) (*domainsync.Run, error)
}

// FleetScheduler triggers periodic sync runs across the active tenant
// fleet. Each tick lists active tenants and dispatches one run per
// tenant in its own goroutine; the tick loop never waits for runs.
type FleetScheduler struct {
	tenants  store.TenantRepository
	syncer   TenantSyncer
	interval time.Duration
	logger   *zap.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// NewFleetScheduler creates a fleet scheduler
func NewFleetScheduler(tenants store.TenantRepository, syncer TenantSyncer, interval time.Duration, logger *zap.Logger) *FleetScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &FleetScheduler{
		tenants:  tenants,
		syncer:   syncer,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
}

// Start begins the tick loop. It is safe to call Start once; further
// calls while running are errors.
func (s *FleetScheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("scheduler: already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.isRunning = true

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("fleet scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop halts the tick loop and waits for it to exit. In-flight tenant
// runs are not cancelled; they finish on their own.
func (s *FleetScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("fleet scheduler stopped")
}

func (s *FleetScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick dispatches one run per eligible tenant. A listing failure
// skips the whole tick; the next tick retries.
func (s *FleetScheduler) tick(ctx context.Context) {
	tenants, err := s.tenants.FindActive(ctx)
	if err != nil {
		s.logger.Error("failed to list active tenants, skipping tick", zap.Error(err))
		return
	}

	dispatched := 0
	for _, tenant := range tenants {
		if !tenant.CanSync() {
			continue
		}
		dispatched++
		go s.dispatch(tenant)
	}

	s.logger.Info("tick dispatched",
		zap.Int("active_tenants", len(tenants)),
		zap.Int("dispatched", dispatched))
}

func (s *FleetScheduler) dispatch(tenant *store.Tenant) {
	run, err := s.syncer.SyncTenant(context.Background(), tenant, domainsync.TriggerScheduled)
	if err != nil {
		if errors.Is(err, domainsync.ErrRunInFlight) {
			s.logger.Debug("run already in flight, skipping",
				zap.String("tenant", tenant.Code))
			return
		}
		s.logger.Error("scheduled sync failed",
			zap.String("tenant", tenant.Code),
			zap.Error(err))
		return
	}
	s.logger.Info("scheduled sync finished",
		zap.String("tenant", tenant.Code),
		zap.String("outcome", string(run.Outcome)),
		zap.Duration("duration", run.Duration()))
}

// TriggerNow runs one immediate tick, used by tests and startup sync
func (s *FleetScheduler) TriggerNow(ctx context.Context) {
	s.tick(ctx)
}

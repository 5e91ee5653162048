package sync

import (
	"context"
	"errors"
	stdsync "sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/domain/sync"
)

// Service orchestrates full sync runs. Per tenant it walks the kinds
// in a fixed order, paginating each to exhaustion, normalizing and
// upserting every record. At most one run per tenant executes at a
// time; runs for distinct tenants are independent.
type Service struct {
	tenants    store.TenantRepository
	client     sync.PlatformClient
	upserts    sync.UpsertStore
	runs       sync.RunRepository
	normalizer *sync.Normalizer
	logger     *zap.Logger

	mu       stdsync.Mutex
	inFlight map[uuid.UUID]struct{}
}

// NewService creates a sync orchestrator
func NewService(
	tenants store.TenantRepository,
	client sync.PlatformClient,
	upserts sync.UpsertStore,
	runs sync.RunRepository,
	logger *zap.Logger,
) *Service {
	return &Service{
		tenants:    tenants,
		client:     client,
		upserts:    upserts,
		runs:       runs,
		normalizer: sync.NewNormalizer(),
		logger:     logger.Named("sync"),
		inFlight:   make(map[uuid.UUID]struct{}),
	}
}

// DispatchTenant validates the tenant and reserves its single-flight
// slot synchronously, then runs the sync in the background. It is the
// manual-trigger entry point: the caller learns about a nonexistent
// tenant, an ineligible tenant, or an in-flight run before any
// goroutine is spawned.
func (s *Service) DispatchTenant(ctx context.Context, tenantID uuid.UUID, trigger sync.RunTrigger) error {
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.CanSync() {
		return sync.ErrTenantNotSyncable
	}
	if !s.acquire(tenant.ID) {
		return sync.ErrRunInFlight
	}

	go func() {
		defer s.release(tenant.ID)
		if _, err := s.execute(context.Background(), tenant, trigger); err != nil {
			s.logger.Error("dispatched sync failed",
				zap.String("tenant", tenant.Code),
				zap.Error(err))
		}
	}()
	return nil
}

// SyncTenant runs one full sync for the tenant. Returns
// sync.ErrRunInFlight when a run for the tenant is already executing
// and sync.ErrTenantNotSyncable when the tenant is ineligible.
func (s *Service) SyncTenant(ctx context.Context, tenant *store.Tenant, trigger sync.RunTrigger) (*sync.Run, error) {
	if !tenant.CanSync() {
		return nil, sync.ErrTenantNotSyncable
	}
	if !s.acquire(tenant.ID) {
		return nil, sync.ErrRunInFlight
	}
	defer s.release(tenant.ID)

	return s.execute(ctx, tenant, trigger)
}

// execute runs the sync body. The caller holds the tenant's
// single-flight slot.
func (s *Service) execute(ctx context.Context, tenant *store.Tenant, trigger sync.RunTrigger) (*sync.Run, error) {
	run := sync.NewRun(tenant.ID, trigger)
	s.logger.Info("sync run started",
		zap.String("tenant", tenant.Code),
		zap.String("trigger", string(trigger)))

	for _, kind := range sync.SyncOrder {
		if err := s.syncKind(ctx, tenant, kind, run); err != nil {
			if errors.Is(err, sync.ErrAuthFailed) {
				run.FailAuth(err)
				s.logger.Warn("sync run aborted on auth failure",
					zap.String("tenant", tenant.Code),
					zap.String("kind", kind.String()))
				break
			}
			return nil, err
		}
	}
	run.Finish()

	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.Error("failed to persist run report",
			zap.String("tenant", tenant.Code),
			zap.Error(err))
	}

	s.logger.Info("sync run finished",
		zap.String("tenant", tenant.Code),
		zap.String("outcome", string(run.Outcome)),
		zap.Duration("duration", run.Duration()))
	return run, nil
}

// syncKind paginates one kind to exhaustion. A page failure after
// retry exhaustion abandons the kind's remainder and downgrades the
// run; committed pages stay committed. Auth failures propagate.
func (s *Service) syncKind(ctx context.Context, tenant *store.Tenant, kind sync.EntityKind, run *sync.Run) error {
	report := run.Report(kind)
	cursor := ""

	for {
		page, err := s.client.FetchPage(ctx, tenant, kind, cursor)
		if err != nil {
			if errors.Is(err, sync.ErrAuthFailed) {
				return err
			}
			report.PagesFailed++
			s.logger.Warn("abandoning kind after page failure",
				zap.String("tenant", tenant.Code),
				zap.String("kind", kind.String()),
				zap.Error(err))
			return nil
		}

		for _, raw := range page.Records {
			report.Fetched++
			if err := s.applyRecord(ctx, tenant.ID, kind, raw, report); err != nil {
				return err
			}
		}

		if page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// applyRecord normalizes and upserts one record. Normalization
// failures skip the record and count it; store failures are fatal to
// the run since they indicate a database problem, not bad data.
func (s *Service) applyRecord(ctx context.Context, tenantID uuid.UUID, kind sync.EntityKind, raw sync.RawRecord, report *sync.KindReport) error {
	var (
		res sync.UpsertResult
		err error
	)
	switch kind {
	case sync.KindCustomers:
		var c sync.CanonicalCustomer
		if c, err = s.normalizer.NormalizeCustomer(raw); err == nil {
			res, err = s.upserts.UpsertCustomer(ctx, tenantID, c)
		}
	case sync.KindProducts:
		var p sync.CanonicalProduct
		if p, err = s.normalizer.NormalizeProduct(raw); err == nil {
			res, err = s.upserts.UpsertProduct(ctx, tenantID, p)
		}
	case sync.KindOrders:
		var o sync.CanonicalOrder
		if o, err = s.normalizer.NormalizeOrder(raw); err == nil {
			res, err = s.upserts.UpsertOrder(ctx, tenantID, o)
		}
	}

	var nerr *sync.NormalizationError
	if errors.As(err, &nerr) {
		report.Skipped++
		s.logger.Debug("skipping record", zap.String("reason", nerr.Reason))
		return nil
	}
	if err != nil {
		return err
	}

	report.Upserted++
	if res.Inserted {
		report.Inserted++
	}
	return nil
}

// RunHistory returns persisted run reports for a tenant
func (s *Service) RunHistory(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*sync.Run, int64, error) {
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, 0, err
	}
	return s.runs.ListByTenant(ctx, tenantID, filter)
}

func (s *Service) acquire(tenantID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[tenantID]; busy {
		return false
	}
	s.inFlight[tenantID] = struct{}{}
	return true
}

func (s *Service) release(tenantID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, tenantID)
}

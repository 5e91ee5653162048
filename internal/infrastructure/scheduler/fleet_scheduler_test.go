package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	domainsync "github.com/shopsync/backend/internal/domain/sync"
)

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) Save(ctx context.Context, tenant *store.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) FindByID(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindByCode(ctx context.Context, code string) (*store.Tenant, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindByStoreDomain(ctx context.Context, storeDomain string) (*store.Tenant, error) {
	args := m.Called(ctx, storeDomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Tenant), args.Error(1)
}

func (m *mockTenantRepo) FindActive(ctx context.Context) ([]*store.Tenant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*store.Tenant), args.Error(1)
}

func (m *mockTenantRepo) List(ctx context.Context, filter shared.Filter) ([]*store.Tenant, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*store.Tenant), args.Get(1).(int64), args.Error(2)
}

func (m *mockTenantRepo) Update(ctx context.Context, tenant *store.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

type recordingSyncer struct {
	mu      sync.Mutex
	synced  []string
	done    chan struct{}
	onceErr error
}

func (r *recordingSyncer) SyncTenant(ctx context.Context, tenant *store.Tenant, trigger domainsync.RunTrigger) (*domainsync.Run, error) {
	r.mu.Lock()
	r.synced = append(r.synced, tenant.Code)
	r.mu.Unlock()
	if r.done != nil {
		r.done <- struct{}{}
	}
	if r.onceErr != nil {
		return nil, r.onceErr
	}
	run := domainsync.NewRun(tenant.ID, trigger)
	run.Finish()
	return run, nil
}

func (r *recordingSyncer) codes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.synced))
	copy(out, r.synced)
	return out
}

func TestFleetSchedulerTick(t *testing.T) {
	t.Run("dispatches one run per eligible tenant", func(t *testing.T) {
		repo := new(mockTenantRepo)
		active := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_a")
		tokenless := store.NewTenant("none", "No Token", "none.myshopify.com", "")
		repo.On("FindActive", mock.Anything).Return([]*store.Tenant{active, tokenless}, nil)

		syncer := &recordingSyncer{done: make(chan struct{}, 2)}
		s := NewFleetScheduler(repo, syncer, time.Hour, zap.NewNop())

		s.TriggerNow(context.Background())

		select {
		case <-syncer.done:
		case <-time.After(time.Second):
			t.Fatal("dispatch did not run")
		}

		assert.Equal(t, []string{"acme"}, syncer.codes())
		repo.AssertExpectations(t)
	})

	t.Run("listing failure skips the tick", func(t *testing.T) {
		repo := new(mockTenantRepo)
		repo.On("FindActive", mock.Anything).Return(nil, errors.New("db down"))

		syncer := &recordingSyncer{}
		s := NewFleetScheduler(repo, syncer, time.Hour, zap.NewNop())

		s.TriggerNow(context.Background())
		assert.Empty(t, syncer.codes())
	})

	t.Run("in-flight runs are tolerated", func(t *testing.T) {
		repo := new(mockTenantRepo)
		tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_a")
		repo.On("FindActive", mock.Anything).Return([]*store.Tenant{tenant}, nil)

		syncer := &recordingSyncer{done: make(chan struct{}, 1), onceErr: domainsync.ErrRunInFlight}
		s := NewFleetScheduler(repo, syncer, time.Hour, zap.NewNop())

		s.TriggerNow(context.Background())
		select {
		case <-syncer.done:
		case <-time.After(time.Second):
			t.Fatal("dispatch did not run")
		}
	})
}

func TestFleetSchedulerLifecycle(t *testing.T) {
	repo := new(mockTenantRepo)
	repo.On("FindActive", mock.Anything).Return([]*store.Tenant{}, nil).Maybe()

	s := NewFleetScheduler(repo, &recordingSyncer{}, 10*time.Millisecond, zap.NewNop())

	require.NoError(t, s.Start())
	assert.Error(t, s.Start())

	time.Sleep(30 * time.Millisecond)
	s.Stop()
	// Stop is idempotent
	s.Stop()
}

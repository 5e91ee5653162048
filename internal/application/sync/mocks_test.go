package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/domain/sync"
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

type mockPlatformClient struct {
	mock.Mock
}

func (m *mockPlatformClient) FetchPage(ctx context.Context, tenant *store.Tenant, kind sync.EntityKind, cursor string) (sync.Page, error) {
	args := m.Called(ctx, tenant, kind, cursor)
	return args.Get(0).(sync.Page), args.Error(1)
}

type mockUpsertStore struct {
	mock.Mock
}

func (m *mockUpsertStore) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, c sync.CanonicalCustomer) (sync.UpsertResult, error) {
	args := m.Called(ctx, tenantID, c)
	return args.Get(0).(sync.UpsertResult), args.Error(1)
}

func (m *mockUpsertStore) UpsertProduct(ctx context.Context, tenantID uuid.UUID, p sync.CanonicalProduct) (sync.UpsertResult, error) {
	args := m.Called(ctx, tenantID, p)
	return args.Get(0).(sync.UpsertResult), args.Error(1)
}

func (m *mockUpsertStore) UpsertOrder(ctx context.Context, tenantID uuid.UUID, o sync.CanonicalOrder) (sync.UpsertResult, error) {
	args := m.Called(ctx, tenantID, o)
	return args.Get(0).(sync.UpsertResult), args.Error(1)
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) Save(ctx context.Context, run *sync.Run) error {
	return m.Called(ctx, run).Error(0)
}

func (m *mockRunRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*sync.Run, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*sync.Run), args.Get(1).(int64), args.Error(2)
}

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, id, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
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

func TestTenantServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("onboards a fresh tenant", func(t *testing.T) {
		repo := new(mockTenantRepo)
		repo.On("FindByCode", mock.Anything, "acme").Return(nil, shared.ErrNotFound)
		repo.On("FindByStoreDomain", mock.Anything, "acme.myshopify.com").Return(nil, shared.ErrNotFound)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(tn *store.Tenant) bool {
			return tn.Code == "acme" && tn.Active && tn.WebhookSecret == "whsec_x"
		})).Return(nil)

		svc := NewTenantService(repo, zap.NewNop())
		tenant, err := svc.Create(ctx, CreateTenantInput{
			Code:          "acme",
			Name:          "Acme Outfitters",
			StoreDomain:   "acme.myshopify.com",
			AccessToken:   "shpat_x",
			WebhookSecret: "whsec_x",
		})
		require.NoError(t, err)
		assert.True(t, tenant.CanSync())
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate code", func(t *testing.T) {
		existing := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")
		repo := new(mockTenantRepo)
		repo.On("FindByCode", mock.Anything, "acme").Return(existing, nil)

		svc := NewTenantService(repo, zap.NewNop())
		_, err := svc.Create(ctx, CreateTenantInput{Code: "acme", StoreDomain: "other.myshopify.com"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc := NewTenantService(new(mockTenantRepo), zap.NewNop())
		_, err := svc.Create(ctx, CreateTenantInput{Name: "No Code"})
		var derr *shared.DomainError
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, "INVALID_INPUT", derr.Code)
	})
}

func TestTenantServiceActivation(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate persists the flag", func(t *testing.T) {
		tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")
		repo := new(mockTenantRepo)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(tn *store.Tenant) bool {
			return !tn.Active
		})).Return(nil)

		svc := NewTenantService(repo, zap.NewNop())
		updated, err := svc.Deactivate(ctx, tenant.ID)
		require.NoError(t, err)
		assert.False(t, updated.Active)
		repo.AssertExpectations(t)
	})

	t.Run("activate of an active tenant is a no-op", func(t *testing.T) {
		tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")
		repo := new(mockTenantRepo)
		repo.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

		svc := NewTenantService(repo, zap.NewNop())
		updated, err := svc.Activate(ctx, tenant.ID)
		require.NoError(t, err)
		assert.True(t, updated.Active)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

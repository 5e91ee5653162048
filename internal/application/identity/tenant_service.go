package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
)

// CreateTenantInput holds the fields for onboarding a tenant
type CreateTenantInput struct {
	Code          string
	Name          string
	StoreDomain   string
	AccessToken   string
	WebhookSecret string
}

// TenantService handles tenant administration
type TenantService struct {
	tenants store.TenantRepository
	logger  *zap.Logger
}

// NewTenantService creates a tenant service
func NewTenantService(tenants store.TenantRepository, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenants: tenants,
		logger:  logger.Named("identity"),
	}
}

// Create onboards a new tenant
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (*store.Tenant, error) {
	if input.Code == "" || input.StoreDomain == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Tenant code and store domain are required")
	}
	if _, err := s.tenants.FindByCode(ctx, input.Code); err == nil {
		return nil, shared.ErrAlreadyExists
	}
	if _, err := s.tenants.FindByStoreDomain(ctx, input.StoreDomain); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Store domain is already registered")
	}

	tenant := store.NewTenant(input.Code, input.Name, input.StoreDomain, input.AccessToken)
	tenant.WebhookSecret = input.WebhookSecret

	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant onboarded",
		zap.String("code", tenant.Code),
		zap.String("store_domain", tenant.StoreDomain))
	return tenant, nil
}

// Get returns a tenant by ID
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	return s.tenants.FindByID(ctx, id)
}

// List returns tenants matching the filter
func (s *TenantService) List(ctx context.Context, filter shared.Filter) ([]*store.Tenant, int64, error) {
	return s.tenants.List(ctx, filter)
}

// Activate restores a tenant to the scheduled fleet
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant.Active {
		return tenant, nil
	}
	tenant.Activate()
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("tenant activated", zap.String("code", tenant.Code))
	return tenant, nil
}

// Deactivate removes a tenant from future scheduling. In-flight sync
// runs are allowed to finish.
func (s *TenantService) Deactivate(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	tenant, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !tenant.Active {
		return tenant, nil
	}
	tenant.Deactivate()
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}
	s.logger.Info("tenant deactivated", zap.String("code", tenant.Code))
	return tenant, nil
}

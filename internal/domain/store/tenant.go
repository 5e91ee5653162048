package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/domain/shared"
)

// Tenant is an onboarded storefront whose data the engine syncs.
type Tenant struct {
	shared.BaseEntity
	Code          string
	Name          string
	StoreDomain   string
	AccessToken   string
	WebhookSecret string
	Active        bool
}

// NewTenant creates an active tenant for the given storefront
func NewTenant(code, name, storeDomain, accessToken string) *Tenant {
	return &Tenant{
		BaseEntity:  shared.NewBaseEntity(),
		Code:        code,
		Name:        name,
		StoreDomain: storeDomain,
		AccessToken: accessToken,
		Active:      true,
	}
}

// CanSync reports whether the tenant is eligible for a sync run.
// A tenant without an access token is skipped, not failed.
func (t *Tenant) CanSync() bool {
	return t.Active && t.AccessToken != ""
}

// Deactivate removes the tenant from future scheduling.
// In-flight runs are not cancelled.
func (t *Tenant) Deactivate() {
	t.Active = false
	t.Touch()
}

// Activate restores the tenant to the scheduled fleet
func (t *Tenant) Activate() {
	t.Active = true
	t.Touch()
}

// TenantRepository persists tenants
type TenantRepository interface {
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindByStoreDomain(ctx context.Context, storeDomain string) (*Tenant, error)
	FindActive(ctx context.Context) ([]*Tenant, error)
	List(ctx context.Context, filter shared.Filter) ([]*Tenant, int64, error)
	Update(ctx context.Context, tenant *Tenant) error
}

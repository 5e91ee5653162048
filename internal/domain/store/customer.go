package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/shared"
)

// Customer is a synced storefront customer. OrdersCount and TotalSpent
// are derived aggregates maintained by the order upsert path, never
// taken from the upstream payload.
type Customer struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	ExternalID  string
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	City        string
	Country     string
	OrdersCount int64
	TotalSpent  decimal.Decimal
}

// FullName returns the display name of the customer
func (c *Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// CustomerRepository reads synced customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Customer, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Customer, int64, error)
}

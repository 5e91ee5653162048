package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/shared"
)

// Order is a synced storefront order. CustomerExternalID is a weak
// reference resolved at read time; an order may arrive before its
// customer without failing.
type Order struct {
	shared.BaseEntity
	TenantID           uuid.UUID
	ExternalID         string
	CustomerExternalID string
	Number             int64
	Name               string
	Email              string
	FinancialStatus    string
	FulfillmentStatus  string
	Currency           string
	TotalPrice         decimal.Decimal
	SubtotalPrice      decimal.Decimal
	TotalTax           decimal.Decimal
	ProcessedAt        time.Time
	Lines              []OrderLine
}

// OrderLine is a line item carrying a point-in-time snapshot of the
// product title and SKU. ProductExternalID is a weak reference.
type OrderLine struct {
	shared.BaseEntity
	OrderID           uuid.UUID
	ExternalID        string
	ProductExternalID string
	Title             string
	SKU               string
	Quantity          int64
	UnitPrice         decimal.Decimal
}

// LineTotal returns the extended price of the line
func (l *OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// OrderRepository reads synced orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Order, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Order, int64, error)
}

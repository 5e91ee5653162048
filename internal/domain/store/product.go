package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/shared"
)

// Product is a synced storefront product. TotalSales and TotalRevenue
// are derived aggregates maintained by the order upsert path.
type Product struct {
	shared.BaseEntity
	TenantID          uuid.UUID
	ExternalID        string
	Title             string
	Vendor            string
	ProductType       string
	Status            string
	SKU               string
	Taxable           bool
	Price             decimal.Decimal
	InventoryQuantity int64
	TotalSales        int64
	TotalRevenue      decimal.Decimal
}

// ProductRepository reads synced products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*Product, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Product, int64, error)
}

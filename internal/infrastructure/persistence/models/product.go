package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/store"
)

// ProductModel persists synced products. TotalSales and TotalRevenue
// are only ever written by the order upsert path.
type ProductModel struct {
	BaseModel
	TenantID          uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_external"`
	ExternalID        string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_products_tenant_external"`
	Title             string          `gorm:"type:varchar(512)"`
	Vendor            string          `gorm:"type:varchar(255)"`
	ProductType       string          `gorm:"type:varchar(255)"`
	Status            string          `gorm:"type:varchar(32)"`
	SKU               string          `gorm:"type:varchar(128);index"`
	Taxable           bool            `gorm:"not null;default:false"`
	Price             decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	InventoryQuantity int64           `gorm:"not null;default:0"`
	TotalSales        int64           `gorm:"not null;default:0"`
	TotalRevenue      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain product
func (m *ProductModel) ToDomain() *store.Product {
	return &store.Product{
		BaseEntity:        m.BaseModel.ToDomain(),
		TenantID:          m.TenantID,
		ExternalID:        m.ExternalID,
		Title:             m.Title,
		Vendor:            m.Vendor,
		ProductType:       m.ProductType,
		Status:            m.Status,
		SKU:               m.SKU,
		Taxable:           m.Taxable,
		Price:             m.Price,
		InventoryQuantity: m.InventoryQuantity,
		TotalSales:        m.TotalSales,
		TotalRevenue:      m.TotalRevenue,
	}
}

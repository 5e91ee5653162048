package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/store"
)

// OrderModel persists synced orders. CustomerExternalID is a weak
// reference, deliberately not a foreign key.
type OrderModel struct {
	BaseModel
	TenantID           uuid.UUID        `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_tenant_external"`
	ExternalID         string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_tenant_external"`
	CustomerExternalID string           `gorm:"type:varchar(64);index"`
	Number             int64            `gorm:"not null;default:0"`
	Name               string           `gorm:"type:varchar(64)"`
	Email              string           `gorm:"type:varchar(255)"`
	FinancialStatus    string           `gorm:"type:varchar(32)"`
	FulfillmentStatus  string           `gorm:"type:varchar(32)"`
	Currency           string           `gorm:"type:varchar(8)"`
	TotalPrice         decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0"`
	SubtotalPrice      decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0"`
	TotalTax           decimal.Decimal  `gorm:"type:decimal(20,4);not null;default:0"`
	ProcessedAt        time.Time        `gorm:"index"`
	Lines              []OrderLineModel `gorm:"foreignKey:OrderID"`
}

// TableName returns the table name
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel persists order line items with their product
// snapshot at order time
type OrderLineModel struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ExternalID        string          `gorm:"type:varchar(64)"`
	ProductExternalID string          `gorm:"type:varchar(64);index"`
	Title             string          `gorm:"type:varchar(512)"`
	SKU               string          `gorm:"type:varchar(128)"`
	Quantity          int64           `gorm:"not null;default:0"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the model to a domain order
func (m *OrderModel) ToDomain() *store.Order {
	o := &store.Order{
		BaseEntity:         m.BaseModel.ToDomain(),
		TenantID:           m.TenantID,
		ExternalID:         m.ExternalID,
		CustomerExternalID: m.CustomerExternalID,
		Number:             m.Number,
		Name:               m.Name,
		Email:              m.Email,
		FinancialStatus:    m.FinancialStatus,
		FulfillmentStatus:  m.FulfillmentStatus,
		Currency:           m.Currency,
		TotalPrice:         m.TotalPrice,
		SubtotalPrice:      m.SubtotalPrice,
		TotalTax:           m.TotalTax,
		ProcessedAt:        m.ProcessedAt,
	}
	for _, line := range m.Lines {
		o.Lines = append(o.Lines, *line.ToDomain())
	}
	return o
}

// ToDomain converts the model to a domain order line
func (m *OrderLineModel) ToDomain() *store.OrderLine {
	return &store.OrderLine{
		BaseEntity:        m.BaseModel.ToDomain(),
		OrderID:           m.OrderID,
		ExternalID:        m.ExternalID,
		ProductExternalID: m.ProductExternalID,
		Title:             m.Title,
		SKU:               m.SKU,
		Quantity:          m.Quantity,
		UnitPrice:         m.UnitPrice,
	}
}

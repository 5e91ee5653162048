package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/store"
)

// CustomerModel persists synced customers. OrdersCount and TotalSpent
// are only ever written by the order upsert path.
type CustomerModel struct {
	BaseModel
	TenantID    uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_customers_tenant_external"`
	ExternalID  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_customers_tenant_external"`
	Email       string          `gorm:"type:varchar(255);index"`
	FirstName   string          `gorm:"type:varchar(255)"`
	LastName    string          `gorm:"type:varchar(255)"`
	Phone       string          `gorm:"type:varchar(64)"`
	City        string          `gorm:"type:varchar(255)"`
	Country     string          `gorm:"type:varchar(255)"`
	OrdersCount int64           `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
}

// TableName returns the table name
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the model to a domain customer
func (m *CustomerModel) ToDomain() *store.Customer {
	return &store.Customer{
		BaseEntity:  m.BaseModel.ToDomain(),
		TenantID:    m.TenantID,
		ExternalID:  m.ExternalID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Phone:       m.Phone,
		City:        m.City,
		Country:     m.Country,
		OrdersCount: m.OrdersCount,
		TotalSpent:  m.TotalSpent,
	}
}

package models

import (
	"github.com/shopsync/backend/internal/domain/store"
)

// TenantModel persists tenants
type TenantModel struct {
	BaseModel
	Code          string `gorm:"type:varchar(64);not null;uniqueIndex"`
	Name          string `gorm:"type:varchar(255);not null"`
	StoreDomain   string `gorm:"type:varchar(255);not null;uniqueIndex"`
	AccessToken   string `gorm:"type:varchar(255)"`
	WebhookSecret string `gorm:"type:varchar(255)"`
	Active        bool   `gorm:"not null;default:true;index"`
}

// TableName returns the table name
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the model to a domain tenant
func (m *TenantModel) ToDomain() *store.Tenant {
	return &store.Tenant{
		BaseEntity:    m.BaseModel.ToDomain(),
		Code:          m.Code,
		Name:          m.Name,
		StoreDomain:   m.StoreDomain,
		AccessToken:   m.AccessToken,
		WebhookSecret: m.WebhookSecret,
		Active:        m.Active,
	}
}

// FromDomain populates the model from a domain tenant
func (m *TenantModel) FromDomain(t *store.Tenant) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Code = t.Code
	m.Name = t.Name
	m.StoreDomain = t.StoreDomain
	m.AccessToken = t.AccessToken
	m.WebhookSecret = t.WebhookSecret
	m.Active = t.Active
}

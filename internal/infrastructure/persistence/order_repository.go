package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements store.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

var _ store.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order with its lines by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Lines").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds an order by its upstream id within a tenant
func (r *GormOrderRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*store.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).Preload("Lines").
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByTenant returns orders for a tenant with a total count.
// Lines are preloaded; order lists default to processed_at order.
func (r *GormOrderRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*store.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "processed_at"
	}
	var orderModels []models.OrderModel
	if err := applyPagination(query, filter).Preload("Lines").Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*store.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, total, nil
}

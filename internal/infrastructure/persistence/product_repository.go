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

// GormProductRepository implements store.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

var _ store.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByExternalID finds a product by its upstream id within a tenant
func (r *GormProductRepository) FindByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (*store.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByTenant returns products for a tenant with a total count
func (r *GormProductRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*store.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR sku LIKE ? OR vendor LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var productModels []models.ProductModel
	if err := applyPagination(query, filter).Find(&productModels).Error; err != nil {
		return nil, 0, err
	}

	products := make([]*store.Product, len(productModels))
	for i := range productModels {
		products[i] = productModels[i].ToDomain()
	}
	return products, total, nil
}

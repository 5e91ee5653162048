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

// GormTenantRepository implements store.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

var _ store.TenantRepository = (*GormTenantRepository)(nil)

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Save persists a new tenant
func (r *GormTenantRepository) Save(ctx context.Context, tenant *store.Tenant) error {
	var model models.TenantModel
	model.FromDomain(tenant)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a tenant by its external code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*store.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByStoreDomain finds a tenant by its storefront domain
func (r *GormTenantRepository) FindByStoreDomain(ctx context.Context, storeDomain string) (*store.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).Where("store_domain = ?", storeDomain).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive lists all active tenants
func (r *GormTenantRepository) FindActive(ctx context.Context) ([]*store.Tenant, error) {
	var tenantModels []models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("code asc").
		Find(&tenantModels).Error; err != nil {
		return nil, err
	}

	tenants := make([]*store.Tenant, len(tenantModels))
	for i := range tenantModels {
		tenants[i] = tenantModels[i].ToDomain()
	}
	return tenants, nil
}

// List returns tenants matching the filter with a total count
func (r *GormTenantRepository) List(ctx context.Context, filter shared.Filter) ([]*store.Tenant, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TenantModel{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code LIKE ? OR name LIKE ? OR store_domain LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tenantModels []models.TenantModel
	if err := applyPagination(query, filter).Find(&tenantModels).Error; err != nil {
		return nil, 0, err
	}

	tenants := make([]*store.Tenant, len(tenantModels))
	for i := range tenantModels {
		tenants[i] = tenantModels[i].ToDomain()
	}
	return tenants, total, nil
}

// Update persists changes to an existing tenant
func (r *GormTenantRepository) Update(ctx context.Context, tenant *store.Tenant) error {
	var model models.TenantModel
	model.FromDomain(tenant)
	result := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where("id = ?", tenant.ID).
		Updates(map[string]any{
			"name":           model.Name,
			"store_domain":   model.StoreDomain,
			"access_token":   model.AccessToken,
			"webhook_secret": model.WebhookSecret,
			"active":         model.Active,
			"updated_at":     model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyPagination applies filter ordering and paging to a query
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	dir := "desc"
	if filter.OrderDir == "asc" {
		dir = "asc"
	}
	query = query.Order(orderBy + " " + dir)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

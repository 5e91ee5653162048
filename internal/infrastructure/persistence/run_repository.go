package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormRunRepository implements sync.RunRepository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

var _ sync.RunRepository = (*GormRunRepository)(nil)

// NewGormRunRepository creates a new GormRunRepository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Save persists a finished run report
func (r *GormRunRepository) Save(ctx context.Context, run *sync.Run) error {
	var model models.SyncRunModel
	if err := model.FromDomain(run); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// ListByTenant returns run reports for a tenant, newest first
func (r *GormRunRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*sync.Run, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SyncRunModel{}).Where("tenant_id = ?", tenantID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "started_at"
	}
	var runModels []models.SyncRunModel
	if err := applyPagination(query, filter).Find(&runModels).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]*sync.Run, len(runModels))
	for i := range runModels {
		run, err := runModels[i].ToDomain()
		if err != nil {
			return nil, 0, err
		}
		runs[i] = run
	}
	return runs, total, nil
}

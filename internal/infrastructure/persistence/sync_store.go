package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormSyncStore implements sync.UpsertStore. Each upsert runs in one
// transaction: a Create guarded by ON CONFLICT DO NOTHING on the
// (tenant_id, external_id) unique index detects insert-vs-merge, and
// a new order applies its aggregate updates before the commit. A
// merge overwrites canonical fields but never touches aggregates, so
// re-delivery of the same record converges without double counting.
type GormSyncStore struct {
	db *gorm.DB
}

var _ sync.UpsertStore = (*GormSyncStore)(nil)

// NewGormSyncStore creates a new GormSyncStore
func NewGormSyncStore(db *gorm.DB) *GormSyncStore {
	return &GormSyncStore{db: db}
}

// UpsertCustomer inserts or merges one canonical customer
func (s *GormSyncStore) UpsertCustomer(ctx context.Context, tenantID uuid.UUID, c sync.CanonicalCustomer) (sync.UpsertResult, error) {
	var result sync.UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CustomerModel{
			TenantID:   tenantID,
			ExternalID: c.ExternalID,
			Email:      c.Email,
			FirstName:  c.FirstName,
			LastName:   c.LastName,
			Phone:      c.Phone,
			City:       c.City,
			Country:    c.Country,
		}
		model.FromDomainBaseEntity(shared.NewBaseEntity())

		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).Create(&model)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected > 0 {
			result = sync.UpsertResult{ID: model.ID, Inserted: true}
			return nil
		}

		existing, err := findSynced[models.CustomerModel](tx, tenantID, c.ExternalID)
		if err != nil {
			return err
		}
		if err := tx.Model(existing).Updates(map[string]any{
			"email":      c.Email,
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"phone":      c.Phone,
			"city":       c.City,
			"country":    c.Country,
		}).Error; err != nil {
			return err
		}
		result = sync.UpsertResult{ID: existing.ID, Inserted: false}
		return nil
	})
	if err != nil {
		return sync.UpsertResult{}, fmt.Errorf("upsert customer %s: %w", c.ExternalID, err)
	}
	return result, nil
}

// UpsertProduct inserts or merges one canonical product. The merge
// overwrites the upstream inventory snapshot but leaves the derived
// sales aggregates alone.
func (s *GormSyncStore) UpsertProduct(ctx context.Context, tenantID uuid.UUID, p sync.CanonicalProduct) (sync.UpsertResult, error) {
	var result sync.UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ProductModel{
			TenantID:          tenantID,
			ExternalID:        p.ExternalID,
			Title:             p.Title,
			Vendor:            p.Vendor,
			ProductType:       p.ProductType,
			Status:            p.Status,
			SKU:               p.SKU,
			Taxable:           p.Taxable,
			Price:             p.Price,
			InventoryQuantity: p.InventoryQuantity,
		}
		model.FromDomainBaseEntity(shared.NewBaseEntity())

		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).Create(&model)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected > 0 {
			result = sync.UpsertResult{ID: model.ID, Inserted: true}
			return nil
		}

		existing, err := findSynced[models.ProductModel](tx, tenantID, p.ExternalID)
		if err != nil {
			return err
		}
		if err := tx.Model(existing).Updates(map[string]any{
			"title":              p.Title,
			"vendor":             p.Vendor,
			"product_type":       p.ProductType,
			"status":             p.Status,
			"sku":                p.SKU,
			"taxable":            p.Taxable,
			"price":              p.Price,
			"inventory_quantity": p.InventoryQuantity,
		}).Error; err != nil {
			return err
		}
		result = sync.UpsertResult{ID: existing.ID, Inserted: false}
		return nil
	})
	if err != nil {
		return sync.UpsertResult{}, fmt.Errorf("upsert product %s: %w", p.ExternalID, err)
	}
	return result, nil
}

// UpsertOrder inserts or merges one canonical order. Only a first
// insert applies the customer and product aggregate updates, in the
// same transaction as the order row.
func (s *GormSyncStore) UpsertOrder(ctx context.Context, tenantID uuid.UUID, o sync.CanonicalOrder) (sync.UpsertResult, error) {
	var result sync.UpsertResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.OrderModel{
			TenantID:           tenantID,
			ExternalID:         o.ExternalID,
			CustomerExternalID: o.CustomerExternalID,
			Number:             o.Number,
			Name:               o.Name,
			Email:              o.Email,
			FinancialStatus:    o.FinancialStatus,
			FulfillmentStatus:  o.FulfillmentStatus,
			Currency:           o.Currency,
			TotalPrice:         o.TotalPrice,
			SubtotalPrice:      o.SubtotalPrice,
			TotalTax:           o.TotalTax,
			ProcessedAt:        o.ProcessedAt,
		}
		model.FromDomainBaseEntity(shared.NewBaseEntity())

		create := tx.Omit("Lines").Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "external_id"}},
			DoNothing: true,
		}).Create(&model)
		if create.Error != nil {
			return create.Error
		}

		if create.RowsAffected > 0 {
			if err := s.insertLines(tx, model.ID, o.Lines); err != nil {
				return err
			}
			if err := s.applyOrderAggregates(tx, tenantID, o); err != nil {
				return err
			}
			result = sync.UpsertResult{ID: model.ID, Inserted: true}
			return nil
		}

		existing, err := findSynced[models.OrderModel](tx, tenantID, o.ExternalID)
		if err != nil {
			return err
		}
		if err := tx.Model(existing).Updates(map[string]any{
			"customer_external_id": o.CustomerExternalID,
			"number":               o.Number,
			"name":                 o.Name,
			"email":                o.Email,
			"financial_status":     o.FinancialStatus,
			"fulfillment_status":   o.FulfillmentStatus,
			"currency":             o.Currency,
			"total_price":          o.TotalPrice,
			"subtotal_price":       o.SubtotalPrice,
			"total_tax":            o.TotalTax,
			"processed_at":         o.ProcessedAt,
		}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", existing.ID).Delete(&models.OrderLineModel{}).Error; err != nil {
			return err
		}
		if err := s.insertLines(tx, existing.ID, o.Lines); err != nil {
			return err
		}
		result = sync.UpsertResult{ID: existing.ID, Inserted: false}
		return nil
	})
	if err != nil {
		return sync.UpsertResult{}, fmt.Errorf("upsert order %s: %w", o.ExternalID, err)
	}
	return result, nil
}

func (s *GormSyncStore) insertLines(tx *gorm.DB, orderID uuid.UUID, lines []sync.CanonicalOrderLine) error {
	for _, line := range lines {
		lineModel := models.OrderLineModel{
			OrderID:           orderID,
			ExternalID:        line.ExternalID,
			ProductExternalID: line.ProductExternalID,
			Title:             line.Title,
			SKU:               line.SKU,
			Quantity:          line.Quantity,
			UnitPrice:         line.UnitPrice,
		}
		lineModel.FromDomainBaseEntity(shared.NewBaseEntity())
		if err := tx.Create(&lineModel).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyOrderAggregates runs exactly once per order, on first insert.
// Missing referenced customers or products are tolerated: the update
// simply matches zero rows.
func (s *GormSyncStore) applyOrderAggregates(tx *gorm.DB, tenantID uuid.UUID, o sync.CanonicalOrder) error {
	if o.CustomerExternalID != "" {
		if err := tx.Model(&models.CustomerModel{}).
			Where("tenant_id = ? AND external_id = ?", tenantID, o.CustomerExternalID).
			Updates(map[string]any{
				"orders_count": gorm.Expr("orders_count + 1"),
				"total_spent":  gorm.Expr("total_spent + ?", o.TotalPrice),
			}).Error; err != nil {
			return err
		}
	}

	for _, line := range o.Lines {
		if line.ProductExternalID == "" {
			continue
		}
		if err := tx.Model(&models.ProductModel{}).
			Where("tenant_id = ? AND external_id = ?", tenantID, line.ProductExternalID).
			Updates(map[string]any{
				"total_sales":        gorm.Expr("total_sales + ?", line.Quantity),
				"total_revenue":      gorm.Expr("total_revenue + ?", line.LineTotal()),
				"inventory_quantity": gorm.Expr("inventory_quantity - ?", line.Quantity),
			}).Error; err != nil {
			return err
		}
	}
	return nil
}

type syncedModel interface {
	models.CustomerModel | models.ProductModel | models.OrderModel
}

func findSynced[M syncedModel](tx *gorm.DB, tenantID uuid.UUID, externalID string) (*M, error) {
	var model M
	if err := tx.Where("tenant_id = ? AND external_id = ?", tenantID, externalID).
		First(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

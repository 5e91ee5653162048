package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/infrastructure/persistence"
)

// Seeds a demo tenant with sample storefront data through the same
// upsert store the sync engine uses. Run explicitly, never on startup.
func main() {
	var tenantCode string
	flag.StringVar(&tenantCode, "tenant", "demo", "Code of the tenant to seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(&cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	syncStore := persistence.NewGormSyncStore(db.DB)

	tenant, err := tenantRepo.FindByCode(ctx, tenantCode)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		tenant = store.NewTenant(tenantCode, "Demo Store", tenantCode+".myshopify.com", "")
		if err := tenantRepo.Save(ctx, tenant); err != nil {
			log.Fatal("failed to create demo tenant", zap.Error(err))
		}
		log.Info("created demo tenant", zap.String("code", tenantCode))
	case err != nil:
		log.Fatal("failed to look up tenant", zap.Error(err))
	default:
		log.Info("seeding existing tenant", zap.String("code", tenantCode))
	}

	for _, c := range demoCustomers() {
		if _, err := syncStore.UpsertCustomer(ctx, tenant.ID, c); err != nil {
			log.Fatal("failed to seed customer", zap.String("external_id", c.ExternalID), zap.Error(err))
		}
	}
	for _, p := range demoProducts() {
		if _, err := syncStore.UpsertProduct(ctx, tenant.ID, p); err != nil {
			log.Fatal("failed to seed product", zap.String("external_id", p.ExternalID), zap.Error(err))
		}
	}
	for _, o := range demoOrders() {
		if _, err := syncStore.UpsertOrder(ctx, tenant.ID, o); err != nil {
			log.Fatal("failed to seed order", zap.String("external_id", o.ExternalID), zap.Error(err))
		}
	}

	log.Info("seed complete",
		zap.String("tenant", tenantCode),
		zap.Int("customers", len(demoCustomers())),
		zap.Int("products", len(demoProducts())),
		zap.Int("orders", len(demoOrders())),
	)
}

func demoCustomers() []sync.CanonicalCustomer {
	return []sync.CanonicalCustomer{
		{ExternalID: "9001", Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", City: "London", Country: "GB"},
		{ExternalID: "9002", Email: "grace@example.com", FirstName: "Grace", LastName: "Hopper", City: "New York", Country: "US"},
		{ExternalID: "9003", Email: "linus@example.com", FirstName: "Linus", LastName: "Pauling", City: "Portland", Country: "US"},
	}
}

func demoProducts() []sync.CanonicalProduct {
	return []sync.CanonicalProduct{
		{ExternalID: "7001", Title: "Canvas Tote", Vendor: "Demo Goods", ProductType: "Bags", Status: "active", SKU: "TOTE-01", Taxable: true, Price: decimal.RequireFromString("24.50"), InventoryQuantity: 120},
		{ExternalID: "7002", Title: "Enamel Mug", Vendor: "Demo Goods", ProductType: "Kitchen", Status: "active", SKU: "MUG-01", Taxable: true, Price: decimal.RequireFromString("14.00"), InventoryQuantity: 300},
		{ExternalID: "7003", Title: "Wool Beanie", Vendor: "Demo Goods", ProductType: "Apparel", Status: "draft", SKU: "BEAN-01", Taxable: true, Price: decimal.RequireFromString("19.99"), InventoryQuantity: 75},
	}
}

func demoOrders() []sync.CanonicalOrder {
	processed := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	return []sync.CanonicalOrder{
		{
			ExternalID:         "5001",
			CustomerExternalID: "9001",
			Number:             1001,
			Name:               "#1001",
			Email:              "ada@example.com",
			FinancialStatus:    "paid",
			FulfillmentStatus:  "fulfilled",
			Currency:           "USD",
			TotalPrice:         decimal.RequireFromString("63.00"),
			SubtotalPrice:      decimal.RequireFromString("52.50"),
			TotalTax:           decimal.RequireFromString("10.50"),
			ProcessedAt:        processed,
			Lines: []sync.CanonicalOrderLine{
				{ExternalID: "6001", ProductExternalID: "7001", Title: "Canvas Tote", SKU: "TOTE-01", Quantity: 1, UnitPrice: decimal.RequireFromString("24.50")},
				{ExternalID: "6002", ProductExternalID: "7002", Title: "Enamel Mug", SKU: "MUG-01", Quantity: 2, UnitPrice: decimal.RequireFromString("14.00")},
			},
		},
		{
			ExternalID:         "5002",
			CustomerExternalID: "9002",
			Number:             1002,
			Name:               "#1002",
			Email:              "grace@example.com",
			FinancialStatus:    "pending",
			Currency:           "USD",
			TotalPrice:         decimal.RequireFromString("19.99"),
			SubtotalPrice:      decimal.RequireFromString("19.99"),
			TotalTax:           decimal.Zero,
			ProcessedAt:        processed.Add(6 * time.Hour),
			Lines: []sync.CanonicalOrderLine{
				{ExternalID: "6003", ProductExternalID: "7003", Title: "Wool Beanie", SKU: "BEAN-01", Quantity: 1, UnitPrice: decimal.RequireFromString("19.99")},
			},
		},
	}
}

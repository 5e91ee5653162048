package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// StoreDataHandler exposes paginated reads over synced data
type StoreDataHandler struct {
	BaseHandler
	customers store.CustomerRepository
	products  store.ProductRepository
	orders    store.OrderRepository
}

// NewStoreDataHandler creates a store data handler
func NewStoreDataHandler(
	customers store.CustomerRepository,
	products store.ProductRepository,
	orders store.OrderRepository,
) *StoreDataHandler {
	return &StoreDataHandler{
		customers: customers,
		products:  products,
		orders:    orders,
	}
}

// RegisterRoutes registers store data routes. The :id parameter is
// the tenant id.
func (h *StoreDataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores/:id")
	{
		stores.GET("/customers", h.ListCustomers)
		stores.GET("/products", h.ListProducts)
		stores.GET("/orders", h.ListOrders)
	}
}

// CustomerResponse is the API shape of a synced customer
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	ExternalID  string          `json:"external_id"`
	Email       string          `json:"email"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone,omitempty"`
	City        string          `json:"city,omitempty"`
	Country     string          `json:"country,omitempty"`
	OrdersCount int64           `json:"orders_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// ProductResponse is the API shape of a synced product
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	ExternalID        string          `json:"external_id"`
	Title             string          `json:"title"`
	Vendor            string          `json:"vendor,omitempty"`
	ProductType       string          `json:"product_type,omitempty"`
	Status            string          `json:"status,omitempty"`
	SKU               string          `json:"sku,omitempty"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int64           `json:"inventory_quantity"`
	TotalSales        int64           `json:"total_sales"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}

// OrderLineResponse is the API shape of an order line
type OrderLineResponse struct {
	ExternalID        string          `json:"external_id,omitempty"`
	ProductExternalID string          `json:"product_external_id,omitempty"`
	Title             string          `json:"title"`
	SKU               string          `json:"sku,omitempty"`
	Quantity          int64           `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
}

// OrderResponse is the API shape of a synced order
type OrderResponse struct {
	ID                 uuid.UUID           `json:"id"`
	ExternalID         string              `json:"external_id"`
	CustomerExternalID string              `json:"customer_external_id,omitempty"`
	Number             int64               `json:"number"`
	Name               string              `json:"name"`
	Email              string              `json:"email,omitempty"`
	FinancialStatus    string              `json:"financial_status,omitempty"`
	FulfillmentStatus  string              `json:"fulfillment_status,omitempty"`
	Currency           string              `json:"currency,omitempty"`
	TotalPrice         decimal.Decimal     `json:"total_price"`
	ProcessedAt        time.Time           `json:"processed_at"`
	Lines              []OrderLineResponse `json:"lines"`
}

// ListCustomers returns synced customers for the tenant
func (h *StoreDataHandler) ListCustomers(c *gin.Context) {
	tenantID, filter, ok := h.bindStoreQuery(c)
	if !ok {
		return
	}

	customers, total, err := h.customers.ListByTenant(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]CustomerResponse, len(customers))
	for i, cu := range customers {
		out[i] = CustomerResponse{
			ID:          cu.ID,
			ExternalID:  cu.ExternalID,
			Email:       cu.Email,
			Name:        cu.FullName(),
			Phone:       cu.Phone,
			City:        cu.City,
			Country:     cu.Country,
			OrdersCount: cu.OrdersCount,
			TotalSpent:  cu.TotalSpent,
		}
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.PageSize)
}

// ListProducts returns synced products for the tenant
func (h *StoreDataHandler) ListProducts(c *gin.Context) {
	tenantID, filter, ok := h.bindStoreQuery(c)
	if !ok {
		return
	}

	products, total, err := h.products.ListByTenant(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = ProductResponse{
			ID:                p.ID,
			ExternalID:        p.ExternalID,
			Title:             p.Title,
			Vendor:            p.Vendor,
			ProductType:       p.ProductType,
			Status:            p.Status,
			SKU:               p.SKU,
			Price:             p.Price,
			InventoryQuantity: p.InventoryQuantity,
			TotalSales:        p.TotalSales,
			TotalRevenue:      p.TotalRevenue,
		}
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.PageSize)
}

// ListOrders returns synced orders with their lines for the tenant
func (h *StoreDataHandler) ListOrders(c *gin.Context) {
	tenantID, filter, ok := h.bindStoreQuery(c)
	if !ok {
		return
	}

	orders, total, err := h.orders.ListByTenant(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		lines := make([]OrderLineResponse, len(o.Lines))
		for j, l := range o.Lines {
			lines[j] = OrderLineResponse{
				ExternalID:        l.ExternalID,
				ProductExternalID: l.ProductExternalID,
				Title:             l.Title,
				SKU:               l.SKU,
				Quantity:          l.Quantity,
				UnitPrice:         l.UnitPrice,
			}
		}
		out[i] = OrderResponse{
			ID:                 o.ID,
			ExternalID:         o.ExternalID,
			CustomerExternalID: o.CustomerExternalID,
			Number:             o.Number,
			Name:               o.Name,
			Email:              o.Email,
			FinancialStatus:    o.FinancialStatus,
			FulfillmentStatus:  o.FulfillmentStatus,
			Currency:           o.Currency,
			TotalPrice:         o.TotalPrice,
			ProcessedAt:        o.ProcessedAt,
			Lines:              lines,
		}
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.PageSize)
}

func (h *StoreDataHandler) bindStoreQuery(c *gin.Context) (uuid.UUID, shared.Filter, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid tenant id")
		return uuid.Nil, shared.Filter{}, false
	}

	filter, ok := bindFilter(c, h.BaseHandler)
	if !ok {
		return uuid.Nil, shared.Filter{}, false
	}
	return uuid.MustParse(req.ID), filter, true
}

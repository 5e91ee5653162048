package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/application/identity"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// TenantHandler exposes tenant administration
type TenantHandler struct {
	BaseHandler
	tenants *identity.TenantService
}

// NewTenantHandler creates a tenant handler
func NewTenantHandler(tenants *identity.TenantService) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// RegisterRoutes registers tenant routes
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	{
		tenants.GET("", h.List)
		tenants.POST("", h.Create)
		tenants.GET("/:id", h.Get)
		tenants.POST("/:id/activate", h.Activate)
		tenants.POST("/:id/deactivate", h.Deactivate)
	}
}

// CreateTenantRequest is the onboarding payload. The access token is
// accepted here and never echoed back.
type CreateTenantRequest struct {
	Code          string `json:"code" binding:"required,min=2,max=64"`
	Name          string `json:"name" binding:"required,max=255"`
	StoreDomain   string `json:"store_domain" binding:"required,hostname"`
	AccessToken   string `json:"access_token"`
	WebhookSecret string `json:"webhook_secret"`
}

// TenantResponse is the API shape of a tenant. Credentials are
// reduced to presence flags.
type TenantResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	StoreDomain string    `json:"store_domain"`
	Active      bool      `json:"active"`
	HasToken    bool      `json:"has_access_token"`
	HasSecret   bool      `json:"has_webhook_secret"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTenantResponse(t *store.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		Code:        t.Code,
		Name:        t.Name,
		StoreDomain: t.StoreDomain,
		Active:      t.Active,
		HasToken:    t.AccessToken != "",
		HasSecret:   t.WebhookSecret != "",
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Create onboards a new tenant
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid tenant payload: "+err.Error())
		return
	}

	tenant, err := h.tenants.Create(c.Request.Context(), identity.CreateTenantInput{
		Code:          req.Code,
		Name:          req.Name,
		StoreDomain:   req.StoreDomain,
		AccessToken:   req.AccessToken,
		WebhookSecret: req.WebhookSecret,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTenantResponse(tenant))
}

// Get returns one tenant
func (h *TenantHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	tenant, err := h.tenants.Get(c.Request.Context(), uuid.MustParse(req.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

// List returns tenants with pagination
func (h *TenantHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c, h.BaseHandler)
	if !ok {
		return
	}

	tenants, total, err := h.tenants.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]TenantResponse, len(tenants))
	for i, t := range tenants {
		out[i] = toTenantResponse(t)
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.PageSize)
}

// Activate restores a tenant to the scheduled fleet
func (h *TenantHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate removes a tenant from future scheduling
func (h *TenantHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *TenantHandler) setActive(c *gin.Context, active bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	id := uuid.MustParse(req.ID)
	var (
		tenant *store.Tenant
		err    error
	)
	if active {
		tenant, err = h.tenants.Activate(c.Request.Context(), id)
	} else {
		tenant, err = h.tenants.Deactivate(c.Request.Context(), id)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTenantResponse(tenant))
}

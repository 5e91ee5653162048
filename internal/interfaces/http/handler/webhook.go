package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appsync "github.com/shopsync/backend/internal/application/sync"
	domainsync "github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// Webhook request headers set by the platform
const (
	headerShopDomain = "X-Shopify-Shop-Domain"
	headerWebhookID  = "X-Shopify-Webhook-Id"
	headerHmac       = "X-Shopify-Hmac-Sha256"
)

// WebhookHandler receives platform push notifications. Every route
// acknowledges with 200 once the delivery is durably handled, so the
// platform stops retrying; only bad requests and failed signature
// checks are refused.
type WebhookHandler struct {
	BaseHandler
	ingest *appsync.IngestService
	logger *zap.Logger
}

// NewWebhookHandler creates a webhook handler
func NewWebhookHandler(ingest *appsync.IngestService, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		ingest: ingest,
		logger: logger.Named("webhook"),
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/shopify/webhooks")
	{
		webhooks.POST("/orders/create", h.receive(domainsync.KindOrders))
		webhooks.POST("/orders/paid", h.receive(domainsync.KindOrders))
		webhooks.POST("/customers/create", h.receive(domainsync.KindCustomers))
		webhooks.POST("/customers/update", h.receive(domainsync.KindCustomers))
		webhooks.POST("/products/create", h.receive(domainsync.KindProducts))
	}
}

func (h *WebhookHandler) receive(kind domainsync.EntityKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeDomain := c.GetHeader(headerShopDomain)
		if storeDomain == "" {
			h.BadRequest(c, "Missing "+headerShopDomain+" header")
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil || len(body) == 0 {
			h.BadRequest(c, "Missing request body")
			return
		}

		status, err := h.ingest.Ingest(c.Request.Context(), appsync.Delivery{
			StoreDomain: storeDomain,
			Kind:        kind,
			Body:        body,
			WebhookID:   c.GetHeader(headerWebhookID),
			Signature:   c.GetHeader(headerHmac),
		})
		if err != nil {
			if errors.Is(err, appsync.ErrBadSignature) {
				h.Error(c, http.StatusUnauthorized, dto.ErrCodeBadSignature, "Webhook signature verification failed")
				return
			}
			h.logger.Error("webhook processing failed",
				zap.String("store_domain", storeDomain),
				zap.String("kind", kind.String()),
				zap.Error(err))
			h.InternalError(c, "Failed to process webhook")
			return
		}

		h.Success(c, gin.H{"status": string(status)})
	}
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/infrastructure/shopify"
)

// IngestStatus classifies one webhook delivery
type IngestStatus string

const (
	// IngestApplied means the record was normalized and upserted
	IngestApplied IngestStatus = "applied"

	// IngestDuplicate means the delivery ID was already processed
	IngestDuplicate IngestStatus = "duplicate"

	// IngestUnknownTenant means no tenant matches the store domain.
	// Deliveries for unknown stores are acknowledged and dropped.
	IngestUnknownTenant IngestStatus = "unknown_tenant"

	// IngestSkipped means the record failed normalization
	IngestSkipped IngestStatus = "skipped"
)

// ErrBadSignature marks a webhook whose HMAC signature did not verify
var ErrBadSignature = errors.New("sync: webhook signature verification failed")

// Delivery is one incoming webhook request
type Delivery struct {
	StoreDomain string
	Kind        sync.EntityKind
	Body        []byte
	WebhookID   string
	Signature   string
}

// IngestService applies single-record webhook pushes through the same
// normalize-and-upsert path the orchestrator uses, so both paths
// converge on identical stored state.
type IngestService struct {
	tenants     store.TenantRepository
	upserts     sync.UpsertStore
	idempotency shared.IdempotencyStore
	normalizer  *sync.Normalizer
	dedupeTTL   time.Duration
	logger      *zap.Logger
}

// NewIngestService creates a webhook ingest service
func NewIngestService(
	tenants store.TenantRepository,
	upserts sync.UpsertStore,
	idempotency shared.IdempotencyStore,
	dedupeTTL time.Duration,
	logger *zap.Logger,
) *IngestService {
	if dedupeTTL <= 0 {
		dedupeTTL = 24 * time.Hour
	}
	return &IngestService{
		tenants:     tenants,
		upserts:     upserts,
		idempotency: idempotency,
		normalizer:  sync.NewNormalizer(),
		dedupeTTL:   dedupeTTL,
		logger:      logger.Named("ingest"),
	}
}

// Ingest processes one webhook delivery. An unknown store domain is a
// recoverable no-op, not an error: the delivery is acknowledged so
// the platform stops retrying. A failed signature check is an error
// the handler maps to 401.
func (s *IngestService) Ingest(ctx context.Context, d Delivery) (IngestStatus, error) {
	tenant, err := s.tenants.FindByStoreDomain(ctx, d.StoreDomain)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("webhook for unknown store dropped",
				zap.String("store_domain", d.StoreDomain),
				zap.String("kind", d.Kind.String()))
			return IngestUnknownTenant, nil
		}
		return "", err
	}

	if tenant.WebhookSecret != "" {
		if !shopify.VerifyWebhookSignature(tenant.WebhookSecret, d.Body, d.Signature) {
			s.logger.Warn("webhook signature rejected",
				zap.String("tenant", tenant.Code),
				zap.String("kind", d.Kind.String()))
			return "", ErrBadSignature
		}
	} else {
		s.logger.Warn("tenant has no webhook secret, accepting unverified delivery",
			zap.String("tenant", tenant.Code))
	}

	if d.WebhookID != "" {
		seen, err := s.idempotency.IsProcessed(ctx, deliveryKey(tenant, d))
		if err != nil {
			return "", fmt.Errorf("sync: webhook dedupe check: %w", err)
		}
		if seen {
			s.logger.Debug("duplicate webhook delivery short-circuited",
				zap.String("tenant", tenant.Code),
				zap.String("webhook_id", d.WebhookID))
			return IngestDuplicate, nil
		}
	}

	raw, err := shopify.DecodeRecord(d.Body)
	if err != nil {
		return "", err
	}

	status, err := s.apply(ctx, tenant, d.Kind, raw)
	if err != nil {
		// the delivery id stays unmarked so the platform's retry of
		// our 5xx is applied instead of short-circuited
		return "", err
	}

	if d.WebhookID != "" {
		if _, err := s.idempotency.MarkProcessed(ctx, deliveryKey(tenant, d), s.dedupeTTL); err != nil {
			// the upsert already committed; a redelivery merges idempotently
			s.logger.Warn("failed to mark webhook delivery as processed",
				zap.String("tenant", tenant.Code),
				zap.String("webhook_id", d.WebhookID),
				zap.Error(err))
		}
	}

	s.logger.Info("webhook applied",
		zap.String("tenant", tenant.Code),
		zap.String("kind", d.Kind.String()),
		zap.String("status", string(status)))
	return status, nil
}

func (s *IngestService) apply(ctx context.Context, tenant *store.Tenant, kind sync.EntityKind, raw sync.RawRecord) (IngestStatus, error) {
	var err error
	switch kind {
	case sync.KindCustomers:
		var c sync.CanonicalCustomer
		if c, err = s.normalizer.NormalizeCustomer(raw); err == nil {
			_, err = s.upserts.UpsertCustomer(ctx, tenant.ID, c)
		}
	case sync.KindProducts:
		var p sync.CanonicalProduct
		if p, err = s.normalizer.NormalizeProduct(raw); err == nil {
			_, err = s.upserts.UpsertProduct(ctx, tenant.ID, p)
		}
	case sync.KindOrders:
		var o sync.CanonicalOrder
		if o, err = s.normalizer.NormalizeOrder(raw); err == nil {
			_, err = s.upserts.UpsertOrder(ctx, tenant.ID, o)
		}
	default:
		return "", fmt.Errorf("sync: unknown webhook kind %q", kind)
	}

	var nerr *sync.NormalizationError
	if errors.As(err, &nerr) {
		s.logger.Warn("webhook record skipped",
			zap.String("tenant", tenant.Code),
			zap.String("reason", nerr.Reason))
		return IngestSkipped, nil
	}
	if err != nil {
		return "", err
	}
	return IngestApplied, nil
}

// deliveryKey scopes the dedupe key by tenant so two stores reusing a
// delivery ID never collide
func deliveryKey(tenant *store.Tenant, d Delivery) string {
	return tenant.ID.String() + ":" + d.WebhookID
}

package sync

import (
	"context"

	"github.com/google/uuid"

	"github.com/shopsync/backend/internal/domain/store"
)

// Page is one fetched slice of upstream records. An empty NextCursor
// means the kind is exhausted.
type Page struct {
	Records    []RawRecord
	NextCursor string
}

// PlatformClient fetches raw records from the upstream platform.
// Implementations map credential rejections to ErrAuthFailed and
// retryable failures to TransientError.
type PlatformClient interface {
	FetchPage(ctx context.Context, tenant *store.Tenant, kind EntityKind, cursor string) (Page, error)
}

// UpsertResult reports one store write. Inserted is true only when
// the key (tenant, external id, kind) did not exist before.
type UpsertResult struct {
	ID       uuid.UUID
	Inserted bool
}

// UpsertStore applies canonical records atomically per key. A new
// order insert also applies its aggregate updates in the same
// transaction; a merge never repeats them.
type UpsertStore interface {
	UpsertCustomer(ctx context.Context, tenantID uuid.UUID, c CanonicalCustomer) (UpsertResult, error)
	UpsertProduct(ctx context.Context, tenantID uuid.UUID, p CanonicalProduct) (UpsertResult, error)
	UpsertOrder(ctx context.Context, tenantID uuid.UUID, o CanonicalOrder) (UpsertResult, error)
}

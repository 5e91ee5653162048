package sync

import (
	"context"
	stdsync "sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	"github.com/shopsync/backend/internal/domain/sync"
)

func record(id string) sync.RawRecord {
	return sync.RawRecord{"id": id}
}

func emptyPages(client *mockPlatformClient, tenant *store.Tenant, kinds ...sync.EntityKind) {
	for _, kind := range kinds {
		client.On("FetchPage", mock.Anything, tenant, kind, "").
			Return(sync.Page{}, nil)
	}
}

func TestSyncTenant(t *testing.T) {
	ctx := context.Background()
	tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")

	t.Run("clean run walks kinds in order and completes", func(t *testing.T) {
		client := new(mockPlatformClient)
		upserts := new(mockUpsertStore)
		runs := new(mockRunRepo)

		client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "").
			Return(sync.Page{Records: []sync.RawRecord{record("C1")}, NextCursor: "p2"}, nil)
		client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "p2").
			Return(sync.Page{Records: []sync.RawRecord{record("C2")}}, nil)
		emptyPages(client, tenant, sync.KindProducts)
		client.On("FetchPage", mock.Anything, tenant, sync.KindOrders, "").
			Return(sync.Page{Records: []sync.RawRecord{record("E1")}}, nil)

		upserts.On("UpsertCustomer", mock.Anything, tenant.ID, mock.Anything).
			Return(sync.UpsertResult{Inserted: true}, nil).Twice()
		upserts.On("UpsertOrder", mock.Anything, tenant.ID, mock.Anything).
			Return(sync.UpsertResult{Inserted: true}, nil).Once()
		runs.On("Save", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(new(mockTenantRepo), client, upserts, runs, zap.NewNop())
		run, err := svc.SyncTenant(ctx, tenant, sync.TriggerScheduled)
		require.NoError(t, err)

		assert.Equal(t, sync.OutcomeCompleted, run.Outcome)
		customers := run.Report(sync.KindCustomers)
		assert.Equal(t, int64(2), customers.Fetched)
		assert.Equal(t, int64(2), customers.Upserted)
		assert.Equal(t, int64(2), customers.Inserted)

		client.AssertExpectations(t)
		upserts.AssertExpectations(t)
		runs.AssertExpectations(t)
	})

	t.Run("page failure isolates the kind and downgrades the run", func(t *testing.T) {
		client := new(mockPlatformClient)
		upserts := new(mockUpsertStore)
		runs := new(mockRunRepo)

		client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "").
			Return(sync.Page{Records: []sync.RawRecord{record("C1")}}, nil)
		// products fail after retry exhaustion inside the client
		client.On("FetchPage", mock.Anything, tenant, sync.KindProducts, "").
			Return(sync.Page{}, &sync.TransientError{Err: assert.AnError})
		// orders still sync
		client.On("FetchPage", mock.Anything, tenant, sync.KindOrders, "").
			Return(sync.Page{Records: []sync.RawRecord{record("E1")}}, nil)

		upserts.On("UpsertCustomer", mock.Anything, tenant.ID, mock.Anything).
			Return(sync.UpsertResult{Inserted: true}, nil)
		upserts.On("UpsertOrder", mock.Anything, tenant.ID, mock.Anything).
			Return(sync.UpsertResult{Inserted: true}, nil)
		runs.On("Save", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(new(mockTenantRepo), client, upserts, runs, zap.NewNop())
		run, err := svc.SyncTenant(ctx, tenant, sync.TriggerScheduled)
		require.NoError(t, err)

		assert.Equal(t, sync.OutcomeCompletedWithErrors, run.Outcome)
		assert.Equal(t, int64(1), run.Report(sync.KindProducts).PagesFailed)
		assert.Equal(t, int64(1), run.Report(sync.KindCustomers).Upserted)
		assert.Equal(t, int64(1), run.Report(sync.KindOrders).Upserted)
	})

	t.Run("auth failure aborts the whole run", func(t *testing.T) {
		client := new(mockPlatformClient)
		runs := new(mockRunRepo)

		client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "").
			Return(sync.Page{}, sync.ErrAuthFailed)
		runs.On("Save", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(new(mockTenantRepo), client, new(mockUpsertStore), runs, zap.NewNop())
		run, err := svc.SyncTenant(ctx, tenant, sync.TriggerManual)
		require.NoError(t, err)

		assert.Equal(t, sync.OutcomeFailedAuth, run.Outcome)
		assert.Equal(t, int64(0), run.Report(sync.KindCustomers).Upserted)
		// later kinds were never attempted
		client.AssertNotCalled(t, "FetchPage", mock.Anything, tenant, sync.KindProducts, "")
	})

	t.Run("malformed records are skipped, not fatal", func(t *testing.T) {
		client := new(mockPlatformClient)
		upserts := new(mockUpsertStore)
		runs := new(mockRunRepo)

		client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "").
			Return(sync.Page{Records: []sync.RawRecord{record("C1"), {"email": "no-id@example.com"}}}, nil)
		emptyPages(client, tenant, sync.KindProducts, sync.KindOrders)

		upserts.On("UpsertCustomer", mock.Anything, tenant.ID, mock.Anything).
			Return(sync.UpsertResult{Inserted: true}, nil).Once()
		runs.On("Save", mock.Anything, mock.Anything).Return(nil)

		svc := NewService(new(mockTenantRepo), client, upserts, runs, zap.NewNop())
		run, err := svc.SyncTenant(ctx, tenant, sync.TriggerScheduled)
		require.NoError(t, err)

		report := run.Report(sync.KindCustomers)
		assert.Equal(t, int64(2), report.Fetched)
		assert.Equal(t, int64(1), report.Upserted)
		assert.Equal(t, int64(1), report.Skipped)
		assert.Equal(t, sync.OutcomeCompletedWithErrors, run.Outcome)
	})

	t.Run("tokenless tenant is not syncable", func(t *testing.T) {
		bare := store.NewTenant("bare", "Bare", "bare.myshopify.com", "")
		svc := NewService(new(mockTenantRepo), new(mockPlatformClient), new(mockUpsertStore), new(mockRunRepo), zap.NewNop())

		_, err := svc.SyncTenant(ctx, bare, sync.TriggerManual)
		assert.ErrorIs(t, err, sync.ErrTenantNotSyncable)
	})
}

func TestSyncTenantSingleFlight(t *testing.T) {
	ctx := context.Background()
	tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")

	client := new(mockPlatformClient)
	runs := new(mockRunRepo)

	started := make(chan struct{})
	release := make(chan struct{})
	var startOnce stdsync.Once
	client.On("FetchPage", mock.Anything, tenant, sync.KindCustomers, "").
		Run(func(mock.Arguments) {
			startOnce.Do(func() {
				close(started)
				<-release
			})
		}).
		Return(sync.Page{}, nil)
	emptyPages(client, tenant, sync.KindProducts, sync.KindOrders)
	runs.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(new(mockTenantRepo), client, new(mockUpsertStore), runs, zap.NewNop())

	var wg stdsync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		_, firstErr = svc.SyncTenant(ctx, tenant, sync.TriggerScheduled)
	}()

	<-started
	// second dispatch while the first is mid-run
	_, err := svc.SyncTenant(ctx, tenant, sync.TriggerScheduled)
	assert.ErrorIs(t, err, sync.ErrRunInFlight)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)

	// after the first run finishes the tenant can run again
	run, err := svc.SyncTenant(ctx, tenant, sync.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, sync.OutcomeCompleted, run.Outcome)
}

func TestDispatchTenant(t *testing.T) {
	ctx := context.Background()
	tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")

	t.Run("reserves the slot and runs in the background", func(t *testing.T) {
		tenants := new(mockTenantRepo)
		client := new(mockPlatformClient)
		runs := new(mockRunRepo)

		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		emptyPages(client, tenant, sync.KindCustomers, sync.KindProducts, sync.KindOrders)

		saved := make(chan struct{})
		runs.On("Save", mock.Anything, mock.Anything).
			Run(func(mock.Arguments) { close(saved) }).
			Return(nil)

		svc := NewService(tenants, client, new(mockUpsertStore), runs, zap.NewNop())
		require.NoError(t, svc.DispatchTenant(ctx, tenant.ID, sync.TriggerManual))

		<-saved
		client.AssertExpectations(t)
	})

	t.Run("unknown tenant is refused before dispatch", func(t *testing.T) {
		tenants := new(mockTenantRepo)
		tenants.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		svc := NewService(tenants, new(mockPlatformClient), new(mockUpsertStore), new(mockRunRepo), zap.NewNop())
		err := svc.DispatchTenant(ctx, uuid.New(), sync.TriggerManual)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("tokenless tenant is refused before dispatch", func(t *testing.T) {
		bare := store.NewTenant("bare", "Bare", "bare.myshopify.com", "")
		tenants := new(mockTenantRepo)
		tenants.On("FindByID", mock.Anything, bare.ID).Return(bare, nil)

		svc := NewService(tenants, new(mockPlatformClient), new(mockUpsertStore), new(mockRunRepo), zap.NewNop())
		err := svc.DispatchTenant(ctx, bare.ID, sync.TriggerManual)
		assert.ErrorIs(t, err, sync.ErrTenantNotSyncable)
	})

	t.Run("duplicate dispatch reports the in-flight run synchronously", func(t *testing.T) {
		tenants := new(mockTenantRepo)
		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)

		svc := NewService(tenants, new(mockPlatformClient), new(mockUpsertStore), new(mockRunRepo), zap.NewNop())
		require.True(t, svc.acquire(tenant.ID))
		defer svc.release(tenant.ID)

		err := svc.DispatchTenant(ctx, tenant.ID, sync.TriggerManual)
		assert.ErrorIs(t, err, sync.ErrRunInFlight)
	})
}

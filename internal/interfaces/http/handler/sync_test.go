package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsync "github.com/shopsync/backend/internal/application/sync"
	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/domain/store"
	domainsync "github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/interfaces/http/router"
)

// fakeTenantByIDRepo resolves tenants by id from a fixed set
type fakeTenantByIDRepo struct {
	store.TenantRepository
	byID map[uuid.UUID]*store.Tenant
}

func (f *fakeTenantByIDRepo) FindByID(_ context.Context, id uuid.UUID) (*store.Tenant, error) {
	if t, ok := f.byID[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

// gatedClient blocks every fetch until the gate opens
type gatedClient struct {
	gate chan struct{}
}

func (c *gatedClient) FetchPage(_ context.Context, _ *store.Tenant, _ domainsync.EntityKind, _ string) (domainsync.Page, error) {
	if c.gate != nil {
		<-c.gate
	}
	return domainsync.Page{}, nil
}

// fakeRunRepo signals when a run report lands
type fakeRunRepo struct {
	saved chan *domainsync.Run
}

func (f *fakeRunRepo) Save(_ context.Context, run *domainsync.Run) error {
	if f.saved != nil {
		f.saved <- run
	}
	return nil
}

func (f *fakeRunRepo) ListByTenant(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]*domainsync.Run, int64, error) {
	return nil, 0, nil
}

func setupSyncServer(t *testing.T, tenants []*store.Tenant, client domainsync.PlatformClient, runs domainsync.RunRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	byID := make(map[uuid.UUID]*store.Tenant, len(tenants))
	for _, tenant := range tenants {
		byID[tenant.ID] = tenant
	}
	svc := appsync.NewService(&fakeTenantByIDRepo{byID: byID}, client, &fakeUpsertStore{}, runs, zap.NewNop())

	engine := gin.New()
	router.NewRouter(engine).
		Register(NewSyncHandler(svc, zap.NewNop())).
		Setup()
	return engine
}

func triggerRun(engine *gin.Engine, tenantID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/tenants/"+tenantID+"/run", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestTriggerRun(t *testing.T) {
	tenant := store.NewTenant("acme", "Acme", "acme.myshopify.com", "shpat_x")

	t.Run("dispatch is acknowledged and the run executes", func(t *testing.T) {
		runs := &fakeRunRepo{saved: make(chan *domainsync.Run, 1)}
		engine := setupSyncServer(t, []*store.Tenant{tenant}, &gatedClient{}, runs)

		w := triggerRun(engine, tenant.ID.String())
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "dispatched", decodeStatus(t, w))

		run := <-runs.saved
		assert.Equal(t, domainsync.TriggerManual, run.Trigger)
		assert.Equal(t, domainsync.OutcomeCompleted, run.Outcome)
	})

	t.Run("duplicate dispatch reports already_running", func(t *testing.T) {
		gate := make(chan struct{})
		runs := &fakeRunRepo{saved: make(chan *domainsync.Run, 1)}
		engine := setupSyncServer(t, []*store.Tenant{tenant}, &gatedClient{gate: gate}, runs)

		first := triggerRun(engine, tenant.ID.String())
		require.Equal(t, http.StatusAccepted, first.Code)
		require.Equal(t, "dispatched", decodeStatus(t, first))

		second := triggerRun(engine, tenant.ID.String())
		assert.Equal(t, http.StatusAccepted, second.Code)
		assert.Equal(t, "already_running", decodeStatus(t, second))

		close(gate)
		<-runs.saved
	})

	t.Run("unknown tenant is a 404, not a silent dispatch", func(t *testing.T) {
		engine := setupSyncServer(t, nil, &gatedClient{}, &fakeRunRepo{})

		w := triggerRun(engine, uuid.NewString())
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("tokenless tenant is refused with 422", func(t *testing.T) {
		bare := store.NewTenant("bare", "Bare", "bare.myshopify.com", "")
		engine := setupSyncServer(t, []*store.Tenant{bare}, &gatedClient{}, &fakeRunRepo{})

		w := triggerRun(engine, bare.ID.String())
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/shopsync/backend/internal/application/sync"
	"github.com/shopsync/backend/internal/domain/shared"
	domainsync "github.com/shopsync/backend/internal/domain/sync"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// SyncHandler exposes manual sync triggering and run history
type SyncHandler struct {
	BaseHandler
	syncer *appsync.Service
	logger *zap.Logger
}

// NewSyncHandler creates a sync handler
func NewSyncHandler(syncer *appsync.Service, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		syncer: syncer,
		logger: logger.Named("sync-handler"),
	}
}

// RegisterRoutes registers sync routes
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	syncGroup := rg.Group("/sync/tenants/:id")
	{
		syncGroup.POST("/run", h.TriggerRun)
		syncGroup.GET("/runs", h.ListRuns)
	}
}

// RunResponse is the API shape of a run report
type RunResponse struct {
	ID         uuid.UUID               `json:"id"`
	TenantID   uuid.UUID               `json:"tenant_id"`
	Trigger    string                  `json:"trigger"`
	Outcome    string                  `json:"outcome"`
	StartedAt  time.Time               `json:"started_at"`
	FinishedAt time.Time               `json:"finished_at"`
	Reports    []domainsync.KindReport `json:"reports"`
	Error      string                  `json:"error,omitempty"`
}

func toRunResponse(run *domainsync.Run) RunResponse {
	return RunResponse{
		ID:         run.ID,
		TenantID:   run.TenantID,
		Trigger:    string(run.Trigger),
		Outcome:    string(run.Outcome),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Reports:    run.Reports,
		Error:      run.Error,
	}
}

// TriggerRun dispatches a manual sync for the tenant. The run
// executes in the background, but tenant lookup, eligibility, and the
// single-flight reservation happen before responding: a duplicate
// dispatch is acknowledged as already_running, an unknown or
// ineligible tenant is refused.
func (h *SyncHandler) TriggerRun(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid tenant id")
		return
	}
	tenantID := uuid.MustParse(req.ID)

	err := h.syncer.DispatchTenant(c.Request.Context(), tenantID, domainsync.TriggerManual)
	switch {
	case errors.Is(err, domainsync.ErrRunInFlight):
		h.Accepted(c, gin.H{"status": "already_running", "tenant_id": tenantID})
	case err != nil:
		h.HandleError(c, err)
	default:
		h.logger.Info("manual sync dispatched", zap.String("tenant_id", tenantID.String()))
		h.Accepted(c, gin.H{"status": "dispatched", "tenant_id": tenantID})
	}
}

// ListRuns returns persisted run reports for the tenant
func (h *SyncHandler) ListRuns(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid tenant id")
		return
	}

	filter, ok := bindFilter(c, h.BaseHandler)
	if !ok {
		return
	}

	runs, total, err := h.syncer.RunHistory(c.Request.Context(), uuid.MustParse(req.ID), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]RunResponse, len(runs))
	for i, run := range runs {
		out[i] = toRunResponse(run)
	}
	h.SuccessWithMeta(c, out, total, filter.Page, filter.PageSize)
}

// bindFilter parses common pagination query parameters
func bindFilter(c *gin.Context, base BaseHandler) (shared.Filter, bool) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		base.BadRequest(c, "Invalid pagination parameters")
		return shared.Filter{}, false
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}
	filter.Search = req.Search
	return filter, true
}

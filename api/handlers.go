/*
handlers.go - HTTP API handlers for the budget projection engine

PURPOSE:
  Exposes plan storage and the projection calculator via REST API. Handles
  HTTP request/response and JSON serialization; every number comes from the
  budget package.

ENDPOINTS:
  Plans:
    GET    /api/plans                          List plans
    POST   /api/plans                          Create plan from config
    GET    /api/plans/{id}                     Get plan
    PUT    /api/plans/{id}                     Create or replace plan
    DELETE /api/plans/{id}                     Delete plan

  Projections:
    GET    /api/plans/{id}/projection?month=N  Monthly budget table
    GET    /api/plans/{id}/projection/year     Total row for every month
    GET    /api/plans/{id}/distribution        Months whose shares != 100%

  Calculator (no storage):
    POST   /api/calc/project                   Project one month
    POST   /api/calc/split                     Split a month into decades
    POST   /api/calc/aggregate                 Total row over products

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid input (bad month, schedule, distribution or plan)
  - 404: Plan not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo plans
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/budget-engine/budget"
	"github.com/warp/budget-engine/factory"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   budget.PlanStore
	Factory *factory.PlanFactory
	Logger  *zap.Logger
}

// NewHandler creates a new handler with the given store.
func NewHandler(store budget.PlanStore, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Factory: factory.NewPlanFactory(),
		Logger:  logger,
	}
}

// =============================================================================
// PLAN HANDLERS
// =============================================================================

// ListPlans returns all plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.Store.List(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list plans", err)
		return
	}

	dtos := make([]PlanDTO, len(plans))
	for i := range plans {
		dtos[i] = h.toPlanDTO(&plans[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPlan returns a single plan.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.loadPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toPlanDTO(plan))
}

// CreatePlan creates a plan. A missing ID is generated.
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Config.ID == "" {
		req.Config.ID = uuid.NewString()
	}
	h.savePlan(w, r, req.Config, http.StatusCreated)
}

// PutPlan creates or replaces the plan at the URL's ID.
func (h *Handler) PutPlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.Config.ID = chi.URLParam(r, "id")
	h.savePlan(w, r, req.Config, http.StatusOK)
}

func (h *Handler) savePlan(w http.ResponseWriter, r *http.Request, config factory.PlanJSON, status int) {
	plan, err := h.Factory.FromJSON(config)
	if err != nil {
		h.writeDomainError(w, "Invalid plan", err)
		return
	}

	saved, err := h.Store.Save(r.Context(), *plan)
	if err != nil {
		h.writeDomainError(w, "Failed to save plan", err)
		return
	}

	h.Logger.Info("plan saved",
		zap.String("plan_id", string(saved.ID)),
		zap.Int("version", saved.Version),
		zap.Int("products", len(saved.Lines)))
	writeJSON(w, status, h.toPlanDTO(&saved))
}

// DeletePlan removes a plan.
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.Delete(r.Context(), budget.PlanID(id)); err != nil {
		h.writeDomainError(w, "Failed to delete plan", err)
		return
	}
	h.Logger.Info("plan deleted", zap.String("plan_id", id))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// GetProjection returns the budget table for ?month=N.
func (h *Handler) GetProjection(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "month query parameter must be an integer 1-12", err)
		return
	}

	plan, err := h.loadPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get plan", err)
		return
	}

	proj, err := plan.Project(budget.Month(month))
	if err != nil {
		h.writeDomainError(w, "Failed to project plan", err)
		return
	}

	dto := ProjectionDTO{
		PlanID:   string(proj.PlanID),
		Month:    int(proj.Month),
		Lines:    make([]LineProjectionDTO, len(proj.Lines)),
		Totals:   toTotalsDTO(proj.Totals),
		Balanced: proj.Balanced,
	}
	for i, l := range proj.Lines {
		dto.Lines[i] = LineProjectionDTO{ProductID: string(l.ProductID), Name: l.Name, Split: toSplitDTO(l.Split)}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetYearProjection returns the Total row for all twelve months.
func (h *Handler) GetYearProjection(w http.ResponseWriter, r *http.Request) {
	plan, err := h.loadPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get plan", err)
		return
	}

	rows, err := plan.ProjectYear()
	if err != nil {
		h.writeDomainError(w, "Failed to project plan", err)
		return
	}

	dto := YearProjectionDTO{PlanID: string(plan.ID), Months: make([]MonthTotalsDTO, len(rows))}
	for i, row := range rows {
		dto.Months[i] = MonthTotalsDTO{Month: int(row.Month), Totals: toTotalsDTO(row.Totals), Balanced: row.Balanced}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetDistributionReport lists every month's shares and flags the ones that
// don't add up to 100%.
func (h *Handler) GetDistributionReport(w http.ResponseWriter, r *http.Request) {
	plan, err := h.loadPlan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get plan", err)
		return
	}

	unbalanced := plan.Distribution.UnbalancedMonths()
	dto := DistributionReportDTO{
		PlanID:           string(plan.ID),
		Balanced:         len(unbalanced) == 0,
		UnbalancedMonths: monthsToInts(unbalanced),
		Months:           make([]MonthShareDTO, len(plan.Distribution)),
	}
	for i, d := range plan.Distribution {
		dto.Months[i] = MonthShareDTO{
			Month:    i + 1,
			D1:       d.D1,
			D2:       d.D2,
			D3:       d.D3,
			Sum:      toFloat(d.Sum()),
			Balanced: d.IsBalanced(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// CalcProject projects a base value to one month.
func (h *Handler) CalcProject(w http.ResponseWriter, r *http.Request) {
	var req ProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	total, err := budget.ProjectMonth(decimal.NewFromFloat(req.BaseValue), budget.GrowthSchedule(req.GrowthRates), budget.Month(req.Month))
	if err != nil {
		h.writeDomainError(w, "Projection failed", err)
		return
	}
	writeJSON(w, http.StatusOK, ProjectResponse{Month: req.Month, Total: toFloat(total)})
}

// CalcSplit splits a month quantity into decades.
func (h *Handler) CalcSplit(w http.ResponseWriter, r *http.Request) {
	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	dist := toDistribution(req.Distribution)
	s, err := budget.SplitByDecade(decimal.NewFromFloat(req.MonthTotal), dist)
	if err != nil {
		h.writeDomainError(w, "Split failed", err)
		return
	}
	writeJSON(w, http.StatusOK, SplitResponse{Split: toSplitDTO(s), Balanced: dist.IsBalanced()})
}

// CalcAggregate returns the Total row for a set of products.
func (h *Handler) CalcAggregate(w http.ResponseWriter, r *http.Request) {
	var req AggregateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	totals, err := budget.Aggregate(
		toProductLines(req.Products),
		budget.GrowthSchedule(req.GrowthRates),
		toYearDistribution(req.DecadeDistribution),
		budget.Month(req.Month),
	)
	if err != nil {
		h.writeDomainError(w, "Aggregation failed", err)
		return
	}
	writeJSON(w, http.StatusOK, toTotalsDTO(totals))
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) loadPlan(ctx context.Context, id string) (*budget.Plan, error) {
	return h.Store.Get(ctx, budget.PlanID(id))
}

func (h *Handler) toPlanDTO(p *budget.Plan) PlanDTO {
	return PlanDTO{
		Config:           h.Factory.ToJSON(p),
		Version:          p.Version,
		UnbalancedMonths: monthsToInts(p.Distribution.UnbalancedMonths()),
		CreatedAt:        formatTime(p.CreatedAt),
		UpdatedAt:        formatTime(p.UpdatedAt),
	}
}

// writeDomainError maps budget errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case budget.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case budget.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// resetter is implemented by stores that can be wiped for demo scenarios.
type resetter interface {
	Reset(ctx context.Context) error
}

var errResetUnsupported = errors.New("store does not support reset")

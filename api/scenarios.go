/*
scenarios.go - Demo plans for testing and demonstrations

PURPOSE:
  Provides pre-built plans that populate the store with the simulation's
  worked exercises. Each scenario is a plan config run through the factory,
  so it goes through the same validation as a client-supplied plan.

AVAILABLE SCENARIOS:
  demo:      Three products, no growth, standard 40/33/27 split
  growth:    Demo products with +10% in February and a summer ramp
  seasonal:  Month-specific decade splits, March deliberately unbalanced

USAGE VIA API:
  POST /api/scenarios/load   {"scenario_id": "growth"}   reset + load
  POST /api/scenarios/demo                               add demo plan
  POST /api/scenarios/reset                              clear all plans

NOTE:
  Loading a scenario resets the store. Only use in development/demo
  environments.

SEE ALSO:
  - factory/presets.go: Demo plan JSON
  - handlers.go: Plan handlers
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/warp/budget-engine/factory"
	"go.uber.org/zap"
)

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "demo",
		Name:        "Demo Plan",
		Description: "Three products, flat year, standard 40/33/27 decade split",
	},
	{
		ID:          "growth",
		Name:        "Growth Year",
		Description: "+10% in February, +5% from June to August, -20% in December",
	},
	{
		ID:          "seasonal",
		Name:        "Seasonal Split",
		Description: "Front-loaded winter decades; March shares sum to 90%",
	},
}

// scenarioPlans maps scenario IDs to their plan config.
var scenarioPlans = map[string]func() string{
	"demo": func() string {
		return factory.DemoPlanJSON("demo", "Demo Plan")
	},
	"growth": func() string {
		return `{
			"id": "growth",
			"name": "Growth Year",
			"year": 2025,
			"growth_rates": [0, 10, 0, 0, 0, 5, 0, 0, 0, 0, 0, -20],
			"products": [
				{"id": "product-1", "name": "Product 1", "base_quantity": 2650},
				{"id": "product-2", "name": "Product 2", "base_quantity": 1920},
				{"id": "product-3", "name": "Product 3", "base_quantity": 1060}
			]
		}`
	},
	"seasonal": func() string {
		return `{
			"id": "seasonal",
			"name": "Seasonal Split",
			"year": 2025,
			"decade_distribution": [
				{"d1": 50, "d2": 30, "d3": 20},
				{"d1": 50, "d2": 30, "d3": 20},
				{"d1": 40, "d2": 30, "d3": 20},
				{"d1": 40, "d2": 33, "d3": 27},
				{"d1": 40, "d2": 33, "d3": 27},
				{"d1": 30, "d2": 35, "d3": 35},
				{"d1": 30, "d2": 35, "d3": 35},
				{"d1": 30, "d2": 35, "d3": 35},
				{"d1": 40, "d2": 33, "d3": 27},
				{"d1": 40, "d2": 33, "d3": 27},
				{"d1": 35, "d2": 35, "d3": 30},
				{"d1": 25, "d2": 35, "d3": 40}
			],
			"products": [
				{"id": "heaters", "name": "Heaters", "base_quantity": 800},
				{"id": "fans", "name": "Fans", "base_quantity": 450}
			]
		}`
	},
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// LoadScenario resets the store and loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	planJSON, ok := scenarioPlans[req.ScenarioID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", fmt.Errorf("scenario %q", req.ScenarioID))
		return
	}

	if err := h.reset(r); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}

	plan, err := h.Factory.ParsePlan(planJSON())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}
	saved, err := h.Store.Save(r.Context(), *plan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	h.Logger.Info("scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID, "plan_id": string(saved.ID)})
}

// LoadDemoPlan adds a fresh copy of the demo plan without touching other plans.
func (h *Handler) LoadDemoPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.Factory.ParsePlan(factory.DemoPlanJSON(uuid.NewString(), "Demo Plan"))
	if err != nil {
		h.writeDomainError(w, "Failed to build demo plan", err)
		return
	}

	saved, err := h.Store.Save(r.Context(), *plan)
	if err != nil {
		h.writeDomainError(w, "Failed to save demo plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.toPlanDTO(&saved))
}

// ResetStore deletes all plans.
func (h *Handler) ResetStore(w http.ResponseWriter, r *http.Request) {
	if err := h.reset(r); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.Logger.Warn("store reset")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) reset(r *http.Request) error {
	rs, ok := h.Store.(resetter)
	if !ok {
		return errResetUnsupported
	}
	return rs.Reset(r.Context())
}

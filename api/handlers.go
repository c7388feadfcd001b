/*
handlers.go - HTTP handler implementations

PURPOSE:
  Implements the API endpoints. Handlers decode requests, compile
  situations, run simulations, and convert results to DTOs. Each
  calculation gets a fresh simulation and a UUID for tracing; nothing is
  shared between requests except the immutable registry and parameter
  resolver.

ENDPOINTS:
  POST /api/calculate           Evaluate variables for a situation
  GET  /api/variables           List registered variables
  GET  /api/variables/{name}    Describe one variable
  GET  /api/parameters/{path}   Resolve a parameter for a period
  GET  /api/healthz             Liveness probe

ERROR MAPPING:
  Definition-side failures (unknown variable, unknown parameter, period
  mismatch, cycles) are the client's problem: 400. Anything else is a 500.

SEE ALSO:
  - server.go: Router wiring
  - dto.go: Request and response shapes
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/fiscal-engine/engine"
	"github.com/warp/fiscal-engine/scenario"
)

// Handler serves the calculation API over one registry and parameter
// resolver. Both are immutable, so a single handler serves all requests.
type Handler struct {
	Registry *engine.Registry
	Params   engine.ParameterResolver
}

// NewHandler creates a handler over a registry and parameter resolver.
func NewHandler(registry *engine.Registry, params engine.ParameterResolver) *Handler {
	return &Handler{Registry: registry, Params: params}
}

// =============================================================================
// CALCULATION ENDPOINT
// =============================================================================

// Calculate evaluates the requested variables for a situation.
// POST /api/calculate
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.Variables) == 0 {
		writeError(w, http.StatusBadRequest, "No variables requested", nil)
		return
	}

	period, err := engine.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	pop, inputs, err := scenario.Compile(h.Registry, req.Situation, period)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid situation", err)
		return
	}
	sim := engine.NewSimulation(h.Registry, h.Params, pop, inputs)

	resp := CalculateResponse{
		CalculationID: uuid.New().String(),
		Period:        period.String(),
		Results:       make(map[string]VariableResultDTO, len(req.Variables)),
	}

	for _, name := range req.Variables {
		def, ok := h.Registry.Lookup(name)
		if !ok {
			writeError(w, http.StatusBadRequest, "Unknown variable: "+name, nil)
			return
		}
		varPeriod := variablePeriod(def, period)

		v, err := sim.Calculate(name, varPeriod)
		if err != nil {
			writeCalculationError(w, name, err)
			return
		}

		resp.Results[name] = VariableResultDTO{
			Entity: string(def.Entity),
			Period: varPeriod.String(),
			Values: toResultValues(def, entityIDs(pop, def.Entity), v),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// variablePeriod adjusts the request period to the variable's granularity:
// a yearly variable asked for during a monthly run evaluates at the
// surrounding year. The opposite direction stays as-is and fails in the
// engine, because a year has no single value for a monthly variable.
func variablePeriod(def *engine.Definition, period engine.Period) engine.Period {
	if def.DefinitionPeriod == engine.GranularityYear && period.IsMonth() {
		return period.ThisYear()
	}
	return period
}

func entityIDs(pop *engine.Population, entity engine.Entity) []string {
	if entity == engine.HouseholdEntity {
		return pop.HouseholdIDs()
	}
	return pop.PersonIDs()
}

// =============================================================================
// VARIABLE ENDPOINTS
// =============================================================================

// ListVariables returns all registered variables.
// GET /api/variables
func (h *Handler) ListVariables(w http.ResponseWriter, r *http.Request) {
	names := h.Registry.Names()
	dtos := make([]VariableDTO, 0, len(names))
	for _, name := range names {
		if def, ok := h.Registry.Lookup(name); ok {
			dtos = append(dtos, toVariableDTO(def))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetVariable describes one variable.
// GET /api/variables/{name}
func (h *Handler) GetVariable(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	def, ok := h.Registry.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Variable not found: "+name, nil)
		return
	}
	writeJSON(w, http.StatusOK, toVariableDTO(def))
}

// =============================================================================
// PARAMETER ENDPOINT
// =============================================================================

// GetParameter resolves one parameter path for a period.
// GET /api/parameters/{path}?period=2025
func (h *Handler) GetParameter(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	periodStr := r.URL.Query().Get("period")
	if periodStr == "" {
		writeError(w, http.StatusBadRequest, "Missing period query parameter", nil)
		return
	}
	period, err := engine.ParsePeriod(periodStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	tree, err := h.Params.ParametersAt(period)
	if err != nil {
		if errors.Is(err, engine.ErrNoParameters) {
			writeError(w, http.StatusNotFound, "No parameters in effect for "+period.String(), err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to resolve parameters", err)
		return
	}

	dto := ParameterDTO{Path: path, Period: period.String()}
	if v, err := tree.Float(path); err == nil {
		dto.Value = &v
		writeJSON(w, http.StatusOK, dto)
		return
	}
	scale, err := tree.Scale(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "Parameter not found: "+path, err)
		return
	}
	for _, b := range scale.Brackets() {
		dto.Brackets = append(dto.Brackets, BracketDTO{Threshold: b.Threshold, Rate: b.Rate})
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HEALTH
// =============================================================================

// Health is the liveness probe.
// GET /api/healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeCalculationError(w http.ResponseWriter, name string, err error) {
	status := http.StatusInternalServerError
	if engine.IsClientError(err) {
		status = http.StatusBadRequest
	}
	writeError(w, status, "Failed to calculate "+name, err)
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

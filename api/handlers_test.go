package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/fiscal-engine/api"
	"github.com/warp/fiscal-engine/dutchtax"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	registry, params := dutchtax.NewSystem()
	return api.NewRouter(api.NewHandler(registry, params))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func calculateBody(variables ...string) map[string]any {
	return map[string]any{
		"period": "2025-01",
		"persons": []map[string]any{
			{"id": "alice", "inputs": map[string]any{"salary": 3000}},
			{"id": "bob", "inputs": map[string]any{"salary": map[string]any{"2025": 24000}}},
		},
		"households": []map[string]any{
			{"id": "h1", "members": []string{"alice", "bob"}, "inputs": map[string]any{
				"accommodation_size":       100,
				"housing_occupancy_status": "owner",
			}},
		},
		"variables": variables,
	}
}

func TestCalculate_HappyPath(t *testing.T) {
	// GIVEN: A couple with salaries and an owned 100 m2 home
	// WHEN: Calculating person- and household-level variables for 2025-01
	// THEN: Results come back per entity, keyed by the request's IDs
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calculate",
		calculateBody("household_income", "housing_tax", "income_tax"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.CalculateResponse](t, rec)
	_, err := uuid.Parse(resp.CalculationID)
	assert.NoError(t, err)
	assert.Equal(t, "2025-01", resp.Period)

	income := resp.Results["household_income"]
	assert.Equal(t, "household", income.Entity)
	assert.Equal(t, "2025-01", income.Period)
	assert.Equal(t, 5000.0, income.Values["h1"])

	// The yearly housing tax evaluates at the surrounding year.
	housing := resp.Results["housing_tax"]
	assert.Equal(t, "2025", housing.Period)
	assert.Equal(t, 1000.0, housing.Values["h1"])

	tax := resp.Results["income_tax"]
	assert.Equal(t, "person", tax.Entity)
	assert.Contains(t, tax.Values, "alice")
	assert.Contains(t, tax.Values, "bob")
}

func TestCalculate_RoundsToCents(t *testing.T) {
	// disposable_income deducts a twelfth of the housing tax, which is not
	// a round number of cents before the DTO conversion.
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calculate",
		calculateBody("disposable_income"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.CalculateResponse](t, rec)
	got, ok := resp.Results["disposable_income"].Values["h1"].(float64)
	require.True(t, ok)

	cents := got * 100
	assert.InDelta(t, cents, float64(int64(cents+0.5)), 1e-6, "value %v is not whole cents", got)
}

func TestCalculate_EnumResultsAreSymbols(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/calculate",
		calculateBody("housing_occupancy_status"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.CalculateResponse](t, rec)
	assert.Equal(t, "owner", resp.Results["housing_occupancy_status"].Values["h1"])
}

func TestCalculate_Validation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name   string
		mutate func(body map[string]any)
		status int
	}{
		{"bad period", func(b map[string]any) { b["period"] = "whenever" }, http.StatusBadRequest},
		{"no variables", func(b map[string]any) { b["variables"] = []string{} }, http.StatusBadRequest},
		{"unknown variable", func(b map[string]any) { b["variables"] = []string{"no_such"} }, http.StatusBadRequest},
		{"unknown input", func(b map[string]any) {
			b["persons"] = []map[string]any{{"id": "a", "inputs": map[string]any{"bogus": 1}}}
			b["households"] = []map[string]any{{"id": "h", "members": []string{"a"}}}
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := calculateBody("income_tax")
			tt.mutate(body)
			rec := doJSON(t, router, http.MethodPost, "/api/calculate", body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			resp := decode[api.ErrorResponse](t, rec)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCalculate_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calculate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListVariables(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/variables", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	dtos := decode[[]api.VariableDTO](t, rec)
	byName := make(map[string]api.VariableDTO, len(dtos))
	for _, d := range dtos {
		byName[d.Name] = d
	}

	salary := byName["salary"]
	assert.Equal(t, "person", salary.Entity)
	assert.Equal(t, "month", salary.DefinitionPeriod)
	assert.True(t, salary.Divisible)
	assert.False(t, salary.HasFormula)

	tax := byName["income_tax"]
	assert.True(t, tax.HasFormula)

	occupancy := byName["housing_occupancy_status"]
	assert.Equal(t, "household", occupancy.Entity)
	assert.Contains(t, occupancy.EnumSymbols, "owner")
}

func TestGetVariable(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/variables/housing_tax", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[api.VariableDTO](t, rec)
	assert.Equal(t, "housing_tax", dto.Name)
	assert.Equal(t, "year", dto.DefinitionPeriod)

	rec = doJSON(t, router, http.MethodGet, "/api/variables/no_such", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetParameter(t *testing.T) {
	router := newTestRouter(t)

	// Scalar
	rec := doJSON(t, router, http.MethodGet, "/api/parameters/taxes.housing_tax.rate?period=2024", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto := decode[api.ParameterDTO](t, rec)
	require.NotNil(t, dto.Value)
	assert.Equal(t, 10.0, *dto.Value)

	// Scale
	rec = doJSON(t, router, http.MethodGet, "/api/parameters/taxes.income_tax_brackets?period=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dto = decode[api.ParameterDTO](t, rec)
	require.Len(t, dto.Brackets, 2)
	assert.Equal(t, 0.3582, dto.Brackets[0].Rate)

	// Missing period, unknown path, period before any set
	rec = doJSON(t, router, http.MethodGet, "/api/parameters/taxes.housing_tax.rate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/parameters/taxes.nope?period=2024", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, router, http.MethodGet, "/api/parameters/taxes.housing_tax.rate?period=2019", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

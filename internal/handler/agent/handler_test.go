package agent

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopia-ai/advisor/backend/internal/model/agent"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

func setupRouter() *chi.Mux {
	r := chi.NewRouter()
	New(agent.NewMemoryStore(agent.Seed())).RegisterRoutes(r)
	return r
}

func TestListAgents(t *testing.T) {
	rec := httptest.NewRecorder()
	setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/agents", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var agents []agent.Agent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &agents))
	require.Len(t, agents, 4)
	assert.Equal(t, plan.IdeaAgent, agents[0].ID)
}

func TestListModulesInCanonicalOrder(t *testing.T) {
	rec := httptest.NewRecorder()
	setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/modules", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var modules []moduleEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &modules))
	require.Len(t, modules, 7)
	assert.Equal(t, plan.IdeaConcept, modules[0].ID)
	assert.Equal(t, plan.FinancialPlan, modules[6].ID)
	assert.Equal(t, plan.FinanceAgent, modules[6].Agent)
	assert.Equal(t, "Target Market", modules[1].Title)
}

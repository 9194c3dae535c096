package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

func TestSeedCoversEveryModuleOnce(t *testing.T) {
	owners := map[plan.Module]plan.AgentType{}
	for _, a := range Seed() {
		for _, m := range a.Modules {
			_, dup := owners[m]
			require.False(t, dup, "module %s owned twice", m)
			owners[m] = a.ID
		}
	}
	assert.Len(t, owners, len(plan.Modules()))
	assert.Equal(t, plan.FinanceAgent, owners[plan.FinancialPlan])
}

func TestMemoryStoreFindByID(t *testing.T) {
	store := NewMemoryStore(Seed())

	got, ok := store.FindByID(plan.OperationsAgent)
	require.True(t, ok)
	assert.Equal(t, "OperationsAgentGPT", got.Name)

	_, ok = store.FindByID("unknown")
	assert.False(t, ok)
}

func TestMemoryStoreListReturnsCopy(t *testing.T) {
	store := NewMemoryStore(Seed())
	list := store.List()
	list[0].Name = "mutated"

	assert.NotEqual(t, "mutated", store.List()[0].Name)
}

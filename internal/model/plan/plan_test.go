package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryModuleHasAgent(t *testing.T) {
	for _, m := range Modules() {
		_, ok := moduleAgents[m]
		assert.True(t, ok, "module %s has no agent", m)
	}
	assert.Equal(t, FinanceAgent, AgentFor(FinancialPlan))
	assert.Equal(t, StrategyAgent, AgentFor(MarketingStrategy))
	assert.Equal(t, OperationsAgent, AgentFor(OperationsPlan))
	assert.Equal(t, IdeaAgent, AgentFor(IdeaConcept))
}

func TestParseMode(t *testing.T) {
	mode, ok := ParseMode("")
	require.True(t, ok)
	assert.Equal(t, Entrepreneur, mode)

	mode, ok = ParseMode(" Consultant ")
	require.True(t, ok)
	assert.Equal(t, Consultant, mode)

	_, ok = ParseMode("investor")
	assert.False(t, ok)
}

func TestDefaultModule(t *testing.T) {
	assert.Equal(t, IdeaConcept, DefaultModule(Entrepreneur))
	assert.Equal(t, BusinessModel, DefaultModule(Consultant))
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, StatusEmpty, StatusFor(0, 5))
	assert.Equal(t, StatusPartial, StatusFor(2, 5))
	assert.Equal(t, StatusComplete, StatusFor(5, 5))
	assert.Equal(t, StatusComplete, StatusFor(1, 0))
}

func TestSynonymsCoverEveryModuleAndAreValid(t *testing.T) {
	seen := map[Module]bool{}
	for _, s := range Synonyms() {
		require.True(t, s.Module.Valid(), "phrase %q maps to unknown module", s.Phrase)
		seen[s.Module] = true
	}
	assert.Len(t, seen, len(Modules()))
}

func TestSynonymsReturnsCopy(t *testing.T) {
	table := Synonyms()
	table[0].Module = FinancialPlan
	assert.Equal(t, IdeaConcept, Synonyms()[0].Module)
}

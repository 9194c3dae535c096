package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

func TestDecide(t *testing.T) {
	cases := []struct {
		name     string
		state    State
		override plan.Module
		want     Decision
	}{
		{
			name:  "first turn falls back to entrepreneur default",
			state: State{Mode: plan.Entrepreneur},
			want:  Decision{Agent: plan.IdeaAgent, Module: plan.IdeaConcept},
		},
		{
			name:  "first turn falls back to consultant default",
			state: State{Mode: plan.Consultant},
			want:  Decision{Agent: plan.StrategyAgent, Module: plan.BusinessModel},
		},
		{
			name:     "first turn override is not a transition",
			state:    State{Mode: plan.Entrepreneur},
			override: plan.FinancialPlan,
			want:     Decision{Agent: plan.FinanceAgent, Module: plan.FinancialPlan},
		},
		{
			name:  "keeps current module",
			state: State{Mode: plan.Entrepreneur, CurrentAgent: plan.StrategyAgent, CurrentModule: plan.TargetMarket},
			want:  Decision{Agent: plan.StrategyAgent, Module: plan.TargetMarket},
		},
		{
			name:     "override changes module",
			state:    State{Mode: plan.Entrepreneur, CurrentModule: plan.IdeaConcept},
			override: plan.FinancialPlan,
			want:     Decision{Agent: plan.FinanceAgent, Module: plan.FinancialPlan, IsTransition: true},
		},
		{
			name:     "override equal to current is not a transition",
			state:    State{Mode: plan.Entrepreneur, CurrentModule: plan.OperationsPlan},
			override: plan.OperationsPlan,
			want:     Decision{Agent: plan.OperationsAgent, Module: plan.OperationsPlan},
		},
		{
			name:     "same agent different module is still a transition",
			state:    State{Mode: plan.Consultant, CurrentModule: plan.TargetMarket},
			override: plan.ValueProposition,
			want:     Decision{Agent: plan.StrategyAgent, Module: plan.ValueProposition, IsTransition: true},
		},
		{
			name:     "invalid override is ignored",
			state:    State{Mode: plan.Entrepreneur, CurrentModule: plan.TargetMarket},
			override: "pricing",
			want:     Decision{Agent: plan.StrategyAgent, Module: plan.TargetMarket},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.state, tc.override))
		})
	}
}

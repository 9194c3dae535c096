package agent

import "github.com/utopia-ai/advisor/backend/internal/model/plan"

// Store exposes agent retrieval for handlers and the prompt builder.
type Store interface {
	List() []Agent
	FindByID(id plan.AgentType) (Agent, bool)
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Agent
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied agents.
func NewMemoryStore(items []Agent) *MemoryStore {
	return &MemoryStore{items: append([]Agent(nil), items...)}
}

// List returns the predefined agent list.
func (s *MemoryStore) List() []Agent {
	return append([]Agent(nil), s.items...)
}

// FindByID looks up an agent by identifier.
func (s *MemoryStore) FindByID(id plan.AgentType) (Agent, bool) {
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return Agent{}, false
}

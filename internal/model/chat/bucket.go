package chat

import (
	"time"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// ContextBucket accumulates the structured facts gathered for one module.
type ContextBucket struct {
	Module           plan.Module           `json:"moduleType"`
	Data             map[string]string     `json:"data"`
	Summary          string                `json:"summary,omitempty"`
	CompletionStatus plan.CompletionStatus `json:"completionStatus"`
	LastUpdated      time.Time             `json:"lastUpdated"`
}

// NewContextBucket returns an empty bucket for m.
func NewContextBucket(m plan.Module, now time.Time) *ContextBucket {
	return &ContextBucket{
		Module:           m,
		Data:             map[string]string{},
		CompletionStatus: plan.StatusEmpty,
		LastUpdated:      now,
	}
}

// Merge 以增量方式合并新提取的事实：同名键覆盖，其余键保留。
// summary 为空时保留旧摘要。
func (b *ContextBucket) Merge(facts map[string]string, summary string, completeThreshold int, now time.Time) {
	if b.Data == nil {
		b.Data = make(map[string]string, len(facts))
	}
	for k, v := range facts {
		b.Data[k] = v
	}
	if summary != "" {
		b.Summary = summary
	}
	b.CompletionStatus = plan.StatusFor(len(b.Data), completeThreshold)
	b.LastUpdated = now
}

// Clone returns a deep copy of the bucket.
func (b *ContextBucket) Clone() *ContextBucket {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Data = make(map[string]string, len(b.Data))
	for k, v := range b.Data {
		cp.Data[k] = v
	}
	return &cp
}

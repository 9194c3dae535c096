// Package module maps free-text phrases to canonical business plan modules.
package module

import (
	"strings"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// Resolver 将文本映射到模块。先精确匹配同义词表，再按表顺序做双向子串匹配，首个命中者胜出。
//
// 子串匹配会命中意外的短键（例如 "marketing" 先命中 "market"），这是已知的启发式风险，
// 保持表顺序不变以免改变可观察行为。
type Resolver struct {
	table []plan.Synonym
	exact map[string]plan.Module
}

// NewResolver builds a resolver over the fixed synonym table.
func NewResolver() *Resolver {
	return NewResolverWithTable(plan.Synonyms())
}

// NewResolverWithTable builds a resolver over a caller supplied ordered table.
func NewResolverWithTable(table []plan.Synonym) *Resolver {
	exact := make(map[string]plan.Module, len(table))
	for _, s := range table {
		if _, dup := exact[s.Phrase]; !dup {
			exact[s.Phrase] = s.Module
		}
	}
	return &Resolver{table: append([]plan.Synonym(nil), table...), exact: exact}
}

// Resolve returns the module for text, or false when nothing matches.
// A false result means "do not change module".
func (r *Resolver) Resolve(text string) (plan.Module, bool) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return "", false
	}

	if m, ok := r.exact[normalized]; ok {
		return m, true
	}

	for _, s := range r.table {
		if strings.Contains(normalized, s.Phrase) || strings.Contains(s.Phrase, normalized) {
			return s.Module, true
		}
	}
	return "", false
}

package plan

// Synonym maps a free-text phrase to its canonical module.
type Synonym struct {
	Phrase string
	Module Module
}

// synonyms 的顺序是可观察行为的一部分：部分匹配时第一个命中者胜出，禁止重排。
var synonyms = []Synonym{
	{"idea", IdeaConcept},
	{"concept", IdeaConcept},
	{"business idea", IdeaConcept},
	{"idea concept", IdeaConcept},

	{"target", TargetMarket},
	{"market", TargetMarket},
	{"target market", TargetMarket},
	{"customers", TargetMarket},
	{"target customers", TargetMarket},
	{"customer", TargetMarket},

	{"value", ValueProposition},
	{"proposition", ValueProposition},
	{"value proposition", ValueProposition},
	{"unique value", ValueProposition},

	{"business", BusinessModel},
	{"model", BusinessModel},
	{"business model", BusinessModel},
	{"revenue", BusinessModel},
	{"revenue model", BusinessModel},

	{"marketing", MarketingStrategy},
	{"strategy", MarketingStrategy},
	{"marketing strategy", MarketingStrategy},
	{"promotion", MarketingStrategy},

	{"operations", OperationsPlan},
	{"plan", OperationsPlan},
	{"operations plan", OperationsPlan},
	{"operation", OperationsPlan},

	{"financial", FinancialPlan},
	{"finance", FinancialPlan},
	{"financial plan", FinancialPlan},
	{"finances", FinancialPlan},
	{"budget", FinancialPlan},
}

// Synonyms returns a copy of the synonym table in its fixed order.
func Synonyms() []Synonym {
	return append([]Synonym(nil), synonyms...)
}

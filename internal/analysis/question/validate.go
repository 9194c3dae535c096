package question

import (
	"math"
	"strconv"
	"strings"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

// DefaultMinOpenLength 是开放式问题答案的最短字符数。
const DefaultMinOpenLength = 3

// Rejection explains why an answer was not accepted. The reason is user facing.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// Validator checks answers against a question's declared type. It never mutates state.
type Validator struct {
	MinOpenLength int
	// FoldChoiceCase 为 true 时 choice 答案忽略大小写匹配。
	FoldChoiceCase bool
}

// NewValidator returns a validator with default thresholds.
func NewValidator() Validator {
	return Validator{MinOpenLength: DefaultMinOpenLength}
}

// Validate 返回 nil 表示接受，否则返回 *Rejection。
func (v Validator) Validate(q chat.Question, answer string) error {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return &Rejection{Reason: "answer cannot be empty"}
	}

	switch q.Type {
	case chat.QuestionNumeric:
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return &Rejection{Reason: "please enter a valid number"}
		}
	case chat.QuestionYesNo:
		switch strings.ToLower(trimmed) {
		case "yes", "no", "y", "n":
		default:
			return &Rejection{Reason: "please answer with yes or no"}
		}
	case chat.QuestionChoice:
		if len(q.Options) > 0 && !v.matchesOption(q.Options, trimmed) {
			return &Rejection{Reason: "please select one of the provided options"}
		}
	case chat.QuestionOpen:
		minLen := v.MinOpenLength
		if minLen <= 0 {
			minLen = DefaultMinOpenLength
		}
		if len([]rune(trimmed)) < minLen {
			return &Rejection{Reason: "answer needs more detail"}
		}
	}

	return nil
}

func (v Validator) matchesOption(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer || (v.FoldChoiceCase && strings.EqualFold(opt, answer)) {
			return true
		}
	}
	return false
}

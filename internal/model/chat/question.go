package chat

import "time"

// QuestionType 是问题协议允许的答案类型。
type QuestionType string

const (
	QuestionOpen    QuestionType = "open"
	QuestionChoice  QuestionType = "choice"
	QuestionNumeric QuestionType = "numeric"
	QuestionYesNo   QuestionType = "yes_no"
)

// ParseQuestionType returns false for tokens outside the protocol.
func ParseQuestionType(raw string) (QuestionType, bool) {
	switch QuestionType(raw) {
	case QuestionOpen, QuestionChoice, QuestionNumeric, QuestionYesNo:
		return QuestionType(raw), true
	default:
		return "", false
	}
}

// Question 是代理在回复中嵌入的结构化提问。
// ID 由服务端生成；Context 保留作者写入的原始标识，仅供分析与上下文使用。
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
	Context  string       `json:"context"`
}

// Clone copies the options slice.
func (q Question) Clone() Question {
	cp := q
	if q.Options != nil {
		cp.Options = append([]string(nil), q.Options...)
	}
	return cp
}

// QuestionResponse 是用户针对某个问题的回答。
type QuestionResponse struct {
	QuestionID string    `json:"questionId"`
	Answer     string    `json:"answer"`
	Timestamp  time.Time `json:"timestamp"`
}

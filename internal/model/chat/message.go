package chat

import "time"

// Role 标识消息发送方。
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one utterance in the conversation history.
// Only Responses may change after the message is appended.
type Message struct {
	ID        string             `json:"id"`
	Role      Role               `json:"role"`
	Content   string             `json:"content"`
	Agent     string             `json:"agent,omitempty"`
	Module    string             `json:"module,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
	Questions []Question         `json:"questions,omitempty"`
	Responses []QuestionResponse `json:"questionResponses,omitempty"`
}

// Clone copies the message including its question and response slices.
func (m Message) Clone() Message {
	cp := m
	if m.Questions != nil {
		cp.Questions = make([]Question, len(m.Questions))
		for i, q := range m.Questions {
			cp.Questions[i] = q.Clone()
		}
	}
	if m.Responses != nil {
		cp.Responses = append([]QuestionResponse(nil), m.Responses...)
	}
	return cp
}

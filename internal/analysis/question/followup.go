package question

import (
	"fmt"
	"strings"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

// FollowUp builds the instruction sent to the agent after a question is answered.
func FollowUp(q chat.Question, resp chat.QuestionResponse) string {
	return fmt.Sprintf("User answered question about %s: %q\nResponse: %q\n\n"+
		"Please acknowledge their response and provide relevant insights or follow-up discussion based on their answer.",
		q.Context, q.Text, resp.Answer)
}

// FormatForAI renders a question/answer pair as plain context text.
func FormatForAI(q chat.Question, resp chat.QuestionResponse) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(q.Text)
	b.WriteString("\nAnswer: ")
	b.WriteString(resp.Answer)
	if q.Type == chat.QuestionChoice && len(q.Options) > 0 {
		b.WriteString("\n(Selected from options: ")
		b.WriteString(strings.Join(q.Options, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Unanswered 返回尚无对应回答的问题，保持原有顺序。
func Unanswered(questions []chat.Question, responses []chat.QuestionResponse) []chat.Question {
	answered := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = struct{}{}
	}

	out := make([]chat.Question, 0, len(questions))
	for _, q := range questions {
		if _, ok := answered[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

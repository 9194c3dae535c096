package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

// Compose 将当前模块的数据和其它非空模块的数据序列化为模型上下文。
// 模块按规范顺序遍历，数据键按字典序编码，同一会话状态总是产生相同输出。
func Compose(session *chat.Session) string {
	var b strings.Builder

	if session.HasModule() {
		if bucket, ok := session.ContextBuckets[session.CurrentModule]; ok && bucket != nil {
			fmt.Fprintf(&b, "Current module: %s\n", session.CurrentModule)
			fmt.Fprintf(&b, "Module data: %s\n", encodeData(bucket.Data))
			if bucket.Summary != "" {
				fmt.Fprintf(&b, "Module summary: %s\n", bucket.Summary)
			}
		}
	}

	headerWritten := false
	for _, m := range plan.Modules() {
		if m == session.CurrentModule {
			continue
		}
		bucket, ok := session.ContextBuckets[m]
		if !ok || bucket == nil || bucket.CompletionStatus == plan.StatusEmpty || len(bucket.Data) == 0 {
			continue
		}
		if !headerWritten {
			b.WriteString("\nInformation from other modules:\n")
			headerWritten = true
		}
		fmt.Fprintf(&b, "%s:\n", m)
		fmt.Fprintf(&b, "- Data: %s\n", encodeData(bucket.Data))
		if bucket.Summary != "" {
			fmt.Fprintf(&b, "- Summary: %s\n", bucket.Summary)
		}
		b.WriteString("\n")
	}

	return b.String()
}

type bucketSnapshot struct {
	Data             map[string]string     `json:"data"`
	Summary          string                `json:"summary"`
	CompletionStatus plan.CompletionStatus `json:"completionStatus"`
}

// transitionPreamble instructs the agent to acknowledge the module change and
// carries a snapshot of the module being left.
func transitionPreamble(from, to plan.Module, previous *chat.ContextBucket) string {
	snapshot := bucketSnapshot{Data: map[string]string{}, CompletionStatus: plan.StatusEmpty}
	if previous != nil {
		snapshot = bucketSnapshot{
			Data:             previous.Data,
			Summary:          previous.Summary,
			CompletionStatus: previous.CompletionStatus,
		}
		if snapshot.Data == nil {
			snapshot.Data = map[string]string{}
		}
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		encoded = []byte("{}")
	}

	return fmt.Sprintf("The user is transitioning from %s to %s.\n"+
		"Acknowledge this transition and guide them through the %s module.\n"+
		"Reference relevant information from previous modules if applicable.\n"+
		"Previous module data: %s\n\n", from, to, to, encoded)
}

// encodeData renders a data map as JSON; encoding/json sorts map keys.
func encodeData(data map[string]string) string {
	if data == nil {
		return "{}"
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

// Package question 实现代理回复中内联问题标记的解析、清理与答案校验。
//
// 标记语法：
//
//	[QUESTION:<id>:<type>:<text>]
//	[OPTIONS:<opt1>|<opt2>|...]
//
// <type> 取值 open、choice、numeric、yes_no。格式错误的标记被静默丢弃，
// 但无论是否配对成功，所有标记都会从用户可见文本中移除。
package question

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/utopia-ai/advisor/backend/internal/model/chat"
)

var (
	questionMarker    = regexp.MustCompile(`\[QUESTION:([^:\]]*):([^:\]]*):([^\]]*)\]`)
	optionsMarker     = regexp.MustCompile(`\[OPTIONS:([^\]]*)\]`)
	anyQuestionMarker = regexp.MustCompile(`\[QUESTION:[^\]]*\]`)
	anyOptionsMarker  = regexp.MustCompile(`\[OPTIONS:[^\]]*\]`)

	innerSpaces = regexp.MustCompile(`(\S)[ \t]{2,}`)
	lineTails   = regexp.MustCompile(`[ \t]+\n`)
	blankLines  = regexp.MustCompile(`\n\s*\n`)
)

var newID = func() string {
	return uuid.NewString()
}

// Parsed is the outcome of decoding one raw agent reply.
type Parsed struct {
	Questions []chat.Question
	Text      string
}

// Decode 解析问题并返回清理后的文本。
func Decode(raw string) Parsed {
	return Parsed{
		Questions: Parse(raw),
		Text:      Clean(raw),
	}
}

type optionsAt struct {
	pos     int
	options []string
	bound   bool
}

// Parse 按标记出现顺序返回问题。
// 每个 choice 问题绑定其后第一个尚未被绑定的 OPTIONS 标记；其它类型的问题不消费选项。
func Parse(raw string) []chat.Question {
	var pool []*optionsAt
	for _, loc := range optionsMarker.FindAllStringSubmatchIndex(raw, -1) {
		opts := splitOptions(raw[loc[2]:loc[3]])
		pool = append(pool, &optionsAt{pos: loc[0], options: opts})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].pos < pool[j].pos })

	var questions []chat.Question
	for _, loc := range questionMarker.FindAllStringSubmatchIndex(raw, -1) {
		author := strings.TrimSpace(raw[loc[2]:loc[3]])
		qType, ok := chat.ParseQuestionType(strings.TrimSpace(raw[loc[4]:loc[5]]))
		text := strings.TrimSpace(raw[loc[6]:loc[7]])
		if !ok || author == "" || text == "" {
			continue
		}

		q := chat.Question{
			ID:       newID(),
			Text:     text,
			Type:     qType,
			Required: true,
			Context:  author,
		}
		if qType == chat.QuestionChoice {
			q.Options = bindOptions(pool, loc[0])
		}
		questions = append(questions, q)
	}

	return questions
}

func bindOptions(pool []*optionsAt, after int) []string {
	for _, candidate := range pool {
		if candidate.bound || candidate.pos <= after {
			continue
		}
		candidate.bound = true
		if len(candidate.options) == 0 {
			return nil
		}
		return append([]string(nil), candidate.options...)
	}
	return nil
}

func splitOptions(raw string) []string {
	parts := strings.Split(raw, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if opt := strings.TrimSpace(p); opt != "" {
			out = append(out, opt)
		}
	}
	return out
}

// Clean 移除所有问题与选项标记并压缩多余空白。
func Clean(raw string) string {
	text := anyQuestionMarker.ReplaceAllString(raw, "")
	text = anyOptionsMarker.ReplaceAllString(text, "")
	text = innerSpaces.ReplaceAllString(text, "$1 ")
	text = lineTails.ReplaceAllString(text, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

package module

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/utopia-ai/advisor/backend/internal/model/plan"
)

var (
	// 显式切换短语，例如 "let's move to the financial plan"、"switch to marketing section"。
	explicitTrigger = regexp.MustCompile(`(?i)\b(?:move on to|move to|switch to|go back to|go to|work on|focus on|talk about|turn to|discuss)\s+(?:the\s+)?([a-z][a-z\s]*)`)
	// 退化形式 "let's <phrase>" / "can we <phrase>"。
	looseTrigger = regexp.MustCompile(`(?i)\b(?:let[’']?s|let us|can we)\s+(?:the\s+)?([a-z][a-z\s]*)`)

	// 尾部的 "module"/"section" 以及 "now"、"please" 等副词不属于模块短语。
	trailingFiller = regexp.MustCompile(`(?i)(?:\s+(?:module|section|now|please|next|then|instead|first))+\s*$`)
)

// minPhraseLength 以下的短语会在子串匹配中命中过多同义词。
const minPhraseLength = 3

var pronouns = map[string]struct{}{
	"it": {}, "this": {}, "that": {}, "these": {}, "those": {}, "them": {},
}

// meaningful 过滤代词与过短的捕获，例如 "let's talk about it"。
func meaningful(phrase string) bool {
	if utf8.RuneCountInString(phrase) < minPhraseLength {
		return false
	}
	for _, word := range strings.Fields(phrase) {
		if _, ok := pronouns[word]; !ok {
			return true
		}
	}
	return false
}

// RequestedPhrase 提取用户消息中的模块切换短语。
func RequestedPhrase(message string) (string, bool) {
	for _, trigger := range []*regexp.Regexp{explicitTrigger, looseTrigger} {
		match := trigger.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		phrase := strings.TrimSpace(match[1])
		phrase = trailingFiller.ReplaceAllString(phrase, "")
		phrase = strings.ToLower(strings.TrimSpace(phrase))
		if phrase == "" {
			continue
		}
		if !meaningful(phrase) {
			return "", false
		}
		return phrase, true
	}
	return "", false
}

// DetectRequest returns the module explicitly requested by a transition phrase.
func (r *Resolver) DetectRequest(message string) (plan.Module, bool) {
	phrase, ok := RequestedPhrase(message)
	if !ok {
		return "", false
	}
	return r.Resolve(phrase)
}

package agent

import (
	"regexp"
	"strings"
)

// ParseKind tags the variant held by a ParseResult.
type ParseKind int

const (
	KindMalformed ParseKind = iota
	KindFinalAnswer
	KindAction
)

func (k ParseKind) String() string {
	switch k {
	case KindFinalAnswer:
		return "final_answer"
	case KindAction:
		return "action"
	default:
		return "malformed"
	}
}

// ParseResult is the decoded form of one model generation.
//
//   - KindFinalAnswer: Text holds the answer.
//   - KindAction: Tool and Input name the call; Thought holds any preceding reasoning.
//   - KindMalformed: Text is the raw output and Reason explains what was missing.
type ParseResult struct {
	Kind    ParseKind
	Text    string
	Tool    string
	Input   string
	Thought string
	Reason  string
}

const (
	missingActionMsg = "Invalid Format: Missing 'Action:' after 'Thought:'"
	missingInputMsg  = "Invalid Format: Missing 'Action Input:' after 'Action:'"
	emptyActionMsg   = "Invalid Format: 'Action:' must name a tool"
)

var (
	finalAnswerRe = regexp.MustCompile(`(?m)^[ \t]*Final Answer[ \t]*:`)
	actionRe      = regexp.MustCompile(`(?m)^[ \t]*Action[ \t]*:[ \t]*(.*)$`)
	actionInputRe = regexp.MustCompile(`(?m)^[ \t]*Action Input[ \t]*:`)
	markerRe      = regexp.MustCompile(`(?m)^[ \t]*(?:Thought|Action|Action Input|Observation|Final Answer)[ \t]*:`)
	thoughtRe     = regexp.MustCompile(`^[ \t]*Thought[ \t]*:`)
)

// ParseOutput classifies raw model output. A final answer wins over an
// action when both are present. Markers are case-sensitive and must start a line.
func ParseOutput(text string) ParseResult {
	if loc := finalAnswerRe.FindStringIndex(text); loc != nil {
		return ParseResult{
			Kind: KindFinalAnswer,
			Text: strings.TrimSpace(text[loc[1]:]),
		}
	}

	action := actionRe.FindStringSubmatchIndex(text)
	if action == nil {
		return ParseResult{Kind: KindMalformed, Text: text, Reason: missingActionMsg}
	}
	tool := strings.TrimSpace(text[action[2]:action[3]])
	if tool == "" {
		return ParseResult{Kind: KindMalformed, Text: text, Reason: emptyActionMsg}
	}

	rest := text[action[1]:]
	input := actionInputRe.FindStringIndex(rest)
	if input == nil {
		return ParseResult{Kind: KindMalformed, Text: text, Reason: missingInputMsg}
	}
	body := rest[input[1]:]
	if next := markerRe.FindStringIndex(body); next != nil {
		body = body[:next[0]]
	}

	return ParseResult{
		Kind:    KindAction,
		Tool:    tool,
		Input:   cleanActionInput(body),
		Thought: cleanThought(text[:action[0]]),
	}
}

// cleanActionInput trims the input and drops one pair of surrounding double quotes.
func cleanActionInput(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func cleanThought(s string) string {
	s = strings.TrimSpace(s)
	if loc := thoughtRe.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
	}
	return strings.TrimSpace(s)
}

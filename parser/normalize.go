package parser

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	FullwidthColon    = "："
	FullwidthQuestion = "？"
)

var (
	parenthesizedPattern = regexp.MustCompile(`\(.*\)`)
	bracketedPattern     = regexp.MustCompile(`\[.*\]`)
)

// Rule is a single named text normalization step.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Apply runs rules over s in order.
func Apply(rules []Rule, s string) string {
	for _, rule := range rules {
		s = rule.Apply(s)
	}
	return s
}

// StripParenthesized removes everything from the first "(" to the last ")".
var StripParenthesized = Rule{Name: "strip_parenthesized", Apply: func(s string) string {
	return parenthesizedPattern.ReplaceAllString(s, "")
}}

// StripBracketed removes everything from the first "[" to the last "]".
var StripBracketed = Rule{Name: "strip_bracketed", Apply: func(s string) string {
	return bracketedPattern.ReplaceAllString(s, "")
}}

var FullwidthColonRule = Rule{Name: "fullwidth_colon", Apply: func(s string) string {
	return strings.ReplaceAll(s, ":", FullwidthColon)
}}

var FullwidthQuestionRule = Rule{Name: "fullwidth_question", Apply: func(s string) string {
	return strings.ReplaceAll(s, "?", FullwidthQuestion)
}}

var TrimSpace = Rule{Name: "trim_space", Apply: strings.TrimSpace}

// RemoveWhitespace drops every whitespace rune, including interior ones.
var RemoveWhitespace = Rule{Name: "remove_whitespace", Apply: func(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}}

// TitleRules normalize the main title heading.
var TitleRules = []Rule{StripParenthesized, StripBracketed, FullwidthColonRule, FullwidthQuestionRule, TrimSpace}

// SubtitleRules normalize the subtitle heading.
var SubtitleRules = []Rule{FullwidthColonRule, FullwidthQuestionRule, TrimSpace}

// TagRules normalize a single category link.
var TagRules = []Rule{RemoveWhitespace}

// MergeTitle joins title and subtitle with a fullwidth colon when the
// subtitle is present.
func MergeTitle(title, subtitle string) string {
	if subtitle == "" {
		return title
	}
	return title + FullwidthColon + subtitle
}

// dropLastRune removes the trailing unit marker (쪽, 년, 월, 일) from a token.
func dropLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

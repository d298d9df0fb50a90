// Package command turns free-text operator commands into structured intents.
//
// Matching is a fixed, ordered rule table: the first rule whose pattern matches and
// yields a usable intent wins. There is no scoring and no backtracking across rules.
package command

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind tags the variant of an Intent
type Kind string

const (
	KindChange  Kind = "change"
	KindList    Kind = "list"
	KindHelp    Kind = "help"
	KindUnknown Kind = "unknown"
)

// Intent is the structured result of interpreting a command.
// TargetKey and NewValue are only set for KindChange.
type Intent struct {
	Kind      Kind
	TargetKey string
	NewValue  string
	Raw       string
}

// rule pairs a pattern with the constructor that builds an intent from its match.
// A constructor returns false when the match is unusable (e.g. an empty target),
// which sends evaluation on to the next rule.
type rule struct {
	pattern *regexp.Regexp
	build   func(match []string, raw string) (Intent, bool)
}

var rules = []rule{
	{
		pattern: regexp.MustCompile(`(?i)(?:change|rename|update)\s+(?:the\s+)?(?:label\s+)?["']?(\w+)["']?\s+(?:label\s+)?(?:to|as)\s+["']?([^"']+)["']?`),
		build:   buildChange,
	},
	{
		pattern: regexp.MustCompile(`(?i)(?:change|rename|update)\s+["']?([^"']+)["']?\s+(?:to|as)\s+["']?([^"']+)["']?`),
		build:   buildChange,
	},
	{
		pattern: regexp.MustCompile(`(?i)(?:show|list|get|display)\s+(?:all\s+)?labels?`),
		build:   constant(KindList),
	},
	{
		pattern: regexp.MustCompile(`(?i)help|what can you do|commands`),
		build:   constant(KindHelp),
	},
}

// Interpret maps text to an Intent. It never fails: text that matches no rule
// produces a KindUnknown intent carrying the original text.
func Interpret(text string) Intent {
	normalized := strings.TrimSpace(text)

	for _, r := range rules {
		match := r.pattern.FindStringSubmatch(normalized)
		if match == nil {
			continue
		}
		if intent, ok := r.build(match, text); ok {
			return intent
		}
	}

	return Intent{Kind: KindUnknown, Raw: text}
}

func buildChange(match []string, raw string) (Intent, bool) {
	target := strings.TrimSpace(match[1])
	replacement := strings.TrimSpace(match[2])
	if target == "" || replacement == "" {
		return Intent{}, false
	}

	return Intent{
		Kind:      KindChange,
		TargetKey: strings.ToLower(target),
		NewValue:  TitleCase(replacement),
		Raw:       raw,
	}, true
}

func constant(kind Kind) func([]string, string) (Intent, bool) {
	return func(_ []string, raw string) (Intent, bool) {
		return Intent{Kind: kind, Raw: raw}, true
	}
}

// TitleCase uppercases the first rune of every whitespace-separated token.
// The remaining runes, including existing capitals, are left as they are.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	atTokenStart := true
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		if unicode.IsSpace(r) {
			atTokenStart = true
			b.WriteRune(r)
			continue
		}
		if atTokenStart {
			r = unicode.ToUpper(r)
			atTokenStart = false
		}
		b.WriteRune(r)
	}

	return b.String()
}

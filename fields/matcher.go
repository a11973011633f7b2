package fields

import (
	"regexp"
	"strings"

	"github.com/tsawler/docform/model"
)

// Pattern names reported on detected fields.
const (
	PatternUnderline = "underline"
	PatternBracket   = "bracket"
	PatternKeyword   = "keyword"
)

// Match is the result of a successful matcher. An empty Label asks the
// detector to assign a numbered default.
type Match struct {
	Label   string
	Type    model.FieldType
	Pattern string
}

// Matcher recognizes a fill-in marker in normalized paragraph text.
type Matcher interface {
	Match(text string) (Match, bool)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(text string) (Match, bool)

// Match calls f(text).
func (f MatcherFunc) Match(text string) (Match, bool) {
	return f(text)
}

// DefaultMatchers returns the underline, bracket and keyword matchers in
// evaluation order.
func DefaultMatchers() []Matcher {
	return []Matcher{Underline(), Bracket(), Keyword()}
}

var (
	underlineRe = regexp.MustCompile(`_{3,}`)
	bracketRe   = regexp.MustCompile(`【\s*】|〔\s*〕`)
)

// Underline matches three or more consecutive underscores. The label is the
// text before the first underscore run, without a trailing colon.
func Underline() Matcher {
	return prefixMatcher(underlineRe, PatternUnderline)
}

// Bracket matches an empty 【 】 or 〔 〕 pair.
func Bracket() Matcher {
	return prefixMatcher(bracketRe, PatternBracket)
}

func prefixMatcher(re *regexp.Regexp, pattern string) Matcher {
	return MatcherFunc(func(text string) (Match, bool) {
		loc := re.FindStringIndex(text)
		if loc == nil {
			return Match{}, false
		}
		return Match{
			Label:   labelBefore(text[:loc[0]]),
			Type:    model.FieldText,
			Pattern: pattern,
		}, true
	})
}

func labelBefore(prefix string) string {
	label := strings.TrimSpace(prefix)
	label = strings.TrimRight(label, ":")
	return strings.TrimSpace(label)
}

// KeywordCues are the instruction phrases recognized by Keyword.
var KeywordCues = []string{
	"請填寫", "填寫說明", "說明:",
	"请填写", "填写说明", "说明:",
	"please fill", "fill-in instructions",
}

// Keyword matches paragraphs carrying an explicit fill-in instruction.
// The field becomes a textarea labelled with the paragraph text minus the
// cue words and colons. Colon-terminated cues are removed only together
// with their colon, so the bare word stays part of the label.
func Keyword() Matcher {
	return MatcherFunc(func(text string) (Match, bool) {
		lower := strings.ToLower(text)
		found := false
		for _, cue := range KeywordCues {
			if strings.Contains(lower, cue) {
				found = true
				break
			}
		}
		if !found {
			return Match{}, false
		}

		label := text
		for _, cue := range KeywordCues {
			label = removeFold(label, cue)
		}
		label = strings.ReplaceAll(label, ":", "")
		return Match{
			Label:   strings.TrimSpace(label),
			Type:    model.FieldTextarea,
			Pattern: PatternKeyword,
		}, true
	})
}

// removeFold removes every case-insensitive occurrence of sub from s.
func removeFold(s, sub string) string {
	if sub == "" {
		return s
	}
	lowerSub := strings.ToLower(sub)
	var sb strings.Builder
	for {
		i := indexFold(s, lowerSub)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		sb.WriteString(s[:i])
		s = s[i+len(lowerSub):]
	}
}

// indexFold finds lowerSub in s ignoring ASCII case. Non-ASCII cue words
// have no case, so byte offsets in s and its lower form agree.
func indexFold(s, lowerSub string) int {
	for i := 0; i+len(lowerSub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(lowerSub)], lowerSub) {
			return i
		}
	}
	return -1
}

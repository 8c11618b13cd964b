// Package extract finds a project key in a free-text question using an
// ordered list of pattern rules and a stopword filter.
package extract

import (
	"regexp"
	"strings"
)

// Rule is one pattern in the extractor's priority list. The first capture
// group of Pattern is the candidate project token.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

// RuleBare names the last-resort rule that accepts any short word.
const RuleBare = "bare"

// DefaultRules are tried most specific first.
var DefaultRules = []Rule{
	{Name: "project-prefix", Pattern: regexp.MustCompile(`(?i)\bproject\s+([a-z]{2,10})\b`)},
	{Name: "project-suffix", Pattern: regexp.MustCompile(`(?i)\b([a-z]{2,10})\s+projects?\b`)},
	{Name: "of", Pattern: regexp.MustCompile(`(?i)\bof\s+([a-z]{2,10})\b`)},
	{Name: "for", Pattern: regexp.MustCompile(`(?i)\bfor\s+([a-z]{2,10})\b`)},
	{Name: RuleBare, Pattern: regexp.MustCompile(`(?i)\b([a-z]{2,10})\b`)},
}

// DefaultStopwords are tokens that are never project keys.
var DefaultStopwords = newSet(
	"WHAT", "WHEN", "WHERE", "WHY", "HOW", "WHO", "WHICH", "WHOSE",
	"THE", "IS", "ARE", "WAS", "WERE", "BE", "BEEN", "BEING",
	"OF", "TO", "IN", "ON", "AT", "FOR", "WITH", "FROM", "BY",
	"AND", "OR", "BUT", "IF", "THEN", "ELSE", "THIS", "THAT",
	"STATUS", "PROJECT", "PROJECTS", "SHOW", "TELL", "GIVE",
	"ME", "MY", "YOU", "YOUR", "OUR", "THEIR", "HIS", "HER",
	"ABOUT", "ROADMAP", "SUMMARY", "DETAILS",
)

// Extractor applies rules in order and returns the first token that
// survives the stopword filter.
type Extractor struct {
	rules     []Rule
	stopwords map[string]bool
}

// New returns an extractor with the given rules and stopwords. Nil
// arguments select the defaults.
func New(rules []Rule, stopwords map[string]bool) *Extractor {
	if rules == nil {
		rules = DefaultRules
	}
	if stopwords == nil {
		stopwords = DefaultStopwords
	}
	return &Extractor{rules: rules, stopwords: stopwords}
}

// Default is the extractor used when none is configured.
var Default = New(nil, nil)

// Match is an accepted candidate and the rule that produced it.
type Match struct {
	Key  string
	Rule string
}

// Extract returns the project key found in query, uppercased.
func (e *Extractor) Extract(query string) (string, bool) {
	m, ok := e.Find(query)
	return m.Key, ok
}

// Find is Extract that also reports which rule matched. Within a rule,
// matches are scanned left to right; a rule whose matches are all
// stopwords falls through to the next rule.
func (e *Extractor) Find(query string) (Match, bool) {
	for _, r := range e.rules {
		for _, sub := range r.Pattern.FindAllStringSubmatch(query, -1) {
			if len(sub) < 2 {
				continue
			}
			token := strings.ToUpper(sub[1])
			if e.stopwords[token] {
				continue
			}
			return Match{Key: token, Rule: r.Name}, true
		}
	}
	return Match{}, false
}

// Candidates returns every accepted token in priority order without
// duplicates. Used to pick an alternative when the first candidate is
// not a known project.
func (e *Extractor) Candidates(query string) []Match {
	var out []Match
	seen := map[string]bool{}
	for _, r := range e.rules {
		for _, sub := range r.Pattern.FindAllStringSubmatch(query, -1) {
			if len(sub) < 2 {
				continue
			}
			token := strings.ToUpper(sub[1])
			if e.stopwords[token] || seen[token] {
				continue
			}
			seen[token] = true
			out = append(out, Match{Key: token, Rule: r.Name})
		}
	}
	return out
}

func newSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

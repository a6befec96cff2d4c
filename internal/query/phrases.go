package query

import (
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/cases"

	"github.com/runnerr0/stringlab/internal/storage"
)

// Phrase is one entry of the fixed natural-language query table.
type Phrase struct {
	Text        string `json:"phrase"`
	Description string `json:"description"`
	Filter      Filter `json:"parsed_filters"`
}

// Apply evaluates the phrase's filter over records.
func (p Phrase) Apply(records []storage.Record) []storage.Record {
	return p.Filter.Apply(records)
}

func (p Phrase) clone() Phrase {
	p.Filter = p.Filter.clone()
	return p
}

// phraseTable is the complete set of recognized phrases, in listing order.
// It is never modified after package initialization.
var phraseTable = []Phrase{
	{
		Text:        "all single word palindromic strings",
		Description: "strings made of exactly one word that read the same backwards",
		Filter:      Filter{WordCount: Int(1), IsPalindrome: true},
	},
	{
		Text:        "strings longer than 10 characters",
		Description: "strings with at least 11 non-whitespace characters",
		Filter:      Filter{MinLength: Int(11)},
	},
	{
		Text:        "palindromic strings that contain the first vowel",
		Description: "palindromes containing the letter a",
		Filter:      Filter{IsPalindrome: true, ContainsCharacter: Str("a")},
	},
	{
		Text:        "strings containing the letter z",
		Description: "strings containing the letter z",
		Filter:      Filter{ContainsCharacter: Str("z")},
	},
}

var phraseIndex = func() map[string]int {
	idx := make(map[string]int, len(phraseTable))
	for i, p := range phraseTable {
		idx[NormalizePhrase(p.Text)] = i
	}
	return idx
}()

// NormalizePhrase trims surrounding whitespace and case-folds s.
func NormalizePhrase(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// ResolvePhrase looks up s in the phrase table after normalization.
func ResolvePhrase(s string) (Phrase, error) {
	i, ok := phraseIndex[NormalizePhrase(s)]
	if !ok {
		return Phrase{}, errors.WithHintf(
			errors.Wrapf(ErrUnrecognizedPhrase, "phrase %q", s),
			"recognized phrases: %s", strings.Join(phraseTexts(), "; "))
	}
	return phraseTable[i].clone(), nil
}

// Phrases returns a copy of the phrase table in listing order.
func Phrases() []Phrase {
	out := make([]Phrase, len(phraseTable))
	for i, p := range phraseTable {
		out[i] = p.clone()
	}
	return out
}

func phraseTexts() []string {
	texts := make([]string, len(phraseTable))
	for i, p := range phraseTable {
		texts[i] = p.Text
	}
	return texts
}

// Package query evaluates structured filters and fixed phrase queries
// against stored records.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/analysis"
	"github.com/runnerr0/stringlab/internal/storage"
)

// Query parameter names understood by ParseValues.
const (
	ParamIsPalindrome      = "is_palindrome"
	ParamMinLength         = "min_length"
	ParamMaxLength         = "max_length"
	ParamWordCount         = "word_count"
	ParamContainsCharacter = "contains_character"
)

// Filter is a conjunction of optional constraints. A zero Filter has no
// constraints and matches every record.
//
// IsPalindrome only constrains when true: asking for non-palindromes is
// indistinguishable from not asking.
type Filter struct {
	IsPalindrome      bool    `json:"is_palindrome,omitempty"`
	MinLength         *int    `json:"min_length,omitempty"`
	MaxLength         *int    `json:"max_length,omitempty"`
	WordCount         *int    `json:"word_count,omitempty"`
	ContainsCharacter *string `json:"contains_character,omitempty"`
}

// Int and Str return pointers for building Filter literals.
func Int(n int) *int       { return &n }
func Str(s string) *string { return &s }

// IsEmpty reports whether f imposes no constraint at all.
func (f Filter) IsEmpty() bool {
	return !f.IsPalindrome &&
		f.MinLength == nil &&
		f.MaxLength == nil &&
		f.WordCount == nil &&
		f.ContainsCharacter == nil
}

// clone returns a copy whose pointer fields are not shared with f.
func (f Filter) clone() Filter {
	if f.MinLength != nil {
		f.MinLength = Int(*f.MinLength)
	}
	if f.MaxLength != nil {
		f.MaxLength = Int(*f.MaxLength)
	}
	if f.WordCount != nil {
		f.WordCount = Int(*f.WordCount)
	}
	if f.ContainsCharacter != nil {
		f.ContainsCharacter = Str(*f.ContainsCharacter)
	}
	return f
}

// Match reports whether r satisfies every supplied constraint.
func (f Filter) Match(r storage.Record) bool {
	p := r.Properties
	if f.IsPalindrome && !p.IsPalindrome {
		return false
	}
	if f.MinLength != nil && p.Length < *f.MinLength {
		return false
	}
	if f.MaxLength != nil && p.Length > *f.MaxLength {
		return false
	}
	if f.WordCount != nil && p.WordCount != *f.WordCount {
		return false
	}
	if f.ContainsCharacter != nil && !analysis.ContainsCharacter(*f.ContainsCharacter, r.Value) {
		return false
	}
	return true
}

// Apply returns the records matching f in their original order. An empty
// filter returns all records. The result is never nil.
func (f Filter) Apply(records []storage.Record) []storage.Record {
	out := make([]storage.Record, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Validate rejects negative bounds and inverted length ranges.
func (f Filter) Validate() error {
	bounds := []struct {
		name string
		v    *int
	}{
		{ParamMinLength, f.MinLength},
		{ParamMaxLength, f.MaxLength},
		{ParamWordCount, f.WordCount},
	}
	for _, b := range bounds {
		if b.v != nil && *b.v < 0 {
			return errors.Wrapf(ErrInvalidFilter, "%s must not be negative", b.name)
		}
	}
	if f.MinLength != nil && f.MaxLength != nil && *f.MinLength > *f.MaxLength {
		return errors.Wrapf(ErrInvalidFilter, "min_length %d exceeds max_length %d", *f.MinLength, *f.MaxLength)
	}
	return nil
}

// String describes the constraints, e.g. "is_palindrome=true min_length=5".
func (f Filter) String() string {
	if f.IsEmpty() {
		return "(no filters)"
	}
	var parts []string
	if f.IsPalindrome {
		parts = append(parts, ParamIsPalindrome+"=true")
	}
	if f.MinLength != nil {
		parts = append(parts, ParamMinLength+"="+strconv.Itoa(*f.MinLength))
	}
	if f.MaxLength != nil {
		parts = append(parts, ParamMaxLength+"="+strconv.Itoa(*f.MaxLength))
	}
	if f.WordCount != nil {
		parts = append(parts, ParamWordCount+"="+strconv.Itoa(*f.WordCount))
	}
	if f.ContainsCharacter != nil {
		parts = append(parts, ParamContainsCharacter+"="+strconv.Quote(*f.ContainsCharacter))
	}
	return strings.Join(parts, " ")
}

// ParseValues builds a Filter from URL query parameters. Absent or empty
// parameters impose no constraint.
func ParseValues(q url.Values) (Filter, error) {
	var f Filter

	f.IsPalindrome = strings.EqualFold(q.Get(ParamIsPalindrome), "true")

	ints := []struct {
		name string
		dst  **int
	}{
		{ParamMinLength, &f.MinLength},
		{ParamMaxLength, &f.MaxLength},
		{ParamWordCount, &f.WordCount},
	}
	for _, p := range ints {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Filter{}, errors.Wrapf(ErrInvalidFilter, "%s must be an integer, got %q", p.name, raw)
		}
		*p.dst = Int(n)
	}

	if c := q.Get(ParamContainsCharacter); c != "" {
		f.ContainsCharacter = Str(c)
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

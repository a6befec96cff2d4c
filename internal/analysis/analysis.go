// Package analysis computes the derived properties of a submitted string.
//
// Every function here is pure and total: the same input always yields the
// same output and no input produces an error.
package analysis

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Properties holds the facts derived from a string at insertion time.
type Properties struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	Hash                  string         `json:"hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// Analyze computes all properties of value.
func Analyze(value string) Properties {
	freq := CharacterFrequency(value)
	return Properties{
		Length:                Length(value),
		IsPalindrome:          IsPalindrome(value),
		UniqueCharacters:      len(freq),
		WordCount:             WordCount(value),
		Hash:                  Hash(value),
		CharacterFrequencyMap: freq,
	}
}

// Hash returns the hex-encoded SHA-256 digest of value.
func Hash(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Length counts the runes of value that are not whitespace.
func Length(value string) int {
	n := 0
	for _, r := range value {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// IsPalindrome reports whether the letters and digits of value, lower-cased,
// read the same in both directions. A value with no letters or digits is a
// palindrome.
func IsPalindrome(value string) bool {
	cleaned := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			cleaned = append(cleaned, unicode.ToLower(r))
		}
	}
	for i, j := 0, len(cleaned)-1; i < j; i, j = i+1, j-1 {
		if cleaned[i] != cleaned[j] {
			return false
		}
	}
	return true
}

// WordCount returns the number of whitespace-delimited tokens in value.
func WordCount(value string) int {
	return len(strings.Fields(value))
}

// UniqueCharacters counts distinct runes after removing whitespace and
// lower-casing.
func UniqueCharacters(value string) int {
	return len(CharacterFrequency(value))
}

// CharacterFrequency maps each non-whitespace rune of value, lower-cased, to
// its number of occurrences. The counts always sum to Length(value).
func CharacterFrequency(value string) map[string]int {
	freq := make(map[string]int)
	for _, r := range value {
		if unicode.IsSpace(r) {
			continue
		}
		freq[string(unicode.ToLower(r))]++
	}
	return freq
}

// ContainsCharacter reports whether needle occurs in haystack, ignoring case.
// The haystack is the original, non-normalized value.
func ContainsCharacter(needle, haystack string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/analysis"
)

type analyzedJSON struct {
	Value      string              `json:"value"`
	Properties analysis.Properties `json:"properties"`
}

// Execute implements the go-flags Commander interface for AnalyzeCommand.
func (c *AnalyzeCommand) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("analyze requires at least one string argument")
	}

	results := make([]analyzedJSON, len(args))
	for i, v := range args {
		results[i] = analyzedJSON{Value: v, Properties: analysis.Analyze(v)}
	}

	if wantJSON(c.globals) {
		return printJSON(results)
	}

	for i, r := range results {
		p := r.Properties
		fmt.Printf("%q\n", r.Value)
		fmt.Printf("  Hash:        %s\n", p.Hash)
		fmt.Printf("  Length:      %d\n", p.Length)
		fmt.Printf("  Palindrome:  %s\n", yesNo(p.IsPalindrome))
		fmt.Printf("  Words:       %d\n", p.WordCount)
		fmt.Printf("  Unique:      %d\n", p.UniqueCharacters)
		fmt.Printf("  Frequency:   %s\n", formatFrequency(p.CharacterFrequencyMap))
		if i < len(results)-1 {
			fmt.Println()
		}
	}
	return nil
}

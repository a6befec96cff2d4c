package cli

import (
	"fmt"

	"github.com/runnerr0/stringlab/internal/query"
)

// Execute implements the go-flags Commander interface for PhrasesCommand.
func (c *PhrasesCommand) Execute(args []string) error {
	phrases := query.Phrases()
	if wantJSON(c.globals) {
		return printJSON(phrases)
	}

	fmt.Println("Recognized phrases:")
	for i, p := range phrases {
		fmt.Printf("\n%d. %s\n", i+1, p.Text)
		fmt.Printf("   %s\n", p.Description)
		fmt.Printf("   filters: %s\n", p.Filter)
	}
	return nil
}

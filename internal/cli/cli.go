package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve   *ServeCommand
	Analyze *AnalyzeCommand
	Filter  *FilterCommand
	Phrases *PhrasesCommand
	Status  *StatusCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "stringlab"
	parser.LongDescription = "Analyze strings and serve them over an HTTP API with structured and phrase-based filtering."

	cmds := &commands{
		Serve:   &ServeCommand{globals: &globals, version: version},
		Analyze: &AnalyzeCommand{globals: &globals, version: version},
		Filter:  &FilterCommand{globals: &globals, version: version},
		Phrases: &PhrasesCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Start the HTTP API server", "Start the strings HTTP API and serve until interrupted.", cmds.Serve)
	parser.AddCommand("analyze", "Print the properties of strings", "Compute and print the derived properties of each argument.", cmds.Analyze)
	parser.AddCommand("filter", "Filter strings locally", "Load the arguments into a throwaway store and print those matching the given filters or phrase.", cmds.Filter)
	parser.AddCommand("phrases", "List recognized query phrases", "List the natural-language phrases understood by the filter endpoint.", cmds.Phrases)
	parser.AddCommand("status", "Check a running server", "Query the /health endpoint of a running server.", cmds.Status)

	return parser, &globals, cmds
}

// Run is the main entry point for the stringlab CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("stringlab %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}

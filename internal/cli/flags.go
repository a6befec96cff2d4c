package cli

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to config file" default:""`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" description:"Enable verbose output"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand runs the HTTP API server.
type ServeCommand struct {
	Host     string `long:"host" description:"Override listen host"`
	Port     int    `long:"port" description:"Override listen port"`
	Backend  string `long:"backend" description:"Override storage backend: memory | sqlite"`
	LogLevel string `long:"log-level" description:"Override log level"`

	globals *GlobalFlags
	version string
}

// AnalyzeCommand prints the derived properties of its arguments.
type AnalyzeCommand struct {
	globals *GlobalFlags
	version string
}

// FilterCommand applies structured filters or a phrase to its arguments.
// Numeric flags are kept as strings so they share validation with the
// HTTP query parameters.
type FilterCommand struct {
	Palindrome bool   `long:"palindrome" description:"Only palindromes"`
	MinLength  string `long:"min-length" description:"Minimum length (inclusive)"`
	MaxLength  string `long:"max-length" description:"Maximum length (inclusive)"`
	WordCount  string `long:"word-count" description:"Exact word count"`
	Contains   string `long:"contains" description:"Only strings containing this text (case-insensitive)"`
	Phrase     string `long:"phrase" description:"Natural-language phrase from the phrases list"`

	globals *GlobalFlags
	version string
}

// PhrasesCommand lists the phrase table.
type PhrasesCommand struct {
	globals *GlobalFlags
	version string
}

// StatusCommand queries the health endpoint of a running server.
type StatusCommand struct {
	URL     string `long:"url" description:"Base URL of the server" default:"http://localhost:3000"`
	Timeout int    `long:"timeout" description:"Request timeout in seconds" default:"2"`

	globals *GlobalFlags
	version string
}

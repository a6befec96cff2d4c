package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// healthJSON mirrors the server's /health response.
type healthJSON struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Count   int    `json:"count"`
}

// Execute implements the go-flags Commander interface for StatusCommand.
func (c *StatusCommand) Execute(args []string) error {
	timeout := time.Duration(c.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return c.executeWithClient(&http.Client{Timeout: timeout})
}

// executeWithClient queries the server with a provided client (used by tests).
func (c *StatusCommand) executeWithClient(client *http.Client) error {
	endpoint := strings.TrimRight(c.URL, "/") + "/health"

	resp, err := client.Get(endpoint)
	if err != nil {
		return errors.WithHint(
			errors.Wrapf(err, "contacting %s", endpoint),
			"start the server with: stringlab serve")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf("%s returned %s", endpoint, resp.Status)
	}

	var health healthJSON
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return errors.Wrap(err, "decoding health response")
	}

	if wantJSON(c.globals) {
		return printJSON(health)
	}

	fmt.Println("stringlab Status")
	fmt.Println("================")
	fmt.Printf("Server:        %s\n", c.URL)
	fmt.Printf("Status:        %s\n", health.Status)
	fmt.Printf("Version:       %s\n", health.Version)
	fmt.Printf("Strings:       %d\n", health.Count)
	fmt.Printf("CLI version:   %s\n", c.version)
	return nil
}

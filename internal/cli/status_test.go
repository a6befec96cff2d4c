package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/stringlab/internal/config"
	"github.com/runnerr0/stringlab/internal/logging"
	"github.com/runnerr0/stringlab/internal/server"
	"github.com/runnerr0/stringlab/internal/storage"
)

func startTestServer(t *testing.T, values ...string) *httptest.Server {
	t.Helper()
	store := storage.NewMemoryStore()
	for _, v := range values {
		_, err := store.Insert(context.Background(), v)
		require.NoError(t, err)
	}
	ts := httptest.NewServer(server.New(store, config.DefaultConfig().Server, logging.Nop(), "9.9.9").Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestStatus_Human(t *testing.T) {
	ts := startTestServer(t, "level", "noon")
	cmd := &StatusCommand{URL: ts.URL + "/", globals: &GlobalFlags{}, version: "dev"}

	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithClient(ts.Client())
	})
	require.NoError(t, err)

	assert.Contains(t, output, "stringlab Status")
	assert.Contains(t, output, "Status:        ok")
	assert.Contains(t, output, "Version:       9.9.9")
	assert.Contains(t, output, "Strings:       2")
	assert.Contains(t, output, "CLI version:   dev")
}

func TestStatus_JSON(t *testing.T) {
	ts := startTestServer(t)
	cmd := &StatusCommand{URL: ts.URL, globals: &GlobalFlags{JSON: true}}

	var err error
	output := captureOutput(t, func() {
		err = cmd.executeWithClient(ts.Client())
	})
	require.NoError(t, err)

	var got healthJSON
	require.NoError(t, json.Unmarshal([]byte(output), &got))
	assert.Equal(t, healthJSON{Status: "ok", Version: "9.9.9", Count: 0}, got)
}

func TestStatus_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	cmd := &StatusCommand{URL: ts.URL, globals: &GlobalFlags{}}
	err := cmd.executeWithClient(ts.Client())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestStatus_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cmd := &StatusCommand{URL: url, globals: &GlobalFlags{}}
	err := cmd.executeWithClient(http.DefaultClient)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contacting")
}

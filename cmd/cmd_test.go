package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/lehigh-university-libraries/artexplorer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bronzeRecord = `{
	"info": {"totalrecords": 1},
	"records": [{
		"objectid": 101,
		"title": "Standing Figure",
		"culture": "Chinese",
		"technique": "Bronze casting",
		"classification": "Sculpture",
		"primaryimageurl": "https://nrs.harvard.edu/urn-3:HUAM:101"
	}]
}`

// catalogServer answers every request with body and counts requests
func catalogServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func run(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HARVARD_API_URL", baseURL)
	t.Setenv("HARVARD_API_KEY", "test-key")
	t.Setenv("ARTEXPLORER_PRESET_BANS", "")

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	root := NewRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "browse", "discover", "sample"} {
		assert.True(t, names[want], "missing %s command", want)
	}
	assert.NotNil(t, root.PersistentFlags().Lookup("config"))
	assert.NotNil(t, root.PersistentFlags().Lookup("log-level"))
}

func TestDiscoverJSON(t *testing.T) {
	srv, calls := catalogServer(t, bronzeRecord)

	out, err := run(t, srv.URL, "discover", "--format", "json")
	require.NoError(t, err)

	var record models.ArtworkRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, 101, record.ObjectID)
	assert.Equal(t, "Bronze casting", record.Technique)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDiscoverText(t *testing.T) {
	srv, _ := catalogServer(t, bronzeRecord)

	out, err := run(t, srv.URL, "discover")
	require.NoError(t, err)
	assert.Contains(t, out, "Standing Figure")
	assert.Contains(t, out, "Chinese")
}

func TestDiscoverExhaustsAttempts(t *testing.T) {
	srv, calls := catalogServer(t, bronzeRecord)

	out, err := run(t, srv.URL, "discover", "--ban", "bronze")
	require.NoError(t, err)
	assert.Contains(t, out, "No artwork to display")
	assert.Equal(t, int32(10), calls.Load())
}

func TestAttemptBoundIgnoresEnvironment(t *testing.T) {
	t.Setenv("ARTEXPLORER_MAX_ATTEMPTS", "3")
	srv, calls := catalogServer(t, bronzeRecord)

	_, err := run(t, srv.URL, "discover", "--ban", "bronze")
	require.NoError(t, err)
	assert.Equal(t, int32(10), calls.Load())
}

func TestAttemptBoundIgnoresConfigFile(t *testing.T) {
	srv, calls := catalogServer(t, bronzeRecord)
	path := filepath.Join(t.TempDir(), "artexplorer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_attempts: 2\n"), 0644))

	_, err := run(t, srv.URL, "--config", path, "discover", "--ban", "bronze")
	require.NoError(t, err)
	assert.Equal(t, int32(10), calls.Load())
}

func TestDiscoverTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	out, err := run(t, srv.URL, "discover")
	require.Error(t, err)
	assert.Contains(t, out, "No artwork to display")
}

func TestDiscoverRejectsUnknownFormat(t *testing.T) {
	srv, calls := catalogServer(t, bronzeRecord)

	_, err := run(t, srv.URL, "discover", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestSampleWritesJSONL(t *testing.T) {
	srv, calls := catalogServer(t, bronzeRecord)
	path := filepath.Join(t.TempDir(), "out", "artworks.jsonl")

	out, err := run(t, srv.URL, "sample", "--count", "3", "--output", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 3 of 3 artworks")
	assert.Equal(t, int32(3), calls.Load())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Standing Figure")
}

func TestInvalidLogLevel(t *testing.T) {
	srv, _ := catalogServer(t, bronzeRecord)

	_, err := run(t, srv.URL, "--log-level", "loud", "discover")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log-level")
}

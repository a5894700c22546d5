package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/conceptor/internal/concept"
	"github.com/ppiankov/conceptor/internal/evaluation/evaluationtest"
)

const (
	testProblem = "Freelancers lose hours every month chasing unpaid invoices across email threads and spreadsheets."
	testPersona = "Independent graphic designer billing five to ten small business clients every single month."
)

// execute runs the root command once and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// fakeOllama answers /api/generate with a well-defined evaluation.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	ev, err := json.Marshal(evaluationtest.WellDefined())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    "llama3.1:8b",
			"response": string(ev),
			"done":     true,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := fmt.Sprintf(`store:
  driver: sqlite
  path: %s
evaluator:
  provider: ollama
  model: llama3.1:8b
  base_url: %s
cache:
  enabled: false
rate_limiting:
  requests_per_second: 0
concurrency:
  workers: 2
log:
  level: error
`, filepath.Join(dir, "concepts.db"), baseURL)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "conceptor "+Version+"\n", out)
}

func TestConceptLifecycleCommands(t *testing.T) {
	srv := fakeOllama(t)
	cfg := writeConfig(t, srv.URL)

	out, err := execute(t, "submit", "--config", cfg, "--problem", testProblem, "--persona", testPersona, "--region", "EU")
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	out, err = execute(t, "evaluate", id, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, id+"\twell-defined\n", out)

	out, err = execute(t, "accept", id, "--config", cfg, "--idea-id", "idea-42")
	require.NoError(t, err)
	assert.Equal(t, id+"\taccepted\n", out)

	out, err = execute(t, "show", id, "--config", cfg, "--json=true")
	require.NoError(t, err)
	var snap concept.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, concept.StateAccepted, snap.State)
	assert.Equal(t, "idea-42", snap.IdeaID)
	assert.Equal(t, "EU", snap.Region)
	assert.True(t, snap.WasEvaluated)

	out, err = execute(t, "list", "--config", cfg, "--json=false", "--state", "accepted")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "accepted")

	out, err = execute(t, "anonymize", id, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, id+"\tanonymized\n", out)

	out, err = execute(t, "show", id, "--config", cfg, "--json=false")
	require.NoError(t, err)
	assert.Contains(t, out, concept.AnonymizedText)
	assert.Contains(t, out, "Idea:")
	assert.NotContains(t, out, testProblem)

	_, err = execute(t, "archive", id, "--config", cfg)
	assert.ErrorIs(t, err, concept.ErrInvalidTransition)

	out, err = execute(t, "sweep", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "anonymized 0 expired concept(s)\n", out)
}

func TestBatchCommand(t *testing.T) {
	srv := fakeOllama(t)
	cfg := writeConfig(t, srv.URL)

	file := filepath.Join(t.TempDir(), "concepts.yaml")
	content := fmt.Sprintf(`- problem: %q
  persona: %q
  stage: idea
- problem: "<p>%s</p>"
  persona: %q
  expiry_period_days: 3
`, testProblem, testPersona, testProblem, testPersona)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	out, err := execute(t, "batch", file, "--config", cfg, "--evaluate")
	require.NoError(t, err)
	ids := strings.Fields(out)
	require.Len(t, ids, 2)

	out, err = execute(t, "list", "--config", cfg, "--json=true", "--state", "evaluated")
	require.NoError(t, err)
	var snaps []concept.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snaps))
	require.Len(t, snaps, 2)
	for _, s := range snaps {
		assert.Equal(t, testProblem, s.Problem)
	}
}

func TestBatchCommand_ReportsInvalidEntries(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")

	file := filepath.Join(t.TempDir(), "concepts.yaml")
	content := fmt.Sprintf("- problem: %q\n  persona: too short\n", testProblem)
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))

	_, err := execute(t, "batch", file, "--config", cfg, "--evaluate=false")
	assert.EqualError(t, err, "batch finished with 1 failure(s)")
}

func TestEvaluateFromFile(t *testing.T) {
	cfg := writeConfig(t, "http://127.0.0.1:1")

	out, err := execute(t, "submit", "--config", cfg, "--problem", testProblem, "--persona", testPersona)
	require.NoError(t, err)
	id := strings.TrimSpace(out)

	data, err := json.Marshal(evaluationtest.RequiresChanges())
	require.NoError(t, err)
	evPath := filepath.Join(t.TempDir(), "evaluation.json")
	require.NoError(t, os.WriteFile(evPath, data, 0o644))

	out, err = execute(t, "evaluate", id, "--config", cfg, "--from", evPath)
	require.NoError(t, err)
	assert.Equal(t, id+"\trequires_changes\n", out)
	evalFrom = ""
}

func TestConfigInitAndShow(t *testing.T) {
	cfg := writeConfig(t, "http://localhost:11434")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, err := execute(t, "config", "init", "--config", cfg, "--path", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "expiry_period_days: 30")

	_, err = execute(t, "config", "init", "--config", cfg, "--path", path)
	assert.ErrorContains(t, err, "already exists")

	out, err = execute(t, "config", "show", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "provider: ollama")
}

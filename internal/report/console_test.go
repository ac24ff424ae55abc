package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "ñña...", truncate("ññaaa", 3))
}

func TestConsole_Results(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Results(sampleResult(t, true))

	out := buf.String()
	assert.Contains(t, out, "DRIFT DETECTION RESULTS - 1 ISSUE(S) FOUND")
	assert.Contains(t, out, "REPOSITORY: acme/infra (1 issue(s))")
	assert.Contains(t, out, "Drift detected <prod>")
	assert.Contains(t, out, "2025-01-01")
	assert.Contains(t, out, "peak 1 on 2025-01-01")
}

func TestConsole_Messages(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)

	console.Info("info line")
	console.Success("done")
	console.Warning("careful")
	console.Error("broken")

	out := buf.String()
	assert.Contains(t, out, "info line")
	assert.Contains(t, out, "✓ done")
	assert.Contains(t, out, "WARNING: careful")
	assert.Contains(t, out, "ERROR: broken")
}

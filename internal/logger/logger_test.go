package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "residue.log")
	l, cleanup, err := Setup(Config{Path: path})
	require.NoError(t, err)
	l.Info("analysis.done", "poles", 2)
	require.NoError(t, cleanup())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)

	var first map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "logger.initialized", first["msg"])
	assert.Equal(t, path, first["path"])
	assert.Contains(t, lines[1], `"poles":2`)
}

func TestSetup_EmptyPathDiscards(t *testing.T) {
	l, cleanup, err := Setup(Config{})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.NoError(t, cleanup())
}

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	New(&buf, true).Debug("shown")
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Contains(t, rec, "source")

	ts, ok := rec["time"].(string)
	require.True(t, ok)
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, parsed.Location())
}

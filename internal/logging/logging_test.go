package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Name: "facts-api", Output: &buf})
	logger.Infow("record saved", "id", "abc")
	logger.Debug("hidden in production")
	require.NoError(t, logger.Sync())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "record saved", entry["msg"])
	assert.Equal(t, "facts-api", entry["logger"])
	assert.Equal(t, "abc", entry["id"])
}

func TestNew_DevelopmentIsHumanReadable(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Development: true, Output: &buf})
	logger.Debugf("listening on %s", ":5000")
	require.NoError(t, logger.Sync())

	assert.Contains(t, buf.String(), "listening on :5000")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "api.log")
	logger := New(Options{File: path, Output: &bytes.Buffer{}})
	logger.Warnf("export failed: %s", "timeout")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "export failed: timeout")
}

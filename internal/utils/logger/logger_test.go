package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_Console(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(nil, &buf)
	require.NoError(t, err)

	log.WithOperation("compute").Info("cost computed", zap.String("total_cost_raw", "60000000"))
	log.Debug("hidden at info level")
	_ = log.Sync()

	out := buf.String()
	assert.Contains(t, out, "cost computed")
	assert.Contains(t, out, "correlation_id")
	assert.Contains(t, out, "60000000")
	assert.NotContains(t, out, "hidden at info level")
}

func TestNewWithWriter_DevelopmentEnablesDebug(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&Config{Development: true}, &buf)
	require.NoError(t, err)

	done := log.TrackPerformance("resolve")
	done()
	_ = log.Sync()

	assert.Contains(t, buf.String(), "Operation completed")
}

func TestNewWithWriter_FileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paycalc.log")
	cfg := DefaultConfig()
	cfg.LogFile = path

	var buf bytes.Buffer
	log, err := NewWithWriter(cfg, &buf)
	require.NoError(t, err)

	log.WithComponent("report").Warn("mismatch", zap.Bool("matches", false))
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "mismatch", entry["msg"])
	assert.Equal(t, "report", entry["component"])
}

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

type testConfig struct {
	level, output, file string
}

func (c testConfig) GetLevel() string  { return c.level }
func (c testConfig) GetOutput() string { return c.output }
func (c testConfig) GetFile() string   { return c.file }

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLogLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLogLevel("warning"))
	assert.Equal(t, ERROR, ParseLogLevel("error"))
	assert.Equal(t, INFO, ParseLogLevel("verbose"))
}

func TestWriterLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(WARN, &buf)

	l.Info("hidden %d", 1)
	l.Warn("proposal %d executed", 7)
	l.Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "proposal 7 executed", entry["message"])
	assert.Contains(t, entry, "timestamp")
}

func TestInit(t *testing.T) {
	previous := defaultLogger
	t.Cleanup(func() { defaultLogger = previous })

	require.NoError(t, Init(testConfig{level: "debug", output: "stderr"}))
	assert.Error(t, Init(testConfig{output: "file"}))
	assert.Error(t, Init(testConfig{output: "syslog"}))

	path := filepath.Join(t.TempDir(), "governance.log")
	require.NoError(t, Init(testConfig{level: "info", output: "file", file: path}))
	Info("donation %s recorded", "5xSig")
	Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "donation 5xSig recorded")
}

func TestGetDefaultZapLogger(t *testing.T) {
	previous := defaultLogger
	t.Cleanup(func() { defaultLogger = previous })

	var buf bytes.Buffer
	defaultLogger = NewWithWriter(INFO, &buf)

	GetDefaultZapLogger().Info("http request", zap.Int("status", 200))
	Sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "http request", entry["message"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Contains(t, entry["caller"], "logger_test.go")
}

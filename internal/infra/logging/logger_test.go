package logging

import (
	"bytes"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskboard/internal/domain"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"unknown", logrus.InfoLevel}, // default
		{"", logrus.InfoLevel},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	dataDir := t.TempDir()
	logger := New(dataDir, logrus.InfoLevel)
	defer func() { _ = logger.Close() }()

	logger.Info("backup", "test message")

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] \[INFO\] \[backup\] test message\n$`), string(content))
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, logrus.WarnLevel)

	logger.Debug("c", "debug msg")
	logger.Info("c", "info msg")
	logger.Warn("c", "warn msg")
	logger.Error("c", "error msg")

	out := buf.String()
	assert.NotContains(t, out, "debug msg")
	assert.NotContains(t, out, "info msg")
	assert.Contains(t, out, "[WARN] [c] warn msg")
	assert.Contains(t, out, "[ERROR] [c] error msg")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestLogger_Disabled(t *testing.T) {
	logger := New("", logrus.DebugLevel)

	// Must not panic or create files.
	logger.Info("c", "nowhere")
	assert.NoError(t, logger.Close())
}

func TestLogger_AppendsAcrossInstances(t *testing.T) {
	dataDir := t.TempDir()

	first := New(dataDir, logrus.InfoLevel)
	first.Info("a", "one")
	require.NoError(t, first.Close())

	second := New(dataDir, logrus.InfoLevel)
	second.Error("b", "two")
	require.NoError(t, second.Close())

	content, err := os.ReadFile(domain.LogPath(dataDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO] [a] one")
	assert.Contains(t, string(content), "[ERROR] [b] two")
}

func TestFormatLog(t *testing.T) {
	ts := time.Date(2025, 12, 30, 9, 32, 51, 0, time.UTC)

	got := formatLog(ts, logrus.WarnLevel, "", "msg")

	assert.Equal(t, "[2025-12-30 09:32:51] [WARN] [general] msg\n", got)
}

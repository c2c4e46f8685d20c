package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger(t *testing.T) {
	t.Run("test file output respects level", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "bandit.log")
		logg := New("warn", file)

		logg.Info("hidden")
		logg.Warn("round failed", "arm", 3)
		require.NoError(t, logg.GetInstance().Core().Sync())

		content, err := os.ReadFile(file)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		require.Len(t, lines, 1)

		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		require.Equal(t, "round failed", entry["msg"])
		require.Equal(t, float64(3), entry["arm"])
	})

	t.Run("test unknown level falls back to info", func(t *testing.T) {
		logg := New("loud", "")

		require.True(t, logg.GetInstance().Core().Enabled(zapcore.InfoLevel))
		require.False(t, logg.GetInstance().Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("test key values are kept", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logg := FromZap(zap.New(core))

		logg.Debug("round", "arm", 1, "reward", 0.5)
		logg.Error("failed")

		require.Equal(t, 2, logs.Len())

		entry := logs.All()[0]
		require.Equal(t, "round", entry.Message)
		require.Equal(t, int64(1), entry.ContextMap()["arm"])
		require.Equal(t, 0.5, entry.ContextMap()["reward"])
		require.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	})
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("json info", func(t *testing.T) {
		log, err := New("info", "json")

		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.InfoLevel))
		require.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("console debug", func(t *testing.T) {
		log, err := New("debug", "console")

		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		log, err := New("", "")

		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		log, err := New("loud", "json")

		require.Error(t, err)
		require.Nil(t, log)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		log, err := New("info", "xml")

		require.Error(t, err)
		require.Nil(t, log)
	})
}

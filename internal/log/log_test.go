package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSet(t *testing.T) {
	defer func(l *zap.Logger) { defaultLogger = l }(defaultLogger)

	require.NoError(t, Set("warn", "json"))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Set("loud", "json"))
	assert.Error(t, Set("info", "xml"))
	Flush()
}

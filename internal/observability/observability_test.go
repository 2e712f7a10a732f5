package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"retailpos/m/internal/config"
)

func TestNewLogger_Level(t *testing.T) {
	logger := NewLogger("warn")
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger = NewLogger("nonsense")
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestSetupTracing_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), config.Config{})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

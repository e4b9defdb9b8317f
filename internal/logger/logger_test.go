package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Huulamnguyen/biztime/internal/config"
)

func TestBuildLevels(t *testing.T) {
	tests := []struct {
		name    string
		obs     config.Observability
		debugOn bool
	}{
		{name: "json info", obs: config.Observability{LogLevel: "info", LogEncoding: "json"}},
		{name: "console debug", obs: config.Observability{LogLevel: "debug", LogEncoding: "console"}, debugOn: true},
		{name: "unknown level falls back to info", obs: config.Observability{LogLevel: "chatty", LogEncoding: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := Build(tt.obs)
			require.NoError(t, err)
			assert.Equal(t, tt.debugOn, logger.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

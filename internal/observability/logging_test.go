package observability

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/Rupeshkotha/Hackhub/internal/config"
)

func TestNewLogger_Levels(t *testing.T) {
	app := config.AppConfig{Name: "hackhub", Version: "test"}

	tests := []struct {
		name      string
		cfg       config.LoggerConfig
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", cfg: config.LoggerConfig{Level: "DEBUG"}, wantDebug: true, wantInfo: true},
		{name: "warn", cfg: config.LoggerConfig{Level: "warn"}},
		{name: "unknown falls back to info", cfg: config.LoggerConfig{Level: "chatty"}, wantInfo: true},
		{name: "development console", cfg: config.LoggerConfig{Level: "debug", Development: true}, wantDebug: true, wantInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg, app)
			require.NoError(t, err)
			require.Equal(t, tt.wantDebug, logger.Core().Enabled(zapcore.DebugLevel))
			require.Equal(t, tt.wantInfo, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestServiceFields(t *testing.T) {
	require.Equal(t, map[string]interface{}{"service": "hackhub"}, serviceFields(config.AppConfig{Name: "hackhub"}))
	require.Equal(t,
		map[string]interface{}{"service": "hackhub", "version": "1.2.0", "env": "production"},
		serviceFields(config.AppConfig{Name: "hackhub", Version: "1.2.0", Env: "production"}),
	)
}

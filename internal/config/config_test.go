package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veriflow-io/veriflow/internal/config"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := config.NewDefaultConfig()

	assert.Equal(t, config.DefaultEngineDir, cfg.EngineDir)
	assert.Equal(t, config.DefaultActionDir, cfg.ActionDir)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		configMod func(*config.Config)
		wantErr   error
	}{
		{
			name:      "missing_engine_dir",
			configMod: func(c *config.Config) { c.EngineDir = "" },
			wantErr:   config.ErrMissingEngineDir,
		},
		{
			name:      "missing_action_dir",
			configMod: func(c *config.Config) { c.ActionDir = "" },
			wantErr:   config.ErrMissingActionDir,
		},
		{
			name:      "unknown_log_level",
			configMod: func(c *config.Config) { c.LogLevel = "noisy" },
			wantErr:   config.ErrInvalidLogLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tt.configMod(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("VF_ENGINE_DIR", "/opt/veriflow/engines")
	t.Setenv("VF_ACTION_DIR", "/opt/veriflow/actions")
	t.Setenv("VF_LOG_LEVEL", "debug")

	cfg := config.NewDefaultConfig()
	cfg.LoadFromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/opt/veriflow/engines", cfg.EngineDir)
	assert.Equal(t, "/opt/veriflow/actions", cfg.ActionDir)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadFromEnvKeepsDefaults(t *testing.T) {
	t.Setenv("VF_ENGINE_DIR", "")
	t.Setenv("VF_ACTION_DIR", "")
	t.Setenv("VF_LOG_LEVEL", "")

	cfg := config.NewDefaultConfig()
	cfg.LoadFromEnv()
	assert.Equal(t, config.DefaultEngineDir, cfg.EngineDir)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
}

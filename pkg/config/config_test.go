package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, []string{"anthropic:claude-3-5-haiku-20241022", "gemini:gemini-1.5-flash"}, cfg.AI.Models)
	assert.Equal(t, 5, cfg.AI.MaxSteps)
	assert.Equal(t, 25*time.Second, cfg.AI.AttemptTimeout)
	assert.Equal(t, 30.0, cfg.Analytics.TargetCoverageDays)
	assert.Equal(t, 20, cfg.RateLimit.PerMinute)
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("AI_MODELS", " gemini:gemini-1.5-pro , ,anthropic:claude-3-5-sonnet ")
	v.Set("AI_MAX_STEPS", "3")
	v.Set("TARGET_COVERAGE_DAYS", "45,5")
	v.Set("HTTP_PORT", "9090")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"gemini:gemini-1.5-pro", "anthropic:claude-3-5-sonnet"}, cfg.AI.Models)
	assert.Equal(t, 3, cfg.AI.MaxSteps)
	// valor inválido → default
	assert.Equal(t, 30.0, cfg.Analytics.TargetCoverageDays)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
}

func TestFromViper_SinModelos_Error(t *testing.T) {
	v := viper.New()
	v.Set("AI_MODELS", " , ")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "estoque", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/estoque?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://x"
	assert.Equal(t, "postgresql://x", c.ConnectionString())
}

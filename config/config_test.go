package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(50_000_000_000), cfg.GraduationThresholdSol)
	assert.Equal(t, uint32(100), cfg.MigrationFeeBps)
	assert.Equal(t, 64, cfg.EventBuffer)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFlagOverrides(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Uint64("graduation-threshold-sol", 0, "")
	flags.Uint32("migration-fee-bps", 0, "")
	flags.Int("event-buffer", 0, "")
	require.NoError(t, flags.Parse([]string{
		"--graduation-threshold-sol=1000",
		"--migration-fee-bps=250",
		"--event-buffer=8",
	}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, uint64(1_000), cfg.GraduationThresholdSol)
	assert.Equal(t, uint32(250), cfg.MigrationFeeBps)
	assert.Equal(t, 8, cfg.EventBuffer)

	grad := cfg.GraduationConfig()
	assert.Equal(t, uint64(1_000), grad.ThresholdSol)
	assert.Equal(t, uint32(250), grad.MigrationFeeBps)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("THUNDERLAUNCH_LOG_LEVEL", "debug")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

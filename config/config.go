// Package config loads runtime configuration from config file, environment,
// and flags, in ascending precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/cryptoEnthu14/ThunderLaunch-sub002/launchpad/graduation"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	GraduationThresholdSol uint64
	MigrationFeeBps        uint32
	EventBuffer            int
	LogLevel               string
}

// GraduationConfig maps the loaded values onto the coordinator's policy.
func (c Config) GraduationConfig() graduation.Config {
	return graduation.Config{
		ThresholdSol:    c.GraduationThresholdSol,
		MigrationFeeBps: c.MigrationFeeBps,
	}
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("THUNDERLAUNCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults := graduation.DefaultConfig()
	v.SetDefault("graduation-threshold-sol", defaults.ThresholdSol)
	v.SetDefault("migration-fee-bps", defaults.MigrationFeeBps)
	v.SetDefault("event-buffer", 64)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		GraduationThresholdSol: v.GetUint64("graduation-threshold-sol"),
		MigrationFeeBps:        v.GetUint32("migration-fee-bps"),
		EventBuffer:            v.GetInt("event-buffer"),
		LogLevel:               v.GetString("log-level"),
	}
	if cfg.EventBuffer <= 0 {
		return Config{}, fmt.Errorf("event-buffer must be positive, got %d", cfg.EventBuffer)
	}
	return cfg, nil
}

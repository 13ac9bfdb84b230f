// Package config loads the tenantree configuration and builds the
// logger from it.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from file and environment variables.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.enrich_workers", 8)
	v.SetDefault("progress.enabled", true)
	v.SetDefault("reach.enabled", false)
	v.SetDefault("reach.ping_timeout", "2s")
	v.SetDefault("reach.ping_count", 3)
	v.SetDefault("reach.concurrency", 16)
	v.SetDefault("snapshot.path", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tenantree")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/tenantree")
	}

	// Environment variable support: TT_API_USER=svc-inventory
	v.SetEnvPrefix("TT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is fine -- use defaults
	}

	return v, nil
}

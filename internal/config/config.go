package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	StaticPath    string        `mapstructure:"static_path"`
	HistoryLimit  int           `mapstructure:"history_limit"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	SendBuffer    int           `mapstructure:"send_buffer"`
	EnforceTurns  bool          `mapstructure:"enforce_turns"`
}

// Load reads config/config.<CONFIG_ENV>.yaml when present and falls back to
// defaults otherwise.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	v.SetConfigFile(fmt.Sprintf("config/config.%s.yaml", env))
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 3002)
	v.SetDefault("static_path", "./build")
	v.SetDefault("history_limit", 100)
	v.SetDefault("idle_timeout", "30m")
	v.SetDefault("sweep_interval", "5m")
	v.SetDefault("send_buffer", 256)
	v.SetDefault("enforce_turns", false)

	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the refresher.
type Config struct {
	Port         string
	PollInterval Duration
	WarmStart    bool
	Provider     string
	Balldontlie  BalldontlieConfig
	Upstream     UpstreamConfig
	Metrics      MetricsConfig
	Redis        RedisConfig
	Log          LogConfig
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return fromSource(source{v: viper.New()})
}

// LoadFile layers an optional YAML file under the environment. Keys in the file are the
// lower-cased environment names (poll_interval, balldontlie_api_key, ...).
func LoadFile(path string) (Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return fromSource(source{v: v}), nil
}

func fromSource(s source) Config {
	return Config{
		Port:         s.stringOrDefault(envPort, defaultPort),
		PollInterval: s.durationOrDefault(envPollInterval, defaultPollInterval),
		WarmStart:    s.boolOrDefault(envWarmStart, false),
		Provider:     s.stringOrDefault(envProvider, defaultProvider),
		Balldontlie:  loadBalldontlie(s),
		Upstream:     loadUpstream(s),
		Metrics:      loadMetrics(s),
		Redis:        loadRedis(s),
		Log: LogConfig{
			Level:  s.stringOrDefault(envLogLevel, defaultLogLevel),
			Format: s.stringOrDefault(envLogFormat, defaultLogFormat),
		},
	}
}

package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

// source resolves a key from the environment first and the optional config file second.
type source struct {
	v *viper.Viper
}

// bind maps a lower-case config file key onto its environment variable.
func (s source) bind(env string) string {
	key := strings.ToLower(env)
	_ = s.v.BindEnv(key, env)
	return key
}

func (s source) raw(env string) string {
	return strings.TrimSpace(s.v.GetString(s.bind(env)))
}

func (s source) stringOrDefault(env, defaultValue string) string {
	if val := s.raw(env); val != "" {
		return val
	}
	return defaultValue
}

func (s source) durationOrDefault(env string, defaultValue time.Duration) time.Duration {
	raw := s.raw(env)
	if raw == "" {
		return defaultValue
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

func (s source) intOrDefault(env string, defaultValue int) int {
	raw := s.raw(env)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}

// nonNegativeIntOrDefault accepts zero, which several knobs use to mean "disabled".
func (s source) nonNegativeIntOrDefault(env string, defaultValue int) int {
	raw := s.raw(env)
	if raw == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 0 {
		return defaultValue
	}
	return val
}

func (s source) boolOrDefault(env string, defaultValue bool) bool {
	raw := s.raw(env)
	if raw == "" {
		return defaultValue
	}
	if raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes") {
		return true
	}
	if raw == "0" || strings.EqualFold(raw, "false") || strings.EqualFold(raw, "no") {
		return false
	}
	return defaultValue
}

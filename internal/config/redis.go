package config

// RedisConfig enables the stream bridge when Addr is set.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	StreamPrefix string
	MaxLen       int
}

// Enabled reports whether topic payloads should be mirrored to Redis.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

func loadRedis(s source) RedisConfig {
	return RedisConfig{
		Addr:         s.stringOrDefault(envRedisAddr, ""),
		Password:     s.stringOrDefault(envRedisPassword, ""),
		DB:           s.nonNegativeIntOrDefault(envRedisDB, 0),
		StreamPrefix: s.stringOrDefault(envRedisPrefix, defaultRedisPrefix),
		MaxLen:       s.intOrDefault(envRedisMaxLen, defaultRedisMaxLen),
	}
}

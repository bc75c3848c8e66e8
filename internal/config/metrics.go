package config

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled           bool
	Port              string
	PrometheusEnabled bool
	OtlpEndpoint      string
	ServiceName       string
	OtlpInsecure      bool
}

func loadMetrics(s source) MetricsConfig {
	return MetricsConfig{
		Enabled:           s.boolOrDefault(envMetricsOn, true),
		Port:              s.stringOrDefault(envMetricsPort, defaultMetricsPort),
		PrometheusEnabled: s.boolOrDefault(envPrometheusOn, true),
		OtlpEndpoint:      s.stringOrDefault(envOtelEndpoint, ""),
		ServiceName:       s.stringOrDefault(envMetricsService, defaultMetricsService),
		OtlpInsecure:      s.boolOrDefault(envOtelInsecure, true),
	}
}

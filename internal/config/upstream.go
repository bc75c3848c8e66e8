package config

// UpstreamConfig shapes every call made to the data provider.
type UpstreamConfig struct {
	Retries         int
	RetryStep       Duration
	RatePerMinute   int
	BreakerEnabled  bool
	BreakerFailures int
	BreakerTimeout  Duration
}

func loadUpstream(s source) UpstreamConfig {
	return UpstreamConfig{
		Retries:         s.intOrDefault(envFetchRetries, defaultFetchRetries),
		RetryStep:       s.durationOrDefault(envRetryStep, defaultRetryStep),
		RatePerMinute:   s.nonNegativeIntOrDefault(envRatePerMinute, 0),
		BreakerEnabled:  s.boolOrDefault(envBreakerOn, false),
		BreakerFailures: s.intOrDefault(envBreakerFailures, defaultBreakerFailures),
		BreakerTimeout:  s.durationOrDefault(envBreakerTimeout, defaultBreakerTimeout),
	}
}

package balldontlie

import "time"

const (
	providerName       = "balldontlie"
	defaultBaseURL     = "https://api.balldontlie.io/v1"
	defaultPerPage     = 100
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

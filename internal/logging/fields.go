package logging

import (
	"log/slog"
	"time"
)

// Field keys shared by every package so log queries stay stable.
const (
	FieldService = "service"
	FieldVersion = "version"

	// upstream
	FieldProvider = "provider"
	FieldEndpoint = "endpoint"
	FieldAttempt  = "attempt"
	FieldDelayMS  = "delay_ms"

	// fan-out
	FieldTopic      = "topic"
	FieldSubscriber = "subscription"
	FieldStream     = "stream"
	FieldCount      = "count"

	// ops http
	FieldRequestID  = "request_id"
	FieldPath       = "path"
	FieldMethod     = "method"
	FieldStatusCode = "status_code"

	FieldDate       = "date"
	FieldDurationMS = "duration_ms"
)

// Millis renders d as whole milliseconds under key.
func Millis(key string, d time.Duration) slog.Attr {
	return slog.Int64(key, d.Milliseconds())
}

func commonAttrs(service, version string) []slog.Attr {
	var attrs []slog.Attr
	if service != "" {
		attrs = append(attrs, slog.String(FieldService, service))
	}
	if version != "" {
		attrs = append(attrs, slog.String(FieldVersion, version))
	}
	return attrs
}

package providers

import (
	"log/slog"

	"github.com/preston-bernstein/nba-refresh-service/internal/logging"
)

// withProvider tags logger with the upstream stage name. A nil logger stays nil so the
// logging helpers remain no-ops.
func withProvider(logger *slog.Logger, provider string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String(logging.FieldProvider, provider))
}

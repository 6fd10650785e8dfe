package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/nba-game-recommender/internal/logging"
)

// logWithProvider emits a log entry on the request-scoped logger and always includes provider name.
func logWithProvider(ctx context.Context, logger *slog.Logger, level slog.Level, provider string, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldProvider, provider))
	logger.Log(ctx, level, msg, args...)
}

// LogDetailFallback reports a per-game detail failure that was absorbed with defaults.
func LogDetailFallback(ctx context.Context, logger *slog.Logger, err *DetailError) {
	if err == nil {
		return
	}
	logWithProvider(ctx, logger, slog.LevelWarn, err.Provider, "game detail unavailable, using defaults",
		slog.String(logging.FieldGameID, err.GameID),
		slog.String("stage", err.Stage),
		slog.Any("error", err.Err),
	)
}

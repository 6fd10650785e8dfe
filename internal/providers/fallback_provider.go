package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/preston-bernstein/nba-game-recommender/internal/domain/games"
)

// primaryShare is the fraction of the remaining deadline a member gets while
// later members are still waiting their turn.
const primaryShare = 0.8

// fallbackProvider tries the primary first and moves down the chain on failure.
type fallbackProvider struct {
	chain  []GameProvider
	names  []string
	logger *slog.Logger
}

// NewFallbackProvider returns a provider that serves from the first member of
// chain that succeeds. Reference data comes from the primary. Nil members are skipped.
func NewFallbackProvider(logger *slog.Logger, chain ...GameProvider) GameProvider {
	fp := &fallbackProvider{logger: logger}
	for _, p := range chain {
		if p == nil {
			continue
		}
		fp.chain = append(fp.chain, p)
		fp.names = append(fp.names, NameOf(p, "provider"))
	}
	if len(fp.chain) == 1 {
		return fp.chain[0]
	}
	return fp
}

func (f *fallbackProvider) Name() string {
	if len(f.names) == 0 {
		return "fallback"
	}
	return f.names[0]
}

func (f *fallbackProvider) FetchCompletedGames(ctx context.Context, start, end time.Time) ([]games.GameRecord, error) {
	if len(f.chain) == 0 {
		return nil, ErrProviderUnavailable
	}
	var errs []error
	for i, p := range f.chain {
		memberCtx, cancel := f.memberContext(ctx, i)
		result, err := p.FetchCompletedGames(memberCtx, start, end)
		cancel()
		if err == nil {
			if i > 0 {
				logWithProvider(ctx, f.logger, slog.LevelWarn, f.names[i], "served by backup provider",
					slog.String("primary", f.names[0]),
					slog.Int("count", len(result)),
				)
			}
			return result, nil
		}
		errs = append(errs, err)
		// Only the caller's own deadline ends the chain early.
		if ctx.Err() != nil {
			break
		}
		logWithProvider(ctx, f.logger, slog.LevelWarn, f.names[i], "provider failed, trying next", slog.Any("error", err))
	}
	return nil, errors.Join(errs...)
}

// memberContext caps every member but the last at primaryShare of the time
// left, so a primary that exhausts its deadline still leaves the rest of the
// chain room to serve.
func (f *fallbackProvider) memberContext(ctx context.Context, i int) (context.Context, context.CancelFunc) {
	deadline, ok := ctx.Deadline()
	if !ok || i == len(f.chain)-1 {
		return context.WithCancel(ctx)
	}
	share := time.Duration(float64(time.Until(deadline)) * primaryShare)
	return context.WithTimeout(ctx, share)
}

func (f *fallbackProvider) IsTop5Team(ctx context.Context, abbr string) bool {
	if len(f.chain) == 0 {
		return false
	}
	return f.chain[0].IsTop5Team(ctx, abbr)
}

func (f *fallbackProvider) RefreshReferenceData() {
	for _, p := range f.chain {
		p.RefreshReferenceData()
	}
}

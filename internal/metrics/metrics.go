package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	detailFallbacks int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

// Recorder captures in-memory counters and forwards them to OpenTelemetry when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*providerStats
	buzz  map[string]int
	cache CacheStats
	syncs SyncStats
	otel  *otelInstruments
}

// CacheStats counts response cache lookups.
type CacheStats struct {
	Hits   int
	Misses int
}

// SyncStats summarizes sync job runs.
type SyncStats struct {
	Runs        int
	Failures    int
	GamesStored int
	LastRun     time.Time
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		buzz:  make(map[string]int),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordDetailFallback counts games whose per-game detail fetch failed and fell back to defaults.
func (r *Recorder) RecordDetailFallback(provider string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.ensureStatsLocked(provider).detailFallbacks++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordDetailFallback(provider)
	}
}

// RecordBuzz counts buzz enrichment outcomes ("ok", "skipped", "failed").
func (r *Recorder) RecordBuzz(outcome string, duration time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.buzz[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordBuzz(outcome, duration)
	}
}

// RecordCacheLookup counts response cache hits and misses.
func (r *Recorder) RecordCacheLookup(hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	if hit {
		r.cache.Hits++
	} else {
		r.cache.Misses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(hit)
	}
}

// RecordSync tracks a sync job run.
func (r *Recorder) RecordSync(duration time.Duration, stored int, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.syncs.Runs++
	r.syncs.LastRun = time.Now()
	if err != nil {
		r.syncs.Failures++
	} else {
		r.syncs.GamesStored += stored
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSync(duration, stored, err)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// DetailFallbacks returns how many games fell back to default details for a provider.
func (r *Recorder) DetailFallbacks(provider string) int {
	return r.Snapshot(provider).DetailFallbacks
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// BuzzOutcomes returns the count recorded for a buzz outcome.
func (r *Recorder) BuzzOutcomes(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buzz[outcome]
}

// CacheStats returns the current cache hit/miss counters.
func (r *Recorder) CacheStats() CacheStats {
	if r == nil {
		return CacheStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache
}

// SyncStats returns the current sync counters.
func (r *Recorder) SyncStats() SyncStats {
	if r == nil {
		return SyncStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.syncs
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	DetailFallbacks int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	stats := r.snapshot(provider)
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		DetailFallbacks: stats.detailFallbacks,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks cache warmer cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}

func (r *Recorder) snapshot(provider string) providerStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stats, ok := r.stats[provider]; ok && stats != nil {
		return *stats
	}
	return providerStats{}
}

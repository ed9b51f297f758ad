// Package assist implements the portal's AI-assisted features: cached
// text generation with deterministic fallbacks, and the heuristic
// matching endpoints. Each request moves strictly forward through
// rate check, cache lookup, compute, and cache write; retries exist
// only inside the LLM client.
package assist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/audit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/cache"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/llm"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/match"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/metrics"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/ratelimit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/store"
)

// ErrRateLimited is returned when the sliding-window limiter rejects
// the caller; handlers map it to 429.
var ErrRateLimited = errors.New("too many requests")

// UnavailableError is returned when a configured LLM exhausts its
// retries on a pure-generation feature; handlers map it to 503 for
// transient exhaustion and 400 for permanent provider rejections.
type UnavailableError struct {
	Permanent bool
	Err       error
}

func (e *UnavailableError) Error() string { return "generation unavailable: " + e.Err.Error() }
func (e *UnavailableError) Unwrap() error { return e.Err }

// Generator is the slice of the LLM client the service uses; tests
// substitute fakes.
type Generator interface {
	Configured() bool
	Complete(ctx context.Context, system, user string, opts llm.Options) (string, error)
}

// Payload is the uniform response shape consumed by the portal's web
// tier.
type Payload struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Meta    Meta        `json:"meta"`
}

// Meta reports how the payload was produced.
type Meta struct {
	Cached    bool   `json:"cached"`
	RequestID string `json:"request_id"`
	Fallback  bool   `json:"fallback,omitempty"`
}

// Config carries the service's tunables.
type Config struct {
	Temperature  float32
	MaxTokens    int
	HousingRef   float64
	DefaultModel string
}

// Service is the process-wide assist layer, constructed once at
// startup and passed into handlers. All state that outlives a request
// lives behind the injected cache, limiter, and match store.
type Service struct {
	cfg     Config
	cache   cache.Store
	limiter ratelimit.Limiter
	gen     Generator
	matches store.MatchStore
	auditor *audit.Logger
	logger  *zap.Logger
}

// NewService wires the assist layer together.
func NewService(cfg Config, cacheStore cache.Store, limiter ratelimit.Limiter, gen Generator, matches store.MatchStore, auditor *audit.Logger, logger *zap.Logger) *Service {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = llm.DefaultMaxTokens
	}
	if cfg.HousingRef <= 0 {
		cfg.HousingRef = match.DefaultAffordabilityReference
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if auditor == nil {
		auditor = audit.NewLogger(audit.Config{})
	}
	return &Service{
		cfg:     cfg,
		cache:   cacheStore,
		limiter: limiter,
		gen:     gen,
		matches: matches,
		auditor: auditor,
		logger:  logger,
	}
}

// admit runs the rate check. An error from the backing fails open; a
// computed rejection is hard.
func (s *Service) admit(ctx context.Context, identity, feature, requestID string) error {
	ok, err := s.limiter.Allow(ctx, identity)
	if err != nil {
		s.logger.Warn("rate limiter unavailable, admitting request",
			zap.String("identity", identity), zap.Error(err))
		return nil
	}
	if !ok {
		metrics.RateLimitRejections.Inc()
		s.auditor.Record(audit.Event{
			Type:      audit.EventRateLimited,
			Feature:   feature,
			Identity:  identity,
			RequestID: requestID,
			Status:    "rejected",
			Timestamp: time.Now().UTC(),
		})
		return ErrRateLimited
	}
	return nil
}

// cacheGet treats backend errors as misses.
func (s *Service) cacheGet(ctx context.Context, scope cache.Scope, key string) ([]byte, bool) {
	val, ok, err := s.cache.Get(ctx, scope, key)
	if err != nil {
		metrics.CacheErrorsTotal.WithLabelValues(scope.String(), "get").Inc()
		s.logger.Debug("cache get failed, treating as miss", zap.Stringer("scope", scope), zap.Error(err))
		return nil, false
	}
	if ok {
		metrics.CacheHitsTotal.WithLabelValues(scope.String()).Inc()
		return val, true
	}
	metrics.CacheMissesTotal.WithLabelValues(scope.String()).Inc()
	return nil, false
}

// cacheSet treats backend errors as no-ops.
func (s *Service) cacheSet(ctx context.Context, scope cache.Scope, key string, value []byte) {
	if err := s.cache.Set(ctx, scope, key, value); err != nil {
		metrics.CacheErrorsTotal.WithLabelValues(scope.String(), "set").Inc()
		s.logger.Debug("cache set failed, skipping", zap.Stringer("scope", scope), zap.Error(err))
	}
}

func (s *Service) finish(feature, identity, requestID, status string, cached bool, started time.Time) {
	elapsed := time.Since(started)
	metrics.AssistRequestsTotal.WithLabelValues(feature, status).Inc()
	metrics.AssistRequestDuration.WithLabelValues(feature).Observe(elapsed.Seconds())
	s.auditor.Record(audit.Event{
		Type:      audit.EventAssistRequest,
		Feature:   feature,
		Identity:  identity,
		RequestID: requestID,
		Cached:    cached,
		Status:    status,
		Duration:  elapsed.Seconds(),
		Timestamp: time.Now().UTC(),
	})
}

func newRequestID() string {
	return uuid.NewString()
}

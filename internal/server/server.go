// Package server exposes the assist service over HTTP for the
// portal's web tier.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/assist"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/audit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/cache"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/config"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/llm"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/ratelimit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/store"
)

// Server wires together the assist service and its HTTP surface.
type Server struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *assist.Service

	redisClient  *redis.Client
	matches      store.MatchStore
	memLimiter   *ratelimit.MemoryLimiter
	redisLimiter *ratelimit.RedisLimiter

	httpServer *http.Server

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool
}

// NewServer builds the server and all its components from config.
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:    cfg,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	if err := s.initializeComponents(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return s, nil
}

func (s *Server) initializeComponents() error {
	rlConfig := ratelimit.Config{
		Requests: s.cfg.RateLimit.Requests,
		Window:   time.Duration(s.cfg.RateLimit.WindowSeconds) * time.Second,
	}

	// Shared backings when Redis is configured, in-process otherwise.
	var cacheStore cache.Store
	var limiter ratelimit.Limiter
	if s.cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     s.cfg.Redis.Addr,
			Password: s.cfg.Redis.Password,
			DB:       s.cfg.Redis.DB,
		})
		cacheStore = cache.NewRedisStore(s.redisClient, s.cfg.Redis.KeyPrefix)
		s.redisLimiter = ratelimit.NewRedisLimiter(s.redisClient, s.cfg.Redis.KeyPrefix, rlConfig)
		limiter = s.redisLimiter
		s.logger.Info("using redis backings", zap.String("addr", s.cfg.Redis.Addr))
	} else {
		cacheStore = cache.NewMemoryStore()
		s.memLimiter = ratelimit.NewMemoryLimiter(rlConfig)
		limiter = s.memLimiter
		s.logger.Info("redis not configured, using in-process backings")
	}

	client := llm.NewClient(s.cfg.OpenAI.APIKey, s.cfg.OpenAI.Model, llm.DefaultRetryConfig(), s.logger)
	if !client.Configured() {
		s.logger.Warn("openai api key not set, generation features use deterministic fallbacks")
	}

	matches, err := store.NewSQLiteStore(s.cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open match store: %w", err)
	}
	s.matches = matches

	auditor := audit.NewLogger(audit.Config{
		Path:       s.cfg.Audit.Path,
		MaxSize:    s.cfg.Audit.MaxSizeMB,
		MaxBackups: s.cfg.Audit.MaxBackups,
		MaxAge:     s.cfg.Audit.MaxAgeDays,
		Compress:   true,
	})

	s.service = assist.NewService(assist.Config{
		Temperature:  float32(s.cfg.OpenAI.Temperature),
		MaxTokens:    s.cfg.OpenAI.MaxTokens,
		HousingRef:   s.cfg.Housing.ReferenceCost,
		DefaultModel: s.cfg.OpenAI.Model,
	}, cacheStore, limiter, client, matches, auditor, s.logger)

	return nil
}

// Start begins serving HTTP.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	mux := http.NewServeMux()
	s.registerHandlers(mux)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("starting http server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server error", zap.Error(err))
		}
	}()

	return nil
}

func (s *Server) registerHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/assist/summary", s.handleSummary)
	mux.HandleFunc("/api/v1/assist/resume", s.handleResume)
	mux.HandleFunc("/api/v1/assist/wellness", s.handleWellness)
	mux.HandleFunc("/api/v1/match/mentors", s.handleMentorMatch)
	mux.HandleFunc("/api/v1/match/roommates", s.handleRoommates)
	mux.HandleFunc("/api/v1/match/research", s.handleResearchScore)
	mux.HandleFunc("/api/v1/match/housing", s.handleHousing)
	mux.HandleFunc("/ws/assist", s.handleWebSocket)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
}

// ApplyConfig applies a reloaded configuration to the running server.
// Only settings that can change without a restart are taken: the
// rate-limit window parameters. Everything else (ports, backings,
// credentials) keeps its startup value until the process restarts.
func (s *Server) ApplyConfig(cfg config.Config) {
	rlConfig := ratelimit.Config{
		Requests: cfg.RateLimit.Requests,
		Window:   time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
	}
	if s.memLimiter != nil {
		s.memLimiter.SetConfig(rlConfig)
	}
	if s.redisLimiter != nil {
		s.redisLimiter.SetConfig(rlConfig)
	}
	s.logger.Info("configuration reloaded",
		zap.Int("rate_limit_requests", cfg.RateLimit.Requests),
		zap.Int("rate_limit_window_seconds", cfg.RateLimit.WindowSeconds))
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()

	if s.httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("http shutdown error", zap.Error(err))
		}
	}

	s.wg.Wait()

	if s.memLimiter != nil {
		s.memLimiter.Stop()
	}
	if s.redisClient != nil {
		_ = s.redisClient.Close()
	}
	if s.matches != nil {
		_ = s.matches.Close()
	}
	return nil
}

// identity derives the rate-limit identity: authenticated user id when
// the web tier forwarded one, otherwise the caller's address.
func identity(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

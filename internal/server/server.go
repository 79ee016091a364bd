package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-intake/internal/config"
	"github.com/jonathan/job-intake/internal/extraction"
	"github.com/jonathan/job-intake/internal/logging"
	"github.com/jonathan/job-intake/internal/server/middleware"
	"github.com/jonathan/job-intake/internal/server/ratelimit"
	"github.com/jonathan/job-intake/internal/session"
	"github.com/jonathan/job-intake/internal/storage"
	"github.com/jonathan/job-intake/internal/types"
)

const parsePath = "/parse-input"

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	schema      types.FieldSchema
	extractor   extraction.Extractor
	store       storage.RecordStore
	sessionOpts session.Options
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	validate    *validator.Validate
	logger      logging.Logger
}

// Config holds server configuration
type Config struct {
	Port      int
	Schema    types.FieldSchema
	Extractor extraction.Extractor
	// Store archives every finalized record. Nil disables archiving.
	Store        storage.RecordStore
	MaxRounds    int
	RoundTimeout time.Duration
	// JWT enables bearer auth on the parse endpoints when set.
	JWT                *config.JWTConfig
	RateLimitPerMinute int
	Logger             logging.Logger
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("extractor is required")
	}
	if cfg.Schema.Len() == 0 {
		return nil, fmt.Errorf("field schema is required")
	}

	s := &Server{
		schema:    cfg.Schema,
		extractor: cfg.Extractor,
		store:     cfg.Store,
		validate:  validator.New(),
		logger:    cfg.Logger,
	}
	if s.logger == nil {
		s.logger = logging.Default
	}
	s.sessionOpts = session.Options{
		MaxRounds:    cfg.MaxRounds,
		RoundTimeout: cfg.RoundTimeout,
		Logger:       s.logger,
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.PerMinute(http.MethodPost, parsePath, cfg.RateLimitPerMinute))

	parse := http.Handler(http.HandlerFunc(s.handleParseInput))
	stream := http.Handler(http.HandlerFunc(s.handleParseInputStream))
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
		auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
		parse = auth(parse)
		stream = auth(stream)
	}

	mux := http.NewServeMux()
	mux.Handle("POST "+parsePath, parse)
	mux.Handle("POST "+parsePath+"/stream", stream)
	mux.HandleFunc("GET /schema", s.handleSchema)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // a parse may wait out the full round timeout
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Infow("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Infow("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.logger.Infow("server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.Method, r.URL.Path)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		s.logger.Errorw("error encoding JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID identifies the caller for rate limiting: the token's client
// when auth is on, otherwise the remote IP.
func (s *Server) extractClientID(r *http.Request) string {
	if s.jwtService != nil {
		if token, ok := middleware.BearerToken(r.Header.Get("Authorization")); ok {
			if claims, err := s.jwtService.ValidateToken(token); err == nil {
				return "client:" + claims.Client
			}
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warnw("rate limit exceeded", "limit", info.Limit, "reset", info.ResetTime.Format(time.RFC3339))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

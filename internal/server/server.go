// Package server provides the HTTP API of the site generator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/i18n"
	"github.com/jonathan/site-generator/internal/llm"
	"github.com/jonathan/site-generator/internal/server/middleware"
	"github.com/jonathan/site-generator/internal/server/ratelimit"
	"github.com/jonathan/site-generator/internal/site"
)

// DefaultMaxRequestBytes bounds request bodies when Config leaves it unset
const DefaultMaxRequestBytes = 64 << 10

// SiteStore is the persistence the site endpoints read and write. *db.DB satisfies it.
type SiteStore interface {
	site.Store
	GetSite(ctx context.Context, id uuid.UUID) (*db.Site, error)
	GetSiteContent(ctx context.Context, siteID uuid.UUID, language string) (*db.SiteContent, error)
	ListSites(ctx context.Context, limit int) ([]db.Site, error)
}

// Config holds server configuration
type Config struct {
	Port            int
	AllowedOrigins  []string
	RatePerMinute   int
	Burst           int
	MaxRequestBytes int64

	// OutputDir receives the sites built by POST /sites
	OutputDir string
	// APIKey enables Primary for content resolution
	APIKey  string
	Primary content.Source

	// JWT and LLM enable the generation endpoint; without either it answers 503
	JWT *config.JWTConfig
	LLM llm.Client

	// Store is optional; without it sites are built but not recorded
	Store      SiteStore
	Translator *i18n.Translator
	Logger     *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	logger          *zap.Logger
	rateLimiter     *ratelimit.Limiter
	jwtService      *JWTService
	llm             llm.Client
	store           SiteStore
	translator      *i18n.Translator
	builder         *site.Builder
	validate        *validator.Validate
	primary         content.Source
	apiKey          string
	allowedOrigins  []string
	maxRequestBytes int64
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	translator := cfg.Translator
	if translator == nil {
		var err error
		translator, err = i18n.Embedded()
		if err != nil {
			return nil, fmt.Errorf("failed to load translations: %w", err)
		}
	}

	s := &Server{
		logger:          logger,
		llm:             cfg.LLM,
		store:           cfg.Store,
		translator:      translator,
		validate:        newRequestValidator(),
		primary:         cfg.Primary,
		apiKey:          cfg.APIKey,
		allowedOrigins:  cfg.AllowedOrigins,
		maxRequestBytes: cfg.MaxRequestBytes,
	}
	if s.maxRequestBytes <= 0 {
		s.maxRequestBytes = DefaultMaxRequestBytes
	}
	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	builderOpts := site.Options{
		OutputRoot: cfg.OutputDir,
		APIKey:     cfg.APIKey,
		Primary:    cfg.Primary,
		Logger:     logger,
	}
	if cfg.Store != nil {
		builderOpts.Store = cfg.Store
	}
	s.builder = site.NewBuilder(builderOpts)

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RatePerMinute, cfg.Burst))

	// Setup router
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Generation endpoint used by remote content sources
	generate := http.HandlerFunc(s.handleGenerateContent)
	if s.jwtService != nil {
		mux.Handle("POST /api/generate-content", middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(generate))
	} else {
		mux.HandleFunc("POST /api/generate-content", s.handleGenerateUnavailable)
	}

	// Sites
	mux.HandleFunc("POST /sites/content", s.handleResolveContent)
	mux.HandleFunc("POST /sites", s.handleCreateSite)
	mux.HandleFunc("GET /sites", s.handleListSites)
	mux.HandleFunc("GET /sites/{id}", s.handleGetSite)
	mux.HandleFunc("GET /sites/{id}/content", s.handleGetSiteContent)

	// Localization
	mux.HandleFunc("GET /i18n/languages", s.handleLanguages)
	mux.HandleFunc("GET /i18n/links", s.handleAlternateLinks)
	mux.HandleFunc("GET /i18n/{lang}/translate", s.handleTranslate)
	mux.HandleFunc("GET /i18n/{lang}/terms/{businessType}", s.handleTerms)

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Site builds wait on remote generation
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.Close()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work. The HTTP listener is not affected.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers for allowed origins. "*" allows any origin.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	return slices.Contains(s.allowedOrigins, "*") || slices.Contains(s.allowedOrigins, origin)
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, clientID, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it. Validation errors carry the field.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}

	body := map[string]string{"error": err.Error()}
	if field := fieldOf(err); field != "" {
		body["field"] = field
	}
	s.jsonResponse(w, status, body)
}

// decodeJSON reads a bounded JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body, err := s.readBody(w, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &ErrValidation{Field: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return nil
}

// readBody reads at most maxRequestBytes of the request body.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &ErrTooLarge{Limit: tooLarge.Limit}
		}
		return nil, &ErrValidation{Field: "body", Message: fmt.Sprintf("failed to read body: %v", err)}
	}
	if len(body) == 0 {
		return nil, &ErrValidation{Field: "body", Message: "request body is empty"}
	}
	return body, nil
}

// newRequestValidator reports fields by their JSON names.
func newRequestValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest validates req and converts the first failure into an ErrValidation.
func (s *Server) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return extractValidationErrors(fieldErrs)
}

func extractValidationErrors(fieldErrs validator.ValidationErrors) *ErrValidation {
	fe := fieldErrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	msg := fmt.Sprintf("failed %q validation", fe.Tag())
	switch fe.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		msg = fmt.Sprintf("must be at least %s", fe.Param())
	}
	return &ErrValidation{Field: field, Message: msg}
}

// extractClientID extracts the client identifier (IP address) from the request.
func (s *Server) extractClientID(r *http.Request) string {
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
func (s *Server) rateLimitResponse(w http.ResponseWriter, clientID string, info ratelimit.Info) {
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

	s.logger.Warn("rate limit exceeded",
		zap.String("client", clientID),
		zap.Int("limit", info.Limit),
		zap.Time("reset", info.ResetTime),
	)
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

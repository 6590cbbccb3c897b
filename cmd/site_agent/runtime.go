package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/logging"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	stepColor = color.New(color.FgCyan)
	warnColor = color.New(color.FgYellow)
)

// runtimeEnv bundles what every command needs from settings.
type runtimeEnv struct {
	settings *config.Settings
	logger   *zap.Logger
	closers  []func() error
}

// loadRuntime reads settings and builds the CLI logger.
func loadRuntime() (*runtimeEnv, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(verbose || settings.Verbose)
	if err != nil {
		return nil, err
	}
	return &runtimeEnv{settings: settings, logger: logger}, nil
}

// Close releases resources opened through the environment, newest first.
func (e *runtimeEnv) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	_ = e.logger.Sync()
	return errors.Join(errs...)
}

// verbose reports whether detailed output was requested by flag or settings.
func (e *runtimeEnv) verbose() bool {
	return verbose || e.settings.Verbose
}

// apiKey returns the flag value when set, otherwise the configured key.
func (e *runtimeEnv) apiKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return e.settings.APIKey
}

// openCache opens the response cache when a cache path is configured.
func (e *runtimeEnv) openCache() (*content.Cache, error) {
	if e.settings.CachePath == "" {
		return nil, nil
	}
	cache, err := content.OpenCache(e.settings.CachePath)
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, cache.Close)
	return cache, nil
}

// primarySource builds the configured primary content source. It is nil when
// apiKey is empty or the provider is static.
func (e *runtimeEnv) primarySource(ctx context.Context, apiKey string) (content.Source, error) {
	cache, err := e.openCache()
	if err != nil {
		return nil, err
	}

	source, closeFn, err := content.NewPrimarySource(ctx, content.PrimaryOptions{
		Provider:         content.Provider(e.settings.Provider),
		Endpoint:         e.settings.Endpoint,
		APIKey:           apiKey,
		Timeout:          e.settings.Timeout,
		MaxRequestBytes:  e.settings.MaxRequestBytes,
		MaxResponseBytes: e.settings.MaxResponseBytes,
		Cache:            cache,
		CacheTTL:         e.settings.CacheTTL,
		Logger:           e.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create content source: %w", err)
	}
	e.closers = append(e.closers, closeFn)

	if source == nil {
		e.logger.Debug("no primary content source; using the static catalog", zap.String("provider", e.settings.Provider))
	}
	return source, nil
}

// store connects to the database when a URL is configured.
func (e *runtimeEnv) store(ctx context.Context) (*db.DB, error) {
	if e.settings.DatabaseURL == "" {
		return nil, nil
	}
	database, err := db.Connect(ctx, e.settings.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, err
	}
	e.closers = append(e.closers, func() error {
		database.Close()
		return nil
	})
	return database, nil
}

// lockedWriter serializes writes from concurrent progress callbacks.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

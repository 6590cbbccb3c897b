package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/llm"
	"github.com/jonathan/site-generator/internal/logging"
	"github.com/jonathan/site-generator/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the content generation endpoint, site
generation and translation lookups.

The generation endpoint needs a Gemini API key and a JWT secret; without them it
answers 503. Sites are recorded when a database URL is configured.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to the server.port setting)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}
	logger, err := logging.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	env := &runtimeEnv{settings: settings, logger: logger}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := server.Config{
		Port:            settings.Server.Port,
		AllowedOrigins:  settings.Server.AllowedOrigins,
		RatePerMinute:   settings.Server.RatePerMinute,
		Burst:           settings.Server.Burst,
		MaxRequestBytes: int64(settings.MaxRequestBytes),
		OutputDir:       settings.OutputDir,
		Logger:          logger,
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	if settings.APIKey != "" {
		llmCfg := llm.DefaultConfig()
		llmCfg.Timeout = settings.Timeout
		client, err := llm.NewClient(ctx, llmCfg, settings.APIKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		env.closers = append(env.closers, client.Close)

		// The server drafts copy with its own model instead of calling itself over HTTP
		var primary content.Source = content.NewLLMSource(client)
		cache, err := env.openCache()
		if err != nil {
			return err
		}
		if cache != nil {
			primary = content.NewCachedSource(primary, cache, settings.CacheTTL, logger)
		}

		cfg.LLM = client
		cfg.APIKey = settings.APIKey
		cfg.Primary = primary
	} else {
		logger.Warn("no API key configured; content generation is disabled and sites use static copy")
	}

	if settings.JWT.Secret != "" {
		jwtCfg, err := config.NewJWTConfig(settings.JWT)
		if err != nil {
			return err
		}
		cfg.JWT = jwtCfg
	} else {
		logger.Warn("no JWT secret configured; the generation endpoint is disabled")
	}

	database, err := env.store(ctx)
	if err != nil {
		return err
	}
	if database != nil {
		cfg.Store = database
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	logger.Info("configured server",
		zap.Int("port", cfg.Port),
		zap.Bool("generation", cfg.LLM != nil && cfg.JWT != nil),
		zap.Bool("store", cfg.Store != nil),
	)
	return srv.Start()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/observability"
	"github.com/jonathan/site-generator/internal/site"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one or more sites from site configuration files",
	Long: `Generates a site directory per configuration file under the output directory.

Several --config flags build the sites concurrently. A failing site does not
stop the others; the command exits non-zero when any site failed.`,
	Example: `  site_agent generate --config weatherpro.json
  site_agent generate --config a.json --config b.json --out dist --concurrency 2`,
	RunE: runGenerate,
}

var (
	generateConfigs     []string
	generateOut         string
	generateAPIKey      string
	generateConcurrency int
)

func init() {
	generateCmd.Flags().StringArrayVarP(&generateConfigs, "config", "c", nil, "Path to a site configuration JSON file (repeatable)")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output root directory (defaults to the output_dir setting)")
	generateCmd.Flags().StringVar(&generateAPIKey, "api-key", "", "API key for the content source (optional, defaults to SITEGEN_API_KEY or GEMINI_API_KEY)")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "Maximum sites built at once (defaults to the concurrency setting)")

	_ = generateCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey := env.apiKey(generateAPIKey)
	primary, err := env.primarySource(ctx, apiKey)
	if err != nil {
		return err
	}

	opts := site.Options{
		OutputRoot: env.settings.OutputDir,
		APIKey:     apiKey,
		Primary:    primary,
		Logger:     env.logger,
	}
	if generateOut != "" {
		opts.OutputRoot = generateOut
	}
	database, err := env.store(ctx)
	if err != nil {
		return err
	}
	if database != nil {
		opts.Store = database
	}

	concurrency := env.settings.Concurrency
	if generateConcurrency > 0 {
		concurrency = generateConcurrency
	}

	_, err = generateSites(ctx, cmd.OutOrStdout(), generateConfigs, opts, concurrency, env.verbose())
	return err
}

// generateSites loads every configuration, then builds the sites concurrently.
// Configuration errors abort before anything is written.
func generateSites(ctx context.Context, out io.Writer, paths []string, opts site.Options, concurrency int, detailed bool) ([]*site.Result, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one --config is required")
	}

	cfgs := make([]*config.SiteConfig, 0, len(paths))
	for _, path := range paths {
		cfg, err := config.LoadSiteConfig(path)
		if err != nil {
			_, _ = failColor.Fprintf(out, "✗ %s: %v\n", path, err)
			return nil, fmt.Errorf("failed to load config %s: %w", path, err)
		}
		cfgs = append(cfgs, cfg)
	}

	w := &lockedWriter{w: out}
	printer := observability.NewPrinter(w)
	if detailed {
		for _, cfg := range cfgs {
			printer.PrintSiteConfig(cfg)
		}
		opts.OnProgress = func(e site.ProgressEvent) {
			_, _ = stepColor.Fprintf(w, "  [%s] %s: %s\n", e.Step, e.Site, e.Message)
		}
	}

	results, err := site.NewBuilder(opts).BuildAll(ctx, cfgs, concurrency)
	for _, res := range results {
		if res == nil {
			continue
		}
		_, _ = okColor.Fprintf(w, "✓ %s → %s\n", res.Name, res.Dir)
		if res.StoreFailed {
			_, _ = warnColor.Fprintf(w, "  ! %s was generated but could not be recorded\n", res.Name)
		}
		if detailed {
			printer.PrintContent(res.Content, res.Origins)
			printer.PrintSiteSummary(res.Name, res.Dir, res.Files, res.Duration)
		}
	}

	var batchErr *site.BatchError
	if errors.As(err, &batchErr) {
		names := make([]string, 0, len(batchErr.Failures))
		for name := range batchErr.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			_, _ = failColor.Fprintf(w, "✗ %s: %v\n", name, batchErr.Failures[name])
		}
	}
	return results, err
}

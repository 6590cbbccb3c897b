package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/observability"
	"github.com/jonathan/site-generator/internal/schemas"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Resolve the copy of a site without writing the site",
	Long: `Resolves the generated content for one site configuration and writes it as JSON
to --out, or to stdout when --out is not given.`,
	RunE: runContent,
}

var (
	contentConfig string
	contentOut    string
	contentAPIKey string
)

func init() {
	contentCmd.Flags().StringVarP(&contentConfig, "config", "c", "", "Path to a site configuration JSON file")
	contentCmd.Flags().StringVarP(&contentOut, "out", "o", "", "Output JSON file (defaults to stdout)")
	contentCmd.Flags().StringVar(&contentAPIKey, "api-key", "", "API key for the content source (optional, defaults to SITEGEN_API_KEY or GEMINI_API_KEY)")

	_ = contentCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(contentCmd)
}

func runContent(cmd *cobra.Command, _ []string) error {
	env, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	apiKey := env.apiKey(contentAPIKey)
	primary, err := env.primarySource(ctx, apiKey)
	if err != nil {
		return err
	}

	cfg, err := config.LoadSiteConfig(contentConfig)
	if err != nil {
		return err
	}

	var printer *observability.Printer
	if env.verbose() {
		printer = observability.NewPrinter(cmd.ErrOrStderr())
	}
	return resolveContent(ctx, cmd.OutOrStdout(), cfg, apiKey, primary, env.logger, contentOut, printer)
}

// resolveContent resolves the site copy and writes it to outPath, or to out when outPath is empty.
func resolveContent(ctx context.Context, out io.Writer, cfg *config.SiteConfig, apiKey string, primary content.Source, logger *zap.Logger, outPath string, printer *observability.Printer) error {
	gen, err := content.NewGenerator(cfg.GenerationConfig(apiKey), content.WithLogger(logger), content.WithPrimary(primary))
	if err != nil {
		return err
	}
	res, err := gen.Resolve(ctx)
	if err != nil {
		return fmt.Errorf("content generation failed: %w", err)
	}
	cfg.Overrides(res.Content)

	if err := schemas.ValidateGo(schemas.GeneratedContent, res.Content); err != nil {
		return err
	}
	if printer != nil {
		printer.PrintContent(res.Content, res.Origins)
	}

	data, err := json.MarshalIndent(res.Content, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal content: %w", err)
	}
	data = append(data, '\n')

	if outPath == "" {
		_, err := out.Write(data)
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write content file: %w", err)
	}
	_, _ = okColor.Fprintf(out, "✓ content for %s written to %s\n", cfg.Name, outPath)
	return nil
}

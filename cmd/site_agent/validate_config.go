package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/observability"
	"github.com/jonathan/site-generator/internal/schemas"
)

var validateConfigCmd = &cobra.Command{
	Use:   "validate-config",
	Short: "Validate site configuration files",
	Long: `Checks each site configuration against the site_config JSON schema and the
configuration rules used by generate. Exits non-zero when any file is invalid.`,
	RunE: runValidateConfig,
}

var validateConfigPaths []string

func init() {
	validateConfigCmd.Flags().StringArrayVarP(&validateConfigPaths, "config", "c", nil, "Path to a site configuration JSON file (repeatable)")
	_ = validateConfigCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(validateConfigCmd)
}

func runValidateConfig(cmd *cobra.Command, _ []string) error {
	var printer *observability.Printer
	if verbose {
		printer = observability.NewPrinter(cmd.OutOrStdout())
	}
	return validateConfigs(cmd.OutOrStdout(), validateConfigPaths, printer)
}

// validateConfigs reports every file and returns an error naming how many failed.
func validateConfigs(out io.Writer, paths []string, printer *observability.Printer) error {
	failed := 0
	for _, path := range paths {
		cfg, err := validateConfig(path)
		if err != nil {
			failed++
			_, _ = failColor.Fprintf(out, "✗ %s\n", path)
			printValidationError(out, err)
			continue
		}
		_, _ = okColor.Fprintf(out, "✓ %s (%s, %s)\n", path, cfg.Name, cfg.BusinessType)
		if printer != nil {
			printer.PrintSiteConfig(cfg)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d config file(s) failed validation", failed, len(paths))
	}
	return nil
}

func validateConfig(path string) (*config.SiteConfig, error) {
	if err := schemas.ValidateFile(schemas.SiteConfig, path); err != nil {
		return nil, err
	}
	return config.LoadSiteConfig(path)
}

func printValidationError(out io.Writer, err error) {
	var schemaErr *schemas.ValidationError
	if errors.As(err, &schemaErr) {
		for _, fe := range schemaErr.Errors {
			_, _ = fmt.Fprintf(out, "    %s: %s\n", fe.Field, fe.Message)
		}
		return
	}
	_, _ = fmt.Fprintf(out, "    %v\n", err)
}

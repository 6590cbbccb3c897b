package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/types"
)

// Paths of the generated files, relative to the site directory
var (
	SiteConfigPath = filepath.Join("src", "config", "site-config.json")
	ThemePath      = filepath.Join("src", "styles", "theme.css")
	contentDir     = filepath.Join("src", "content", "generated")
)

// ContentPath returns the content file path for a business type.
func ContentPath(businessType types.BusinessType) string {
	if businessType == types.BusinessConsulting {
		return filepath.Join(contentDir, "consulting-content.json")
	}
	return filepath.Join(contentDir, "app-content.json")
}

// Slug derives the output directory name: lowercase with whitespace runs replaced by "-".
func Slug(name string) (string, error) {
	slug := strings.Join(strings.Fields(strings.ToLower(name)), "-")
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return "", fmt.Errorf("site name %q does not produce a usable directory name", name)
	}
	return slug, nil
}

// SiteConfigDocument builds the site-config.json document consumed by the site template.
func SiteConfigDocument(cfg *config.SiteConfig) map[string]any {
	doc := map[string]any{
		"name":            cfg.Name,
		"displayName":     cfg.DisplayName,
		"tagline":         cfg.Tagline,
		"description":     cfg.Description,
		"businessType":    cfg.BusinessType,
		"primaryColor":    cfg.PrimaryColor,
		"secondaryColor":  cfg.SecondaryColor,
		"accentColor":     cfg.AccentColor,
		"languages":       cfg.Languages,
		"defaultLanguage": cfg.DefaultLanguage,
		"features":        []types.Feature{},
		"pricing":         map[string]any{},
		"seo": map[string]any{
			"keywords": cfg.Keywords,
			"ogImage":  cfg.OGImage,
		},
	}

	switch {
	case cfg.AppMarketing != nil:
		if len(cfg.AppMarketing.Features) > 0 {
			doc["features"] = cfg.AppMarketing.Features
		}
		if cfg.AppMarketing.Pricing != nil {
			doc["pricing"] = cfg.AppMarketing.Pricing
		}
		doc["appStore"] = cfg.AppMarketing.AppStore
	case cfg.Consulting != nil:
		if cfg.Consulting.Pricing != nil {
			doc["pricing"] = cfg.Consulting.Pricing
		}
		doc["services"] = nonNil(cfg.Consulting.Services)
		doc["team"] = nonNil(cfg.Consulting.Team)
	}
	return doc
}

// Theme renders the theme stylesheet for a site.
func Theme(cfg *config.SiteConfig) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("/* Generated theme for %s */\n", cfg.Name))
	sb.WriteString(":root {\n")
	sb.WriteString(fmt.Sprintf("  --color-primary: theme('colors.%s.600');\n", cfg.PrimaryColor))
	sb.WriteString(fmt.Sprintf("  --color-primary-dark: theme('colors.%s.700');\n", cfg.PrimaryColor))
	sb.WriteString(fmt.Sprintf("  --color-secondary: theme('colors.%s.500');\n", cfg.SecondaryColor))
	sb.WriteString(fmt.Sprintf("  --color-accent: theme('colors.%s.500');\n", cfg.AccentColor))
	sb.WriteString("}\n")
	return sb.String()
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func writeJSON(dir, rel string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", rel, err)
	}
	return writeFile(dir, rel, append(data, '\n'))
}

func writeFile(dir, rel string, data []byte) error {
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// publish moves a fully written staging directory into place, replacing any previous output.
func publish(staging, target string) error {
	backup := ""
	if _, err := os.Stat(target); err == nil {
		backup = target + ".old"
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("failed to clear previous backup: %w", err)
		}
		if err := os.Rename(target, backup); err != nil {
			return fmt.Errorf("failed to move previous output aside: %w", err)
		}
	}

	if err := os.Rename(staging, target); err != nil {
		if backup != "" {
			_ = os.Rename(backup, target)
		}
		return fmt.Errorf("failed to publish site: %w", err)
	}

	if backup != "" {
		_ = os.RemoveAll(backup)
	}
	return nil
}

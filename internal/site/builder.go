// Package site turns validated site configurations into generated site directories.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/schemas"
	"github.com/jonathan/site-generator/internal/types"
)

// Build steps reported through ProgressCallback
const (
	StepConfig  = "site_config"
	StepContent = "content"
	StepTheme   = "theme"
	StepPublish = "publish"
	StepStore   = "store"
)

// ProgressEvent represents a progress update during a site build
type ProgressEvent struct {
	Step    string    `json:"step"`
	Site    string    `json:"site"`
	Message string    `json:"message"`
	ID      uuid.UUID `json:"id"`
}

// ProgressCallback is called when build progress occurs
type ProgressCallback func(event ProgressEvent)

// Store persists generated sites. *db.DB satisfies it.
type Store interface {
	SaveSite(ctx context.Context, site *db.Site, content *db.SiteContent) error
}

// Options configures a Builder.
type Options struct {
	// OutputRoot is the directory that receives one sub-directory per site
	OutputRoot string
	// APIKey enables the primary source; without it every section is static
	APIKey string
	// Primary is the remote source tried before the static catalog
	Primary    content.Source
	Store      Store
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Result describes one generated site.
type Result struct {
	ID          uuid.UUID                  `json:"id"`
	Name        string                     `json:"name"`
	Slug        string                     `json:"slug"`
	Dir         string                     `json:"dir"`
	Language    string                     `json:"language"`
	Content     *types.GeneratedContent    `json:"content"`
	Origins     map[content.Section]string `json:"origins"`
	Files       []string                   `json:"files"`
	Duration    time.Duration              `json:"duration"`
	StoreFailed bool                       `json:"store_failed,omitempty"`
}

// Builder generates site directories.
type Builder struct {
	opts   Options
	logger *zap.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OutputRoot == "" {
		opts.OutputRoot = "generated-sites"
	}
	return &Builder{opts: opts, logger: logger}
}

func (b *Builder) emit(step string, id uuid.UUID, site, message string) {
	if b.opts.OnProgress != nil {
		b.opts.OnProgress(ProgressEvent{Step: step, Site: site, Message: message, ID: id})
	}
}

// Build generates one site. Files are staged in a temporary directory and
// moved into place only when every file was written.
func (b *Builder) Build(ctx context.Context, cfg *config.SiteConfig) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("site config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	slug, err := Slug(cfg.Name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res := &Result{
		ID:       uuid.New(),
		Name:     cfg.Name,
		Slug:     slug,
		Dir:      filepath.Join(b.opts.OutputRoot, slug),
		Language: cfg.DefaultLanguage,
	}
	logger := b.logger.With(zap.String("site", cfg.Name), zap.String("id", res.ID.String()))

	if err := os.MkdirAll(b.opts.OutputRoot, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output root: %w", err)
	}
	staging, err := os.MkdirTemp(b.opts.OutputRoot, "."+slug+"-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	// 1. Site configuration
	if err := writeJSON(staging, SiteConfigPath, SiteConfigDocument(cfg)); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, SiteConfigPath)
	b.emit(StepConfig, res.ID, cfg.Name, "site configuration written")

	// 2. Content
	resolution, err := b.resolveContent(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	res.Content = resolution.Content
	res.Origins = resolution.Origins

	contentPath := ContentPath(cfg.BusinessType)
	if err := writeJSON(staging, contentPath, res.Content); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, contentPath)
	b.emit(StepContent, res.ID, cfg.Name, fmt.Sprintf("content written to %s", contentPath))

	// 3. Theme
	if err := writeFile(staging, ThemePath, []byte(Theme(cfg))); err != nil {
		return nil, err
	}
	res.Files = append(res.Files, ThemePath)
	b.emit(StepTheme, res.ID, cfg.Name, "theme written")

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("site build cancelled: %w", err)
	}
	if err := publish(staging, res.Dir); err != nil {
		return nil, err
	}
	b.emit(StepPublish, res.ID, cfg.Name, fmt.Sprintf("site published to %s", res.Dir))

	// 4. Optional persistence; the site on disk is already complete
	if b.opts.Store != nil {
		if err := b.store(ctx, cfg, res); err != nil {
			res.StoreFailed = true
			logger.Warn("failed to record site", zap.Error(err))
		} else {
			b.emit(StepStore, res.ID, cfg.Name, "site recorded")
		}
	}

	res.Duration = time.Since(start)
	logger.Info("site generated",
		zap.String("dir", res.Dir),
		zap.Duration("duration", res.Duration),
		zap.Any("origins", res.Origins),
	)
	return res, nil
}

func (b *Builder) resolveContent(ctx context.Context, cfg *config.SiteConfig, logger *zap.Logger) (*content.Resolution, error) {
	var opts []content.Option
	opts = append(opts, content.WithLogger(logger))
	if b.opts.Primary != nil {
		opts = append(opts, content.WithPrimary(b.opts.Primary))
	}

	gen, err := content.NewGenerator(cfg.GenerationConfig(b.opts.APIKey), opts...)
	if err != nil {
		return nil, err
	}
	resolution, err := gen.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("content generation failed: %w", err)
	}

	cfg.Overrides(resolution.Content)
	if err := resolution.Content.CheckShape(cfg.BusinessType); err != nil {
		return nil, fmt.Errorf("site content has invalid shape: %w", err)
	}
	if err := schemas.ValidateGo(schemas.GeneratedContent, resolution.Content); err != nil {
		return nil, fmt.Errorf("site content failed schema validation: %w", err)
	}
	return resolution, nil
}

func (b *Builder) store(ctx context.Context, cfg *config.SiteConfig, res *Result) error {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal site config: %w", err)
	}
	contentJSON, err := json.Marshal(res.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal site content: %w", err)
	}

	origins := make(map[string]string, len(res.Origins))
	for section, origin := range res.Origins {
		origins[string(section)] = origin
	}

	record := &db.Site{
		ID:           res.ID,
		Name:         cfg.Name,
		Slug:         res.Slug,
		BusinessType: string(cfg.BusinessType),
		OutputDir:    res.Dir,
		Config:       cfgJSON,
	}
	return b.opts.Store.SaveSite(ctx, record, &db.SiteContent{
		Language: res.Language,
		Content:  contentJSON,
		Origins:  origins,
	})
}

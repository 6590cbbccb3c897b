package content

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/site-generator/internal/types"
)

// Generator resolves the copy of one site for a fixed GenerationConfig.
type Generator struct {
	cfg    types.GenerationConfig
	source Source
	remote bool
	logger *zap.Logger
}

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the logger used for fallback warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithPrimary sets the source tried before the static catalog.
// It is ignored when the config has no API key.
func WithPrimary(primary Source) Option {
	return func(g *Generator) {
		g.source = primary
	}
}

// Resolution is a resolved site together with where each section came from.
type Resolution struct {
	Content *types.GeneratedContent
	Origins map[Section]string
}

// NewGenerator validates cfg and builds the section dispatch.
// Without an API key every section comes from the static catalog.
func NewGenerator(cfg types.GenerationConfig, opts ...Option) (*Generator, error) {
	if err := cfg.CheckBusinessType(); err != nil {
		return nil, err
	}

	g := &Generator{cfg: cfg.WithDefaults(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(g)
	}

	static := NewStaticSource()
	if g.cfg.APIKey == "" || g.source == nil {
		g.source = static
		return g, nil
	}

	g.source = Fallback(g.source, static, g.logger)
	g.remote = true
	return g, nil
}

// Config returns the generator's configuration with defaults applied.
func (g *Generator) Config() types.GenerationConfig {
	return g.cfg.WithDefaults()
}

// UsesRemote reports whether sections are attempted remotely first.
func (g *Generator) UsesRemote() bool {
	return g.remote
}

// Step is one section resolution in a site plan.
type Step struct {
	Section Section
	Count   int
}

// Plan returns the sections of a site in resolution order: hero first,
// then the business-type sections, then testimonials.
func Plan(businessType types.BusinessType) []Step {
	steps := []Step{{Section: SectionHero}}
	if businessType == types.BusinessConsulting {
		steps = append(steps,
			Step{Section: SectionServices},
			Step{Section: SectionCaseStudies, Count: DefaultCaseStudyCount},
		)
	} else {
		steps = append(steps,
			Step{Section: SectionFeatures},
			Step{Section: SectionPricing},
		)
	}
	return append(steps, Step{Section: SectionTestimonials, Count: DefaultTestimonialCount})
}

// GenerateSiteContent resolves every section for the business type.
func (g *Generator) GenerateSiteContent(ctx context.Context) (*types.GeneratedContent, error) {
	res, err := g.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return res.Content, nil
}

// Resolve is GenerateSiteContent with per-section origins.
func (g *Generator) Resolve(ctx context.Context) (*Resolution, error) {
	res := &Resolution{
		Content: &types.GeneratedContent{},
		Origins: make(map[Section]string),
	}

	for _, step := range Plan(g.cfg.BusinessType) {
		frag, err := g.resolve(ctx, step.Section, step.Count)
		if err != nil {
			return nil, err
		}
		frag.Apply(res.Content)
		res.Origins[step.Section] = frag.Origin
	}

	if err := res.Content.CheckShape(g.cfg.BusinessType); err != nil {
		return nil, fmt.Errorf("generated content has invalid shape: %w", err)
	}
	return res, nil
}

// GenerateHero resolves the hero section.
func (g *Generator) GenerateHero(ctx context.Context) (types.Hero, error) {
	frag, err := g.resolve(ctx, SectionHero, 0)
	if err != nil {
		return types.Hero{}, err
	}
	return *frag.Hero, nil
}

// GenerateFeatures resolves the app feature list.
func (g *Generator) GenerateFeatures(ctx context.Context) ([]types.Feature, error) {
	frag, err := g.resolve(ctx, SectionFeatures, 0)
	if err != nil {
		return nil, err
	}
	return frag.Features, nil
}

// GenerateServices resolves the consulting service list.
func (g *Generator) GenerateServices(ctx context.Context) ([]types.Service, error) {
	frag, err := g.resolve(ctx, SectionServices, 0)
	if err != nil {
		return nil, err
	}
	return frag.Services, nil
}

// GenerateTestimonials resolves up to count testimonials (default 3).
func (g *Generator) GenerateTestimonials(ctx context.Context, count int) ([]types.Testimonial, error) {
	frag, err := g.resolve(ctx, SectionTestimonials, count)
	if err != nil {
		return nil, err
	}
	return frag.Testimonials, nil
}

// GenerateCaseStudies resolves up to count case studies (default 2).
func (g *Generator) GenerateCaseStudies(ctx context.Context, count int) ([]types.CaseStudy, error) {
	frag, err := g.resolve(ctx, SectionCaseStudies, count)
	if err != nil {
		return nil, err
	}
	return frag.CaseStudies, nil
}

// GeneratePricing resolves the pricing tiers.
func (g *Generator) GeneratePricing(ctx context.Context) (*types.Pricing, error) {
	frag, err := g.resolve(ctx, SectionPricing, 0)
	if err != nil {
		return nil, err
	}
	return frag.Pricing, nil
}

// GenerateSection resolves a single named section.
func (g *Generator) GenerateSection(ctx context.Context, section Section, count int) (*Fragment, error) {
	if !section.Valid() {
		return nil, fmt.Errorf("unknown section %q", section)
	}
	return g.resolve(ctx, section, count)
}

func (g *Generator) resolve(ctx context.Context, section Section, count int) (*Fragment, error) {
	req := Request{Section: section, Config: g.cfg, Count: count}

	if g.remote {
		prompt, err := BuildPrompt(req)
		if err != nil {
			g.logger.Warn("failed to build prompt, using static content",
				zap.String("section", string(section)), zap.Error(err))
			return NewStaticSource().Generate(ctx, req)
		}
		req.Prompt = prompt
	}

	frag, err := g.source.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", section, err)
	}
	return frag, nil
}

// Package content resolves the marketing copy of a generated site.
//
// Every section is produced by a Source. The static catalog is always
// available; remote and LLM sources are composed in front of it with Fallback
// so a failed remote call degrades to static copy for that section only.
package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/site-generator/internal/schemas"
	"github.com/jonathan/site-generator/internal/types"
)

// Section names a resolvable part of a GeneratedContent record.
type Section string

// Section constants match the JSON field names of types.GeneratedContent
const (
	SectionHero         Section = "hero"
	SectionFeatures     Section = "features"
	SectionServices     Section = "services"
	SectionTestimonials Section = "testimonials"
	SectionCaseStudies  Section = "caseStudies"
	SectionPricing      Section = "pricing"
)

// Sections lists every section in orchestration order.
var Sections = []Section{
	SectionHero,
	SectionFeatures,
	SectionServices,
	SectionCaseStudies,
	SectionPricing,
	SectionTestimonials,
}

// Valid reports whether s is a known section.
func (s Section) Valid() bool {
	for _, known := range Sections {
		if s == known {
			return true
		}
	}
	return false
}

// Default item counts for list sections
const (
	DefaultTestimonialCount = 3
	DefaultCaseStudyCount   = 2
)

// Request asks a Source for one section.
type Request struct {
	Section Section
	Config  types.GenerationConfig
	// Count bounds list sections (testimonials, case studies); zero uses the default
	Count int
	// Prompt is the natural-language instruction sent to remote sources
	Prompt string
}

// Fragment is the resolved content of a single section.
// Exactly the field matching Section is populated.
type Fragment struct {
	Section      Section
	Origin       string
	Hero         *types.Hero
	Features     []types.Feature
	Services     []types.Service
	Testimonials []types.Testimonial
	CaseStudies  []types.CaseStudy
	Pricing      *types.Pricing
}

// Source produces section content.
type Source interface {
	Generate(ctx context.Context, req Request) (*Fragment, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context, req Request) (*Fragment, error)

// Generate calls f.
func (f SourceFunc) Generate(ctx context.Context, req Request) (*Fragment, error) {
	return f(ctx, req)
}

// Apply copies the fragment's section into content.
func (f *Fragment) Apply(content *types.GeneratedContent) {
	switch f.Section {
	case SectionHero:
		if f.Hero != nil {
			content.Hero = *f.Hero
		}
	case SectionFeatures:
		content.Features = f.Features
	case SectionServices:
		content.Services = f.Services
	case SectionTestimonials:
		content.Testimonials = f.Testimonials
	case SectionCaseStudies:
		content.CaseStudies = f.CaseStudies
	case SectionPricing:
		content.Pricing = f.Pricing
	}
}

// Value returns the populated section value, suitable for JSON encoding.
func (f *Fragment) Value() any {
	switch f.Section {
	case SectionHero:
		return f.Hero
	case SectionFeatures:
		return f.Features
	case SectionServices:
		return f.Services
	case SectionTestimonials:
		return f.Testimonials
	case SectionCaseStudies:
		return f.CaseStudies
	case SectionPricing:
		return f.Pricing
	}
	return nil
}

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use
var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeFragment parses section-shaped JSON and validates it.
func DecodeFragment(section Section, raw []byte) (*Fragment, error) {
	frag := &Fragment{Section: section}

	var target any
	switch section {
	case SectionHero:
		frag.Hero = &types.Hero{}
		target = frag.Hero
	case SectionFeatures:
		target = &frag.Features
	case SectionServices:
		target = &frag.Services
	case SectionTestimonials:
		target = &frag.Testimonials
	case SectionCaseStudies:
		target = &frag.CaseStudies
	case SectionPricing:
		frag.Pricing = &types.Pricing{}
		target = frag.Pricing
	default:
		return nil, fmt.Errorf("unknown section %q", section)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("failed to decode %s content: %w", section, err)
	}
	if err := frag.Validate(); err != nil {
		return nil, err
	}
	// The site document is checked against the same schema when it is published
	if err := schemas.ValidateProperty(schemas.GeneratedContent, string(section), frag.Value()); err != nil {
		return nil, fmt.Errorf("invalid %s content: %w", section, err)
	}
	return frag, nil
}

// Limit trims list sections to the requested count, or the default when count is zero.
func (f *Fragment) Limit(count int) {
	switch f.Section {
	case SectionTestimonials:
		if n := countOrDefault(count, DefaultTestimonialCount); len(f.Testimonials) > n {
			f.Testimonials = f.Testimonials[:n]
		}
	case SectionCaseStudies:
		if n := countOrDefault(count, DefaultCaseStudyCount); len(f.CaseStudies) > n {
			f.CaseStudies = f.CaseStudies[:n]
		}
	}
}

// Validate checks the populated section against its struct constraints.
func (f *Fragment) Validate() error {
	var err error
	switch f.Section {
	case SectionHero:
		if f.Hero == nil {
			return fmt.Errorf("hero content is empty")
		}
		err = validate.Struct(f.Hero)
	case SectionPricing:
		if f.Pricing == nil {
			return fmt.Errorf("pricing content is empty")
		}
		err = validate.Struct(f.Pricing)
		if err == nil {
			for i, tier := range f.Pricing.Tiers {
				if verr := tier.Price.Validate(); verr != nil {
					err = fmt.Errorf("tier %d: %w", i, verr)
					break
				}
			}
		}
	case SectionFeatures:
		err = validateList(f.Section, f.Features)
	case SectionServices:
		err = validateList(f.Section, f.Services)
	case SectionTestimonials:
		err = validateList(f.Section, f.Testimonials)
	case SectionCaseStudies:
		err = validateList(f.Section, f.CaseStudies)
	default:
		return fmt.Errorf("unknown section %q", f.Section)
	}
	if err != nil {
		return fmt.Errorf("invalid %s content: %w", f.Section, err)
	}
	return nil
}

func validateList[T any](section Section, items []T) error {
	if len(items) == 0 {
		return fmt.Errorf("%s list is empty", section)
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}
	return nil
}

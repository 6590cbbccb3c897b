// Package config loads and validates site configurations and runtime settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/site-generator/internal/i18n"
	"github.com/jonathan/site-generator/internal/types"
)

// Template defaults merged into every site configuration
const (
	DefaultAppSecondaryColor        = "blue"
	DefaultConsultingSecondaryColor = "slate"
	DefaultAccentColor              = "emerald"
	DefaultOGImage                  = "/og-image.jpg"
)

// ValidationError reports a site configuration that cannot be used.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid site config: " + e.Message
	}
	return fmt.Sprintf("invalid site config: %s %s", e.Field, e.Message)
}

// AppStoreLinks holds the store URLs of an app.
type AppStoreLinks struct {
	IOS     string `json:"ios,omitempty" validate:"omitempty,url"`
	Android string `json:"android,omitempty" validate:"omitempty,url"`
	Web     string `json:"web,omitempty" validate:"omitempty,url"`
}

// TeamMember is a consultant shown on a consulting site.
type TeamMember struct {
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	Bio      string `json:"bio"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Avatar   string `json:"avatar,omitempty"`
}

// BaseConfig holds the fields shared by every business type.
type BaseConfig struct {
	Name            string             `json:"name" validate:"required"`
	BusinessType    types.BusinessType `json:"businessType" validate:"required"`
	DisplayName     string             `json:"displayName,omitempty"`
	Tagline         string             `json:"tagline" validate:"required"`
	Description     string             `json:"description" validate:"required"`
	PrimaryColor    string             `json:"primaryColor" validate:"required"`
	SecondaryColor  string             `json:"secondaryColor,omitempty"`
	AccentColor     string             `json:"accentColor,omitempty"`
	Languages       []string           `json:"languages" validate:"required,min=1,dive,locale"`
	DefaultLanguage string             `json:"defaultLanguage,omitempty" validate:"omitempty,locale"`
	Keywords        []string           `json:"keywords"`
	OGImage         string             `json:"ogImage,omitempty"`
	Industry        string             `json:"industry,omitempty"`
	TargetAudience  string             `json:"targetAudience,omitempty"`
	ToneOfVoice     types.Tone         `json:"toneOfVoice,omitempty" validate:"omitempty,oneof=professional friendly technical casual"`
}

// AppMarketing holds the fields of an app-marketing site.
type AppMarketing struct {
	AppStore     AppStoreLinks       `json:"appStore"`
	Features     []types.Feature     `json:"features" validate:"required,dive"`
	Pricing      *types.Pricing      `json:"pricing,omitempty"`
	Testimonials []types.Testimonial `json:"testimonials,omitempty" validate:"omitempty,dive"`
	AppCategory  string              `json:"appCategory,omitempty"`
	BasePrice    float64             `json:"basePrice,omitempty" validate:"gte=0"`
}

// Consulting holds the fields of a consulting site.
type Consulting struct {
	Services     []types.Service     `json:"services" validate:"required,dive"`
	Team         []TeamMember        `json:"team" validate:"required,dive"`
	CaseStudies  []types.CaseStudy   `json:"caseStudies,omitempty" validate:"omitempty,dive"`
	Testimonials []types.Testimonial `json:"testimonials,omitempty" validate:"omitempty,dive"`
	Pricing      *types.Pricing      `json:"pricing,omitempty"`
	FocusAreas   []string            `json:"focusAreas,omitempty"`
	BasePrice    float64             `json:"basePrice,omitempty" validate:"gte=0"`
}

// SiteConfig is a validated site configuration. Exactly one of AppMarketing
// or Consulting is set, matching BusinessType.
type SiteConfig struct {
	BaseConfig
	AppMarketing *AppMarketing
	Consulting   *Consulting
}

var siteValidator = newSiteValidator()

func newSiteValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("locale", func(fl validator.FieldLevel) bool {
		return i18n.IsSupported(fl.Field().String())
	})
	return v
}

// LoadSiteConfig reads, validates and normalizes the site configuration at path.
func LoadSiteConfig(path string) (*SiteConfig, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseSiteConfig(data)
}

// ParseSiteConfig decodes a flat site configuration document, validates it
// once and merges the template defaults for its business type.
func ParseSiteConfig(data []byte) (*SiteConfig, error) {
	var cfg SiteConfig
	if err := json.Unmarshal(data, &cfg.BaseConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	switch cfg.BusinessType {
	case types.BusinessAppMarketing:
		cfg.AppMarketing = &AppMarketing{}
		if err := json.Unmarshal(data, cfg.AppMarketing); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case types.BusinessConsulting:
		cfg.Consulting = &Consulting{}
		if err := json.Unmarshal(data, cfg.Consulting); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// Validate checks required fields and the business-type variant.
func (c *SiteConfig) Validate() error {
	if err := validateStruct(&c.BaseConfig); err != nil {
		return err
	}

	switch c.BusinessType {
	case types.BusinessAppMarketing:
		if c.AppMarketing == nil || c.Consulting != nil {
			return &ValidationError{Field: "businessType", Message: "does not match the configured sections"}
		}
		return validateStruct(c.AppMarketing)
	case types.BusinessConsulting:
		if c.Consulting == nil || c.AppMarketing != nil {
			return &ValidationError{Field: "businessType", Message: "does not match the configured sections"}
		}
		return validateStruct(c.Consulting)
	default:
		return &ValidationError{
			Field:   "businessType",
			Message: fmt.Sprintf("must be either %q or %q, got %q", types.BusinessAppMarketing, types.BusinessConsulting, c.BusinessType),
		}
	}
}

func validateStruct(s any) error {
	err := siteValidator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fe := fieldErrs[0]
	field := fe.Namespace()
	if idx := strings.Index(field, "."); idx >= 0 {
		field = field[idx+1:]
	}
	return &ValidationError{Field: field, Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must have at least %s entries", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "locale":
		return fmt.Sprintf("is not a supported language: %v", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// ApplyDefaults merges the template defaults for the business type. It is idempotent.
func (c *SiteConfig) ApplyDefaults() {
	if c.DisplayName == "" {
		c.DisplayName = c.Name
	}
	if c.SecondaryColor == "" {
		if c.BusinessType == types.BusinessConsulting {
			c.SecondaryColor = DefaultConsultingSecondaryColor
		} else {
			c.SecondaryColor = DefaultAppSecondaryColor
		}
	}
	if c.AccentColor == "" {
		c.AccentColor = DefaultAccentColor
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = string(i18n.DefaultLocale)
	}
	if c.Keywords == nil {
		c.Keywords = []string{}
	}
	if c.OGImage == "" {
		c.OGImage = DefaultOGImage
	}
	if c.ToneOfVoice == "" {
		c.ToneOfVoice = types.DefaultTone
	}
}

// MarshalJSON writes the configuration back as one flat document.
func (c SiteConfig) MarshalJSON() ([]byte, error) {
	merged := make(map[string]json.RawMessage)
	parts := []any{c.BaseConfig}
	if c.AppMarketing != nil {
		parts = append(parts, c.AppMarketing)
	}
	if c.Consulting != nil {
		parts = append(parts, c.Consulting)
	}

	for _, part := range parts {
		data, err := json.Marshal(part)
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// GenerationConfig derives the content generation input for this site.
func (c *SiteConfig) GenerationConfig(apiKey string) types.GenerationConfig {
	gen := types.GenerationConfig{
		BusinessType:   c.BusinessType,
		Industry:       c.Industry,
		TargetAudience: c.TargetAudience,
		ToneOfVoice:    c.ToneOfVoice,
		Language:       c.DefaultLanguage,
		APIKey:         apiKey,
		CompanyName:    c.Name,
	}
	switch {
	case c.AppMarketing != nil:
		if c.DisplayName != c.Name {
			gen.ProductName = c.DisplayName
		}
		gen.AppCategory = c.AppMarketing.AppCategory
		gen.BasePrice = c.AppMarketing.BasePrice
	case c.Consulting != nil:
		gen.FocusAreas = append([]string(nil), c.Consulting.FocusAreas...)
		gen.BasePrice = c.Consulting.BasePrice
	}
	return gen.WithDefaults()
}

// Overrides copies the site-supplied sections over generated content.
// Only non-empty sections override.
func (c *SiteConfig) Overrides(content *types.GeneratedContent) {
	switch {
	case c.AppMarketing != nil:
		if len(c.AppMarketing.Features) > 0 {
			content.Features = c.AppMarketing.Features
		}
		if len(c.AppMarketing.Testimonials) > 0 {
			content.Testimonials = c.AppMarketing.Testimonials
		}
		if c.AppMarketing.Pricing != nil && len(c.AppMarketing.Pricing.Tiers) > 0 {
			content.Pricing = c.AppMarketing.Pricing
		}
	case c.Consulting != nil:
		if len(c.Consulting.Services) > 0 {
			content.Services = c.Consulting.Services
		}
		if len(c.Consulting.CaseStudies) > 0 {
			content.CaseStudies = c.Consulting.CaseStudies
		}
		if len(c.Consulting.Testimonials) > 0 {
			content.Testimonials = c.Consulting.Testimonials
		}
		if c.Consulting.Pricing != nil && len(c.Consulting.Pricing.Tiers) > 0 {
			content.Pricing = c.Consulting.Pricing
		}
	}
}

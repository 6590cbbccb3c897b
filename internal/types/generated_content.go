package types

import "fmt"

// GeneratedContent is the structured marketing copy for one site.
// Exactly one of Features or Services+CaseStudies is populated, selected by business type.
type GeneratedContent struct {
	Hero         Hero          `json:"hero" validate:"required"`
	Features     []Feature     `json:"features,omitempty" validate:"omitempty,dive"`
	Services     []Service     `json:"services,omitempty" validate:"omitempty,dive"`
	Testimonials []Testimonial `json:"testimonials" validate:"required,min=1,dive"`
	CaseStudies  []CaseStudy   `json:"caseStudies,omitempty" validate:"omitempty,dive"`
	Pricing      *Pricing      `json:"pricing,omitempty" validate:"omitempty"`
}

// Hero is the above-the-fold section of a site.
type Hero struct {
	Title            string `json:"title" validate:"required"`
	Subtitle         string `json:"subtitle" validate:"required"`
	CTAText          string `json:"ctaText" validate:"required"`
	SecondaryCTAText string `json:"secondaryCtaText,omitempty"`
}

// Feature is a single app feature card
type Feature struct {
	Icon        string `json:"icon" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// Service is a consulting service offering with bullet-point features
type Service struct {
	Icon        string   `json:"icon" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Features    []string `json:"features" validate:"required,min=1"`
}

// Testimonial is a customer quote with a 1-5 star rating
type Testimonial struct {
	Quote   string `json:"quote" validate:"required"`
	Author  string `json:"author" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Company string `json:"company" validate:"required"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
}

// CaseStudy describes a consulting engagement and its quantified results
type CaseStudy struct {
	Title     string   `json:"title" validate:"required"`
	Client    string   `json:"client" validate:"required"`
	Industry  string   `json:"industry" validate:"required"`
	Challenge string   `json:"challenge" validate:"required"`
	Solution  string   `json:"solution" validate:"required"`
	Results   []string `json:"results" validate:"required,min=1"`
}

// Pricing holds the named pricing tiers of a site
type Pricing struct {
	Tiers []PricingTier `json:"tiers" validate:"required,min=1,dive"`
}

// PricingTier is one named pricing plan
type PricingTier struct {
	Name        string   `json:"name" validate:"required"`
	Price       Price    `json:"price"`
	Period      string   `json:"period,omitempty"`
	Description string   `json:"description" validate:"required"`
	Features    []string `json:"features" validate:"required,min=1"`
	Highlighted bool     `json:"highlighted,omitempty"`
}

// CheckShape verifies the business-type section invariant:
// app-marketing content has features and no services or case studies,
// consulting content has services and case studies and no features.
func (c *GeneratedContent) CheckShape(businessType BusinessType) error {
	if c == nil {
		return fmt.Errorf("content is nil")
	}
	if len(c.Testimonials) == 0 {
		return fmt.Errorf("testimonials are required")
	}

	switch businessType {
	case BusinessAppMarketing:
		if len(c.Features) == 0 {
			return fmt.Errorf("app-marketing content requires features")
		}
		if c.Services != nil || c.CaseStudies != nil {
			return fmt.Errorf("app-marketing content must not contain services or case studies")
		}
	case BusinessConsulting:
		if len(c.Services) == 0 || len(c.CaseStudies) == 0 {
			return fmt.Errorf("consulting content requires services and case studies")
		}
		if c.Features != nil {
			return fmt.Errorf("consulting content must not contain features")
		}
	default:
		return fmt.Errorf("unsupported business type %q", businessType)
	}
	return nil
}

// Package types provides type definitions for structured data used throughout the site generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// BusinessType is the marketing-site archetype that decides which content sections a site carries.
type BusinessType string

const (
	// BusinessAppMarketing sites carry features and pricing
	BusinessAppMarketing BusinessType = "app-marketing"
	// BusinessConsulting sites carry services and case studies
	BusinessConsulting BusinessType = "consulting"
)

// Valid reports whether b is one of the supported archetypes.
func (b BusinessType) Valid() bool {
	return b == BusinessAppMarketing || b == BusinessConsulting
}

// Tone is the tone of voice requested for generated copy.
type Tone string

// Supported tones of voice
const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
	ToneTechnical    Tone = "technical"
	ToneCasual       Tone = "casual"
)

// DefaultTone is used when no tone is configured.
const DefaultTone = ToneProfessional

// Valid reports whether t is a supported tone.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneFriendly, ToneTechnical, ToneCasual:
		return true
	}
	return false
}

// GenerationConfig is the immutable input to a single content generation request.
// It is passed by value; callers never share a GenerationConfig across requests by reference.
type GenerationConfig struct {
	BusinessType   BusinessType `json:"businessType" validate:"required,oneof=app-marketing consulting"`
	Industry       string       `json:"industry,omitempty"`
	TargetAudience string       `json:"targetAudience,omitempty"`
	ToneOfVoice    Tone         `json:"toneOfVoice,omitempty" validate:"omitempty,oneof=professional friendly technical casual"`
	Language       string       `json:"language,omitempty"`
	APIKey         string       `json:"apiKey,omitempty"`

	// Site context consumed by individual sections
	CompanyName string   `json:"companyName" validate:"required"`
	ProductName string   `json:"productName,omitempty"`
	AppCategory string   `json:"appCategory,omitempty"`
	FocusAreas  []string `json:"focusAreas,omitempty"`
	BasePrice   float64  `json:"basePrice,omitempty" validate:"gte=0"`
}

// WithDefaults returns a copy of c with the tone and language defaults applied.
func (c GenerationConfig) WithDefaults() GenerationConfig {
	if c.ToneOfVoice == "" {
		c.ToneOfVoice = DefaultTone
	}
	if c.Language == "" {
		c.Language = "en"
	}
	if len(c.FocusAreas) > 0 {
		areas := make([]string, len(c.FocusAreas))
		copy(areas, c.FocusAreas)
		c.FocusAreas = areas
	}
	return c
}

// CheckBusinessType returns an error when the business type is not a supported archetype.
func (c GenerationConfig) CheckBusinessType() error {
	if !c.BusinessType.Valid() {
		return fmt.Errorf("unsupported business type %q: must be %q or %q",
			c.BusinessType, BusinessAppMarketing, BusinessConsulting)
	}
	return nil
}

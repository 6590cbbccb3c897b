package content

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/site-generator/internal/llm"
	"github.com/jonathan/site-generator/internal/prompts"
)

// consultingServiceCount is the number of services requested from remote sources
const consultingServiceCount = 6

// BuildPrompt renders the copywriting prompt for a section request.
func BuildPrompt(req Request) (string, error) {
	cfg := req.Config.WithDefaults()

	base, err := prompts.Render(prompts.ContentFile, "base-context", map[string]string{
		"BusinessType":   string(cfg.BusinessType),
		"Industry":       orDefault(req.Config.Industry, "General"),
		"TargetAudience": orDefault(req.Config.TargetAudience, "Business professionals"),
		"Tone":           string(cfg.ToneOfVoice),
		"Language":       cfg.Language,
	})
	if err != nil {
		return "", err
	}

	data := map[string]string{"BaseContext": base}
	switch req.Section {
	case SectionHero:
		subject := cfg.CompanyName
		if cfg.ProductName != "" {
			subject = fmt.Sprintf("%s (%s)", cfg.CompanyName, cfg.ProductName)
		}
		data["Subject"] = subject
	case SectionFeatures:
		data["AppCategory"] = orDefault(cfg.AppCategory, "productivity")
	case SectionServices:
		data["ServiceCount"] = strconv.Itoa(consultingServiceCount)
		areas := "general business needs"
		if len(cfg.FocusAreas) > 0 {
			areas = strings.Join(cfg.FocusAreas, ", ")
		}
		data["FocusAreas"] = areas
	case SectionTestimonials:
		data["Count"] = strconv.Itoa(countOrDefault(req.Count, DefaultTestimonialCount))
	case SectionCaseStudies:
		data["Count"] = strconv.Itoa(countOrDefault(req.Count, DefaultCaseStudyCount))
	case SectionPricing:
		anchor := ""
		if cfg.BasePrice > 0 {
			anchor = " around $" + strconv.FormatFloat(cfg.BasePrice, 'f', -1, 64)
		}
		data["PriceAnchor"] = anchor
	default:
		return "", fmt.Errorf("unknown section %q", req.Section)
	}

	instructions, err := prompts.Render(prompts.ContentFile, string(req.Section), data)
	if err != nil {
		return "", err
	}
	return llm.BuildJSONPrompt(instructions, responseSchema(req)), nil
}

// responseSchema describes the JSON shape expected back for a section
func responseSchema(req Request) llm.ResponseSchema {
	switch req.Section {
	case SectionHero:
		return llm.ResponseSchema{Name: "Hero", Fields: []llm.SchemaField{
			{Name: "title", Description: "max 60 chars", Required: true},
			{Name: "subtitle", Description: "max 160 chars", Required: true},
			{Name: "ctaText", Description: "primary call to action", Required: true},
			{Name: "secondaryCtaText", Description: "secondary call to action"},
		}}
	case SectionFeatures:
		return llm.ResponseSchema{Name: "Features", Array: true, Count: 6, Fields: []llm.SchemaField{
			{Name: "icon", Description: "single emoji", Required: true},
			{Name: "title", Required: true},
			{Name: "description", Required: true},
		}}
	case SectionServices:
		return llm.ResponseSchema{Name: "Services", Array: true, Count: consultingServiceCount, Fields: []llm.SchemaField{
			{Name: "icon", Description: "single emoji", Required: true},
			{Name: "title", Required: true},
			{Name: "description", Required: true},
			{Name: "features", Type: `["string"]`, Description: "3-5 bullet points", Required: true},
		}}
	case SectionTestimonials:
		return llm.ResponseSchema{Name: "Testimonials", Array: true, Count: countOrDefault(req.Count, DefaultTestimonialCount), Fields: []llm.SchemaField{
			{Name: "quote", Required: true},
			{Name: "author", Required: true},
			{Name: "title", Description: "job title", Required: true},
			{Name: "company", Required: true},
			{Name: "rating", Type: "number", Description: "1 to 5", Required: true},
		}}
	case SectionCaseStudies:
		return llm.ResponseSchema{Name: "CaseStudies", Array: true, Count: countOrDefault(req.Count, DefaultCaseStudyCount), Fields: []llm.SchemaField{
			{Name: "title", Required: true},
			{Name: "client", Required: true},
			{Name: "industry", Required: true},
			{Name: "challenge", Required: true},
			{Name: "solution", Required: true},
			{Name: "results", Type: `["string"]`, Required: true},
		}}
	default:
		return llm.ResponseSchema{Name: "Pricing", Fields: []llm.SchemaField{
			{Name: "tiers", Type: `[{"name": "string", "price": "number or \"Custom\"", "period": "string", "description": "string", "features": ["string"], "highlighted": "boolean"}]`, Required: true},
		}}
	}
}

// tierFor picks the model tier used for a section by LLM-backed sources
func tierFor(section Section) llm.ModelTier {
	switch section {
	case SectionHero:
		return llm.TierLite
	case SectionCaseStudies:
		return llm.TierAdvanced
	default:
		return llm.TierStandard
	}
}

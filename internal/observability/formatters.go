// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, body string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads s to width runes
func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n > width {
		runes := []rune(s)
		return string(runes[:width-3]) + "..."
	}
	return s + strings.Repeat(" ", width-n)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), limit)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > limit {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-limit))
	}
	sb.WriteString("\n")
}

// PrintSiteConfig outputs a human-readable summary of a validated site configuration.
func (p *Printer) PrintSiteConfig(cfg *config.SiteConfig) {
	if cfg == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:      %s\n", cfg.DisplayName))
	sb.WriteString(fmt.Sprintf("Type:      %s\n", cfg.BusinessType))
	sb.WriteString(fmt.Sprintf("Tagline:   %s\n", cfg.Tagline))
	sb.WriteString(fmt.Sprintf("Colors:    %s / %s / %s\n", cfg.PrimaryColor, cfg.SecondaryColor, cfg.AccentColor))
	sb.WriteString(fmt.Sprintf("Languages: %s (default %s)\n", strings.Join(cfg.Languages, ", "), cfg.DefaultLanguage))
	sb.WriteString(fmt.Sprintf("Tone:      %s\n", cfg.ToneOfVoice))

	switch {
	case cfg.AppMarketing != nil:
		sb.WriteString(fmt.Sprintf("Features:  %d configured\n", len(cfg.AppMarketing.Features)))
	case cfg.Consulting != nil:
		sb.WriteString(fmt.Sprintf("Services:  %d configured\n", len(cfg.Consulting.Services)))
		sb.WriteString(fmt.Sprintf("Team:      %d members\n", len(cfg.Consulting.Team)))
	}

	p.printBox("SITE CONFIGURATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintContent outputs generated content with the origin of each section.
func (p *Printer) PrintContent(c *types.GeneratedContent, origins map[content.Section]string) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Hero:  %s\n", c.Hero.Title))
	sb.WriteString(fmt.Sprintf("       %s\n", c.Hero.Subtitle))
	sb.WriteString(fmt.Sprintf("CTA:   %s\n\n", c.Hero.CTAText))

	features := make([]string, 0, len(c.Features))
	for _, f := range c.Features {
		features = append(features, fmt.Sprintf("%s %s", f.Icon, f.Title))
	}
	writeList(&sb, "Features", features, maxItemsToShow)

	services := make([]string, 0, len(c.Services))
	for _, s := range c.Services {
		services = append(services, fmt.Sprintf("%s (%d features)", s.Title, len(s.Features)))
	}
	writeList(&sb, "Services", services, maxItemsToShow)

	studies := make([]string, 0, len(c.CaseStudies))
	for _, cs := range c.CaseStudies {
		studies = append(studies, fmt.Sprintf("%s: %s", cs.Client, cs.Title))
	}
	writeList(&sb, "Case studies", studies, 3)

	if c.Pricing != nil {
		tiers := make([]string, 0, len(c.Pricing.Tiers))
		for _, tier := range c.Pricing.Tiers {
			line := fmt.Sprintf("%s: %s", tier.Name, tier.Price)
			if tier.Period != "" {
				line += "/" + tier.Period
			}
			if tier.Highlighted {
				line += " ★"
			}
			tiers = append(tiers, line)
		}
		writeList(&sb, "Pricing", tiers, maxItemsToShow)
	}

	testimonials := make([]string, 0, len(c.Testimonials))
	for _, t := range c.Testimonials {
		testimonials = append(testimonials, fmt.Sprintf("%s, %s (%d/5)", t.Author, t.Company, t.Rating))
	}
	writeList(&sb, "Testimonials", testimonials, 3)

	if len(origins) > 0 {
		sections := make([]string, 0, len(origins))
		for section := range origins {
			sections = append(sections, string(section))
		}
		sort.Strings(sections)

		sb.WriteString("Sources:\n")
		for _, section := range sections {
			sb.WriteString(fmt.Sprintf("  %-13s %s\n", section, origins[content.Section(section)]))
		}
	}

	p.printBox("GENERATED CONTENT", strings.TrimSuffix(strings.TrimSuffix(sb.String(), "\n"), "\n"))
}

// PrintSiteSummary outputs where a site was written and how long it took.
func (p *Printer) PrintSiteSummary(name, dir string, files []string, duration time.Duration) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Site:     %s\n", name))
	sb.WriteString(fmt.Sprintf("Location: %s\n", dir))
	sb.WriteString(fmt.Sprintf("Duration: %s\n\n", duration.Round(time.Millisecond)))
	writeList(&sb, "Files", files, 10)

	p.printBox("SITE GENERATED", strings.TrimSuffix(strings.TrimSuffix(sb.String(), "\n"), "\n"))
}

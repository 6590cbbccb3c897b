package content

import (
	"context"
	"fmt"

	"github.com/jonathan/site-generator/internal/types"
)

// OriginStatic marks fragments produced from the built-in catalog
const OriginStatic = "static"

// Default base prices used when a site does not set one
const (
	DefaultAppBasePrice        = 9.99
	DefaultConsultingBasePrice = 5000
)

// StaticSource produces deterministic copy from a fixed catalog.
// It never touches the network and never fails for a valid business type.
type StaticSource struct{}

// NewStaticSource returns the catalog source.
func NewStaticSource() StaticSource {
	return StaticSource{}
}

// Generate resolves the requested section from the catalog.
func (StaticSource) Generate(_ context.Context, req Request) (*Fragment, error) {
	cfg := req.Config
	if err := cfg.CheckBusinessType(); err != nil {
		return nil, err
	}

	frag := &Fragment{Section: req.Section, Origin: OriginStatic}
	switch req.Section {
	case SectionHero:
		hero := staticHero(cfg)
		frag.Hero = &hero
	case SectionFeatures:
		frag.Features = staticFeatures(cfg.AppCategory)
	case SectionServices:
		frag.Services = staticServices()
	case SectionTestimonials:
		frag.Testimonials = staticTestimonials(cfg.BusinessType, countOrDefault(req.Count, DefaultTestimonialCount))
	case SectionCaseStudies:
		frag.CaseStudies = staticCaseStudies(countOrDefault(req.Count, DefaultCaseStudyCount))
	case SectionPricing:
		pricing := staticPricing(cfg.BusinessType, cfg.BasePrice)
		frag.Pricing = &pricing
	default:
		return nil, fmt.Errorf("unknown section %q", req.Section)
	}
	return frag, nil
}

func countOrDefault(count, def int) int {
	if count <= 0 {
		return def
	}
	return count
}

func staticHero(cfg types.GenerationConfig) types.Hero {
	if cfg.BusinessType == types.BusinessConsulting {
		return types.Hero{
			Title:            "Transform Your Business with " + cfg.CompanyName,
			Subtitle:         fmt.Sprintf("Expert %s consulting services to accelerate your growth and digital transformation. Get results that matter.", orDefault(cfg.Industry, "business")),
			CTAText:          "Schedule Consultation",
			SecondaryCTAText: "View Case Studies",
		}
	}
	return types.Hero{
		Title:            "Experience " + orDefault(cfg.ProductName, cfg.CompanyName),
		Subtitle:         fmt.Sprintf("The %s app that transforms how you work and live. Join thousands of users who've already made the switch.", orDefault(cfg.Industry, "productivity")),
		CTAText:          "Download Free",
		SecondaryCTAText: "Watch Demo",
	}
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

var featureCatalog = map[string][]types.Feature{
	"productivity": {
		{Icon: "⚡", Title: "Lightning Fast", Description: "Optimized performance for instant results and smooth workflows"},
		{Icon: "🔒", Title: "Bank-Level Security", Description: "Your data protected with enterprise-grade encryption"},
		{Icon: "🌍", Title: "Works Everywhere", Description: "Available on iOS, Android, and web platforms"},
		{Icon: "🤝", Title: "Team Collaboration", Description: "Real-time collaboration tools for seamless teamwork"},
		{Icon: "📊", Title: "Smart Analytics", Description: "Insights and reporting to track your progress and goals"},
		{Icon: "🔄", Title: "Auto Sync", Description: "Automatic synchronization across all your devices"},
	},
	"business": {
		{Icon: "📈", Title: "Growth Analytics", Description: "Advanced metrics to track and optimize business performance"},
		{Icon: "🔗", Title: "CRM Integration", Description: "Seamless integration with your existing business tools"},
		{Icon: "🏢", Title: "Enterprise Ready", Description: "Scalable solution built for businesses of all sizes"},
		{Icon: "👥", Title: "Team Management", Description: "Comprehensive user management and permission controls"},
		{Icon: "📱", Title: "Mobile First", Description: "Full-featured mobile apps for on-the-go productivity"},
		{Icon: "🛡️", Title: "Compliance Ready", Description: "GDPR, SOX, and industry compliance built-in"},
	},
}

func staticFeatures(appCategory string) []types.Feature {
	features, ok := featureCatalog[appCategory]
	if !ok {
		features = featureCatalog["productivity"]
	}
	return append([]types.Feature(nil), features...)
}

var serviceCatalog = []types.Service{
	{
		Icon:        "☁️",
		Title:       "Cloud Transformation",
		Description: "Seamlessly migrate to cloud infrastructure with zero downtime and optimized costs.",
		Features: []string{
			"AWS, Azure, GCP expertise",
			"Zero-downtime migration strategy",
			"Cost optimization analysis",
			"Security compliance audit",
			"Performance monitoring setup",
		},
	},
	{
		Icon:        "🚀",
		Title:       "Digital Strategy",
		Description: "Develop comprehensive digital transformation strategies aligned with business objectives.",
		Features: []string{
			"Digital maturity assessment",
			"Technology roadmap planning",
			"Change management support",
			"Stakeholder alignment",
			"Success metrics definition",
		},
	},
	{
		Icon:        "🤖",
		Title:       "AI Implementation",
		Description: "Leverage artificial intelligence to automate processes and gain competitive advantages.",
		Features: []string{
			"Custom AI solution development",
			"Machine learning model training",
			"Process automation design",
			"Data pipeline optimization",
			"ROI measurement framework",
		},
	},
	{
		Icon:        "🔒",
		Title:       "Cybersecurity",
		Description: "Protect your organization with comprehensive security strategies and implementations.",
		Features: []string{
			"Security audit and assessment",
			"Compliance framework setup",
			"Incident response planning",
			"Team security training",
			"Ongoing monitoring services",
		},
	},
}

func staticServices() []types.Service {
	services := make([]types.Service, len(serviceCatalog))
	for i, s := range serviceCatalog {
		s.Features = append([]string(nil), s.Features...)
		services[i] = s
	}
	return services
}

var testimonialCatalog = map[types.BusinessType][]types.Testimonial{
	types.BusinessAppMarketing: {
		{
			Quote:   "This app has completely transformed my daily workflow. I'm 40% more productive and love the intuitive interface.",
			Author:  "Sarah Chen",
			Title:   "Product Manager",
			Company: "TechFlow Inc",
			Rating:  5,
		},
		{
			Quote:   "Finally found an app that actually delivers on its promises. The features are exactly what I needed.",
			Author:  "Michael Rodriguez",
			Title:   "Freelance Designer",
			Company: "Independent",
			Rating:  5,
		},
		{
			Quote:   "The customer support is outstanding and the app keeps getting better with each update. Highly recommend!",
			Author:  "Emily Johnson",
			Title:   "Marketing Director",
			Company: "Growth Dynamics",
			Rating:  5,
		},
	},
	types.BusinessConsulting: {
		{
			Quote:   "Their expertise in digital transformation saved us months of trial and error. ROI was positive within quarter one.",
			Author:  "David Thompson",
			Title:   "CTO",
			Company: "InnovaCorp",
			Rating:  5,
		},
		{
			Quote:   "Professional, knowledgeable, and results-driven. They didn't just consult - they became true partners in our success.",
			Author:  "Jennifer Martinez",
			Title:   "VP Operations",
			Company: "Global Logistics",
			Rating:  5,
		},
		{
			Quote:   "The team's deep industry knowledge and strategic approach helped us navigate complex challenges seamlessly.",
			Author:  "Robert Kim",
			Title:   "CEO",
			Company: "NextGen Manufacturing",
			Rating:  5,
		},
	},
}

func staticTestimonials(businessType types.BusinessType, count int) []types.Testimonial {
	catalog := testimonialCatalog[businessType]
	if count > len(catalog) {
		count = len(catalog)
	}
	return append([]types.Testimonial(nil), catalog[:count]...)
}

var caseStudyCatalog = []types.CaseStudy{
	{
		Title:     "Enterprise Digital Transformation",
		Client:    "Fortune 500 Retailer",
		Industry:  "Retail",
		Challenge: "Legacy systems were limiting growth potential and creating operational inefficiencies across 500+ locations.",
		Solution:  "Implemented comprehensive cloud migration strategy with modern DevOps practices and AI-powered analytics.",
		Results: []string{
			"60% reduction in infrastructure costs",
			"99.99% system uptime achieved",
			"40% faster time-to-market for new features",
			"Scalable architecture supporting 10M+ daily transactions",
		},
	},
	{
		Title:     "Healthcare AI Implementation",
		Client:    "Regional Healthcare Network",
		Industry:  "Healthcare",
		Challenge: "Manual processes causing delays in patient care and increasing administrative overhead by 300%.",
		Solution:  "Developed custom AI solutions for patient scheduling, resource optimization, and predictive analytics.",
		Results: []string{
			"70% reduction in administrative tasks",
			"30% improvement in patient satisfaction",
			"$2M annual cost savings",
			"HIPAA-compliant AI implementation",
		},
	},
	{
		Title:     "Financial Services Modernization",
		Client:    "Community Bank Group",
		Industry:  "Financial Services",
		Challenge: "Outdated systems preventing competitive digital banking offerings and regulatory compliance.",
		Solution:  "Modernized core banking systems with cloud-native architecture and enhanced security protocols.",
		Results: []string{
			"50% faster loan processing",
			"95% customer satisfaction score",
			"Full regulatory compliance achieved",
			"200% increase in digital adoption",
		},
	},
}

func staticCaseStudies(count int) []types.CaseStudy {
	if count > len(caseStudyCatalog) {
		count = len(caseStudyCatalog)
	}
	studies := make([]types.CaseStudy, count)
	for i := range studies {
		cs := caseStudyCatalog[i]
		cs.Results = append([]string(nil), cs.Results...)
		studies[i] = cs
	}
	return studies
}

func staticPricing(businessType types.BusinessType, basePrice float64) types.Pricing {
	if businessType == types.BusinessConsulting {
		base := basePrice
		if base <= 0 {
			base = DefaultConsultingBasePrice
		}
		return types.Pricing{Tiers: []types.PricingTier{
			{
				Name:        "Strategy Session",
				Price:       types.Amount(base / 10),
				Description: "One-time consultation to assess your needs",
				Features: []string{
					"2-hour strategy session",
					"Digital readiness assessment",
					"Technology roadmap",
					"Actionable recommendations",
					"Follow-up report",
				},
			},
			{
				Name:        "Project-Based",
				Price:       types.CustomPrice(),
				Description: "Tailored solutions for specific initiatives",
				Features: []string{
					"Custom project scope",
					"Dedicated project manager",
					"Agile methodology",
					"Regular status updates",
					"Quality assurance",
					"Post-launch support",
				},
				Highlighted: true,
			},
			{
				Name:        "Retainer",
				Price:       types.Amount(base),
				Period:      "month",
				Description: "Ongoing partnership for continuous improvement",
				Features: []string{
					"Monthly strategic reviews",
					"Dedicated consultant access",
					"Priority project scheduling",
					"Technology monitoring",
					"Performance optimization",
					"Quarterly business reviews",
				},
			},
		}}
	}

	base := basePrice
	if base <= 0 {
		base = DefaultAppBasePrice
	}
	return types.Pricing{Tiers: []types.PricingTier{
		{
			Name:        "Free",
			Price:       types.Amount(0),
			Period:      "month",
			Description: "Perfect for trying out our app",
			Features: []string{
				"Basic features access",
				"5 projects limit",
				"Community support",
				"Mobile app access",
			},
		},
		{
			Name:        "Pro",
			Price:       types.Amount(base),
			Period:      "month",
			Description: "Best for individual users",
			Features: []string{
				"All basic features",
				"Unlimited projects",
				"Priority support",
				"Advanced analytics",
				"Export capabilities",
				"Custom themes",
			},
			Highlighted: true,
		},
		{
			Name:        "Team",
			Price:       types.Amount(base * 3),
			Period:      "month",
			Description: "Perfect for small teams",
			Features: []string{
				"All Pro features",
				"Team collaboration",
				"Admin controls",
				"Advanced reporting",
				"API access",
				"Custom integrations",
			},
		},
	}}
}

package content

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/site-generator/internal/types"
)

// countingSource records calls and delegates to fn
type countingSource struct {
	calls    atomic.Int32
	sections []Section
	fn       func(ctx context.Context, req Request) (*Fragment, error)
}

func (s *countingSource) Generate(ctx context.Context, req Request) (*Fragment, error) {
	s.calls.Add(1)
	s.sections = append(s.sections, req.Section)
	return s.fn(ctx, req)
}

func failingSource() *countingSource {
	return &countingSource{fn: func(context.Context, Request) (*Fragment, error) {
		return nil, &RemoteError{Section: SectionHero, Status: 503, Message: "unavailable"}
	}}
}

func TestNewGenerator_RejectsUnknownBusinessType(t *testing.T) {
	_, err := NewGenerator(types.GenerationConfig{BusinessType: "bakery"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bakery")
}

func TestGenerateSiteContent_StaticShape(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.GenerationConfig
	}{
		{name: "app marketing", cfg: appConfig()},
		{name: "consulting", cfg: consultingConfig()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewGenerator(tt.cfg)
			require.NoError(t, err)
			assert.False(t, gen.UsesRemote())

			content, err := gen.GenerateSiteContent(context.Background())
			require.NoError(t, err)
			require.NoError(t, content.CheckShape(tt.cfg.BusinessType))
			assert.NotEmpty(t, content.Hero.Title)
			assert.Len(t, content.Testimonials, DefaultTestimonialCount)

			data, err := json.Marshal(content)
			require.NoError(t, err)
			var keys map[string]json.RawMessage
			require.NoError(t, json.Unmarshal(data, &keys))

			if tt.cfg.BusinessType == types.BusinessAppMarketing {
				assert.Contains(t, keys, "features")
				assert.Contains(t, keys, "pricing")
				assert.NotContains(t, keys, "services")
				assert.NotContains(t, keys, "caseStudies")
			} else {
				assert.Contains(t, keys, "services")
				assert.Contains(t, keys, "caseStudies")
				assert.NotContains(t, keys, "features")
				assert.Len(t, content.CaseStudies, DefaultCaseStudyCount)
			}
		})
	}
}

func TestGenerateSiteContent_StaticIsByteIdentical(t *testing.T) {
	gen, err := NewGenerator(consultingConfig())
	require.NoError(t, err)

	first, err := gen.GenerateSiteContent(context.Background())
	require.NoError(t, err)
	second, err := gen.GenerateSiteContent(context.Background())
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

func TestGenerator_NoAPIKeySkipsPrimary(t *testing.T) {
	primary := failingSource()

	gen, err := NewGenerator(appConfig(), WithPrimary(primary))
	require.NoError(t, err)
	assert.False(t, gen.UsesRemote())

	_, err = gen.GenerateSiteContent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(0), primary.calls.Load())
}

func TestGenerator_FallsBackPerSection(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	primary := failingSource()

	cfg := appConfig()
	cfg.APIKey = "bad-key"
	gen, err := NewGenerator(cfg, WithPrimary(primary), WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.True(t, gen.UsesRemote())

	res, err := gen.Resolve(context.Background())
	require.NoError(t, err)
	require.NoError(t, res.Content.CheckShape(types.BusinessAppMarketing))

	assert.Equal(t, []Section{SectionHero, SectionFeatures, SectionPricing, SectionTestimonials}, primary.sections)
	for _, origin := range res.Origins {
		assert.Equal(t, OriginStatic, origin)
	}

	entries := logs.FilterMessage("generation failed, falling back").All()
	require.Len(t, entries, 4)
	assert.Equal(t, int64(503), entries[0].ContextMap()["status"])
}

func TestFallback_RecoversFromPanickingPrimary(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	primary := SourceFunc(func(_ context.Context, req Request) (*Fragment, error) {
		var hero *types.Hero
		return &Fragment{Section: req.Section, Hero: &types.Hero{Title: hero.Title}}, nil
	})

	frag, err := Fallback(primary, NewStaticSource(), zap.New(core)).
		Generate(context.Background(), Request{Section: SectionHero, Config: appConfig()})
	require.NoError(t, err)
	assert.Equal(t, OriginStatic, frag.Origin)
	require.NotNil(t, frag.Hero)
	assert.NotEmpty(t, frag.Hero.Title)

	entries := logs.FilterMessage("generation failed, falling back").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "panicked")
}

func TestGenerator_UsesPrimaryWhenItSucceeds(t *testing.T) {
	primary := &countingSource{fn: func(ctx context.Context, req Request) (*Fragment, error) {
		assert.NotEmpty(t, req.Prompt)
		if req.Section != SectionHero {
			return nil, errors.New("only hero is remote")
		}
		return &Fragment{Section: SectionHero, Origin: OriginRemote, Hero: &types.Hero{
			Title: "Remote title", Subtitle: "Remote subtitle", CTAText: "Go",
		}}, nil
	}}

	cfg := consultingConfig()
	cfg.APIKey = "key"
	gen, err := NewGenerator(cfg, WithPrimary(primary))
	require.NoError(t, err)

	res, err := gen.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Remote title", res.Content.Hero.Title)
	assert.Equal(t, OriginRemote, res.Origins[SectionHero])
	assert.Equal(t, OriginStatic, res.Origins[SectionServices])
	assert.NotEmpty(t, res.Content.Services)
}

func TestGenerator_CancelledContextStillReturnsContent(t *testing.T) {
	primary := &countingSource{fn: func(ctx context.Context, req Request) (*Fragment, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}

	cfg := appConfig()
	cfg.APIKey = "key"
	gen, err := NewGenerator(cfg, WithPrimary(primary))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	content, err := gen.GenerateSiteContent(ctx)
	require.NoError(t, err)
	assert.NoError(t, content.CheckShape(types.BusinessAppMarketing))
}

func TestGenerator_SectionMethods(t *testing.T) {
	gen, err := NewGenerator(consultingConfig())
	require.NoError(t, err)
	ctx := context.Background()

	hero, err := gen.GenerateHero(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, hero.Title)

	services, err := gen.GenerateServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 4)

	studies, err := gen.GenerateCaseStudies(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, studies, 3)

	testimonials, err := gen.GenerateTestimonials(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, testimonials, 2)

	pricing, err := gen.GeneratePricing(ctx)
	require.NoError(t, err)
	assert.Len(t, pricing.Tiers, 3)

	features, err := gen.GenerateFeatures(ctx)
	require.NoError(t, err)
	assert.Len(t, features, 6)

	_, err = gen.GenerateSection(ctx, "blog", 0)
	assert.Error(t, err)
}

func TestPlan(t *testing.T) {
	app := Plan(types.BusinessAppMarketing)
	assert.Equal(t, SectionHero, app[0].Section)
	assert.Equal(t, SectionTestimonials, app[len(app)-1].Section)

	consulting := Plan(types.BusinessConsulting)
	assert.Equal(t, []Step{
		{Section: SectionHero},
		{Section: SectionServices},
		{Section: SectionCaseStudies, Count: DefaultCaseStudyCount},
		{Section: SectionTestimonials, Count: DefaultTestimonialCount},
	}, consulting)
}

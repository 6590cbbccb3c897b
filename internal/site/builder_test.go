package site

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/types"
)

func appConfig(t *testing.T, name string) *config.SiteConfig {
	t.Helper()
	cfg, err := config.ParseSiteConfig([]byte(`{
		"name": "` + name + `",
		"businessType": "app-marketing",
		"tagline": "Weather you can trust",
		"description": "Hyperlocal forecasts",
		"primaryColor": "sky",
		"languages": ["en", "de"],
		"keywords": ["weather"],
		"appStore": {"ios": "https://apps.apple.com/app/weatherpro"},
		"features": [{"icon": "🌦️", "title": "Hyperlocal", "description": "Forecasts for your street"}]
	}`))
	require.NoError(t, err)
	return cfg
}

func consultingConfig(t *testing.T) *config.SiteConfig {
	t.Helper()
	cfg, err := config.ParseSiteConfig([]byte(`{
		"name": "TechTransform Consulting",
		"businessType": "consulting",
		"tagline": "Digital transformation that sticks",
		"description": "Cloud and AI consulting",
		"primaryColor": "indigo",
		"languages": ["en", "fr"],
		"defaultLanguage": "fr",
		"services": [],
		"team": [{"name": "Ada Lovelace", "role": "Principal"}]
	}`))
	require.NoError(t, err)
	return cfg
}

type memoryStore struct {
	mu       sync.Mutex
	sites    []*db.Site
	contents []*db.SiteContent
	err      error
}

func (m *memoryStore) SaveSite(_ context.Context, site *db.Site, content *db.SiteContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sites = append(m.sites, site)
	m.contents = append(m.contents, content)
	return nil
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestBuild_AppMarketing(t *testing.T) {
	root := t.TempDir()
	var events []ProgressEvent
	b := NewBuilder(Options{
		OutputRoot: root,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})

	res, err := b.Build(context.Background(), appConfig(t, "Weather Pro"))
	require.NoError(t, err)

	assert.Equal(t, "weather-pro", res.Slug)
	assert.Equal(t, filepath.Join(root, "weather-pro"), res.Dir)
	assert.Equal(t, "en", res.Language)
	assert.ElementsMatch(t, []string{SiteConfigPath, ContentPath(types.BusinessAppMarketing), ThemePath}, res.Files)

	siteDoc := readJSON(t, filepath.Join(res.Dir, SiteConfigPath))
	assert.Equal(t, "Weather Pro", siteDoc["name"])
	assert.Equal(t, "Weather Pro", siteDoc["displayName"])
	assert.Equal(t, "blue", siteDoc["secondaryColor"])
	assert.Contains(t, siteDoc, "appStore")
	assert.NotContains(t, siteDoc, "services")
	seo := siteDoc["seo"].(map[string]any)
	assert.Equal(t, "/og-image.jpg", seo["ogImage"])
	assert.Equal(t, []any{"weather"}, seo["keywords"])

	contentDoc := readJSON(t, filepath.Join(res.Dir, "src", "content", "generated", "app-content.json"))
	assert.Contains(t, contentDoc, "hero")
	assert.Contains(t, contentDoc, "pricing")
	assert.NotContains(t, contentDoc, "services")
	features := contentDoc["features"].([]any)
	require.Len(t, features, 1, "site-supplied features override generated ones")
	assert.Equal(t, "Hyperlocal", features[0].(map[string]any)["title"])

	theme, err := os.ReadFile(filepath.Join(res.Dir, ThemePath))
	require.NoError(t, err)
	assert.Contains(t, string(theme), "/* Generated theme for Weather Pro */")
	assert.Contains(t, string(theme), "--color-primary: theme('colors.sky.600');")

	for _, origin := range res.Origins {
		assert.Equal(t, content.OriginStatic, origin)
	}

	var steps []string
	for _, e := range events {
		steps = append(steps, e.Step)
		assert.Equal(t, res.ID, e.ID)
	}
	assert.Equal(t, []string{StepConfig, StepContent, StepTheme, StepPublish}, steps)

	// no staging directories are left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "weather-pro", entries[0].Name())
}

func TestBuild_Consulting(t *testing.T) {
	root := t.TempDir()
	res, err := NewBuilder(Options{OutputRoot: root}).Build(context.Background(), consultingConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "techtransform-consulting", res.Slug)
	assert.Equal(t, "fr", res.Language)

	contentDoc := readJSON(t, filepath.Join(res.Dir, "src", "content", "generated", "consulting-content.json"))
	assert.NotEmpty(t, contentDoc["services"], "empty site services do not override generated ones")
	assert.Len(t, contentDoc["caseStudies"], content.DefaultCaseStudyCount)
	assert.NotContains(t, contentDoc, "features")

	siteDoc := readJSON(t, filepath.Join(res.Dir, SiteConfigPath))
	assert.Equal(t, "slate", siteDoc["secondaryColor"])
	assert.Equal(t, []any{}, siteDoc["features"])
	assert.Len(t, siteDoc["team"], 1)
}

func TestBuild_PrimaryFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	primary := content.SourceFunc(func(context.Context, content.Request) (*content.Fragment, error) {
		return nil, errors.New("service unavailable")
	})

	b := NewBuilder(Options{
		OutputRoot: t.TempDir(),
		APIKey:     "key",
		Primary:    primary,
		Logger:     zap.New(core),
	})

	res, err := b.Build(context.Background(), appConfig(t, "Fallback App"))
	require.NoError(t, err)
	assert.Equal(t, content.OriginStatic, res.Origins[content.SectionHero])
	assert.Equal(t, len(content.Plan(types.BusinessAppMarketing)), logs.FilterMessage("generation failed, falling back").Len())
}

func TestBuild_ReplacesPreviousOutput(t *testing.T) {
	root := t.TempDir()
	b := NewBuilder(Options{OutputRoot: root})

	first, err := b.Build(context.Background(), appConfig(t, "Repeat"))
	require.NoError(t, err)

	stale := filepath.Join(first.Dir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))

	second, err := b.Build(context.Background(), appConfig(t, "Repeat"))
	require.NoError(t, err)
	assert.Equal(t, first.Dir, second.Dir)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(second.Dir, ThemePath))
	assert.NoDirExists(t, second.Dir+".old")
}

func TestBuild_Store(t *testing.T) {
	store := &memoryStore{}
	res, err := NewBuilder(Options{OutputRoot: t.TempDir(), Store: store}).Build(context.Background(), consultingConfig(t))
	require.NoError(t, err)
	assert.False(t, res.StoreFailed)

	require.Len(t, store.sites, 1)
	assert.Equal(t, res.ID, store.sites[0].ID)
	assert.Equal(t, "techtransform-consulting", store.sites[0].Slug)
	assert.Equal(t, "consulting", store.sites[0].BusinessType)
	assert.Equal(t, "fr", store.contents[0].Language)
	assert.Equal(t, content.OriginStatic, store.contents[0].Origins["hero"])

	var stored types.GeneratedContent
	require.NoError(t, json.Unmarshal(store.contents[0].Content, &stored))
	assert.NotEmpty(t, stored.Services)
}

func TestBuild_StoreFailureKeepsSite(t *testing.T) {
	store := &memoryStore{err: errors.New("database down")}
	res, err := NewBuilder(Options{OutputRoot: t.TempDir(), Store: store}).Build(context.Background(), consultingConfig(t))
	require.NoError(t, err)
	assert.True(t, res.StoreFailed)
	assert.DirExists(t, res.Dir)
}

func TestBuild_Errors(t *testing.T) {
	b := NewBuilder(Options{OutputRoot: t.TempDir()})

	_, err := b.Build(context.Background(), nil)
	assert.Error(t, err)

	cfg := appConfig(t, "Valid")
	cfg.BusinessType = "bakery"
	_, err = b.Build(context.Background(), cfg)
	var verr *config.ValidationError
	assert.True(t, errors.As(err, &verr))

	cfg = appConfig(t, "a/b")
	_, err = b.Build(context.Background(), cfg)
	assert.ErrorContains(t, err, "usable directory name")
}

func TestBuild_CancelledContextPublishesNothing(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(Options{OutputRoot: root}).Build(ctx, appConfig(t, "Cancelled"))
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

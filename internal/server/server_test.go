package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/llm"
	"github.com/jonathan/site-generator/internal/types"
)

// fakeLLM is a canned llm.Client
type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func (f *fakeLLM) GetModel(tier llm.ModelTier) string { return string(tier) }

func (f *fakeLLM) Close() error { return nil }

// memoryStore is an in-memory SiteStore
type memoryStore struct {
	mu       sync.Mutex
	sites    map[uuid.UUID]*db.Site
	contents map[string]*db.SiteContent
	order    []uuid.UUID
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sites:    make(map[uuid.UUID]*db.Site),
		contents: make(map[string]*db.SiteContent),
	}
}

func contentKey(id uuid.UUID, lang string) string { return id.String() + "/" + lang }

func (m *memoryStore) SaveSite(_ context.Context, site *db.Site, siteContent *db.SiteContent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if site.ID == uuid.Nil {
		site.ID = uuid.New()
	}
	if _, ok := m.sites[site.ID]; !ok {
		m.order = append(m.order, site.ID)
	}
	m.sites[site.ID] = site
	if siteContent != nil {
		siteContent.SiteID = site.ID
		m.contents[contentKey(site.ID, siteContent.Language)] = siteContent
	}
	return nil
}

func (m *memoryStore) GetSite(_ context.Context, id uuid.UUID) (*db.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sites[id], nil
}

func (m *memoryStore) GetSiteContent(_ context.Context, id uuid.UUID, language string) (*db.SiteContent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contents[contentKey(id, language)], nil
}

func (m *memoryStore) ListSites(_ context.Context, limit int) ([]db.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []db.Site
	for i := len(m.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *m.sites[m.order[i]])
	}
	return out, nil
}

const appSiteJSON = `{
	"name": "WeatherPro",
	"businessType": "app-marketing",
	"tagline": "Weather you can trust",
	"description": "Hyperlocal forecasts",
	"primaryColor": "sky",
	"languages": ["en", "de"],
	"features": [{"icon": "🌦️", "title": "Hyperlocal", "description": "Forecasts for your street"}]
}`

const generateBody = `{"prompt": "Write a hero", "businessType": "app-marketing", "language": "en", "toneOfVoice": "friendly"}`

func newTestServer(t *testing.T, modify ...func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		AllowedOrigins: []string{"http://localhost:4321"},
		RatePerMinute:  1000,
		Burst:          1000,
		OutputDir:      t.TempDir(),
		JWT:            testJWTConfig(),
		LLM:            &fakeLLM{response: `{"title": "Hi"}`},
		Store:          newMemoryStore(),
	}
	for _, m := range modify {
		m(&cfg)
	}
	s, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := NewJWTService(testJWTConfig()).GenerateToken("test-site", "generate", time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestGenerateContent(t *testing.T) {
	client := &fakeLLM{response: "```json\n{\"title\": \"Forecasts that fit\"}\n```"}
	s := newTestServer(t, func(c *Config) { c.LLM = client })

	w := do(t, s, http.MethodPost, "/api/generate-content", generateBody, "Authorization", bearer(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp content.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.JSONEq(t, `{"title": "Forecasts that fit"}`, string(resp.Content))
	assert.Equal(t, []string{"Write a hero"}, client.prompts)
}

func TestGenerateContent_Errors(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(*Config)
		body       string
		auth       bool
		wantStatus int
		wantField  string
	}{
		{name: "missing token", body: generateBody, wantStatus: http.StatusUnauthorized},
		{name: "invalid JSON body", body: `{"prompt":`, auth: true, wantStatus: http.StatusBadRequest, wantField: "body"},
		{name: "missing prompt", body: `{"businessType": "consulting", "language": "en", "toneOfVoice": "casual"}`, auth: true, wantStatus: http.StatusBadRequest, wantField: "prompt"},
		{name: "bad tone", body: `{"prompt": "x", "businessType": "consulting", "language": "en", "toneOfVoice": "loud"}`, auth: true, wantStatus: http.StatusBadRequest, wantField: "toneOfVoice"},
		{
			name:       "body too large",
			modify:     func(c *Config) { c.MaxRequestBytes = 16 },
			body:       generateBody,
			auth:       true,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "model failure",
			modify:     func(c *Config) { c.LLM = &fakeLLM{err: errors.New("quota exceeded")} },
			body:       generateBody,
			auth:       true,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "model returns prose",
			modify:     func(c *Config) { c.LLM = &fakeLLM{response: "I cannot help with that"} },
			body:       generateBody,
			auth:       true,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "no model configured",
			modify:     func(c *Config) { c.LLM = nil },
			body:       generateBody,
			auth:       true,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "no signing secret",
			modify:     func(c *Config) { c.JWT = nil },
			body:       generateBody,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var modify []func(*Config)
			if tt.modify != nil {
				modify = append(modify, tt.modify)
			}
			s := newTestServer(t, modify...)

			var headers []string
			if tt.auth {
				headers = []string{"Authorization", bearer(t)}
			}
			w := do(t, s, http.MethodPost, "/api/generate-content", tt.body, headers...)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			body := decode(t, w)
			assert.NotEmpty(t, body["error"])
			if tt.wantField != "" {
				assert.Equal(t, tt.wantField, body["field"])
			}
		})
	}
}

func TestResolveContent_Static(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/sites/content", `{"businessType": "consulting", "companyName": "TechTransform", "language": "de"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Content)
	assert.NotEmpty(t, resp.Content.Services)
	assert.Empty(t, resp.Content.Features)
	assert.Len(t, resp.Content.Testimonials, content.DefaultTestimonialCount)
	for section, origin := range resp.Origins {
		assert.Equal(t, content.OriginStatic, origin, "section %s", section)
	}
}

func TestResolveContent_PrimaryWithFallback(t *testing.T) {
	primary := content.SourceFunc(func(_ context.Context, req content.Request) (*content.Fragment, error) {
		if req.Section != content.SectionHero {
			return nil, errors.New("endpoint down")
		}
		return &content.Fragment{
			Section: content.SectionHero,
			Origin:  content.OriginRemote,
			Hero:    &types.Hero{Title: "Remote title", Subtitle: "Remote subtitle", CTAText: "Go"},
		}, nil
	})
	s := newTestServer(t, func(c *Config) {
		c.APIKey = "server-key"
		c.Primary = primary
	})

	// A caller-supplied key is ignored
	w := do(t, s, http.MethodPost, "/sites/content", `{"businessType": "app-marketing", "companyName": "WeatherPro", "apiKey": ""}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp ContentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Remote title", resp.Content.Hero.Title)
	assert.Equal(t, content.OriginRemote, resp.Origins[content.SectionHero])
	assert.Equal(t, content.OriginStatic, resp.Origins[content.SectionFeatures])
	assert.NotEmpty(t, resp.Content.Features)
}

func TestResolveContent_Validation(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"missing company", `{"businessType": "consulting"}`, "companyName"},
		{"missing business type", `{"companyName": "Acme"}`, "businessType"},
		{"unknown business type", `{"businessType": "restaurant", "companyName": "Acme"}`, "businessType"},
		{"negative price", `{"businessType": "consulting", "companyName": "Acme", "basePrice": -1}`, "basePrice"},
		{"unsupported language", `{"businessType": "consulting", "companyName": "Acme", "language": "xx"}`, "language"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/sites/content", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tt.wantField, decode(t, w)["field"])
		})
	}
}

func TestCreateSite_AndRead(t *testing.T) {
	store := newMemoryStore()
	outputDir := t.TempDir()
	s := newTestServer(t, func(c *Config) {
		c.Store = store
		c.OutputDir = outputDir
	})

	w := do(t, s, http.MethodPost, "/sites", appSiteJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	created := decode(t, w)
	assert.Equal(t, "weatherpro", created["slug"])
	assert.Equal(t, "en", created["language"])
	assert.FileExists(t, filepath.Join(outputDir, "weatherpro", "src", "config", "site-config.json"))
	assert.FileExists(t, filepath.Join(outputDir, "weatherpro", "src", "content", "generated", "app-content.json"))
	assert.FileExists(t, filepath.Join(outputDir, "weatherpro", "src", "styles", "theme.css"))

	id, ok := created["id"].(string)
	require.True(t, ok)

	w = do(t, s, http.MethodGet, "/sites/"+id, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got SiteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "WeatherPro", got.Site.Name)
	assert.Equal(t, "app-marketing", got.Site.BusinessType)
	require.NotNil(t, got.Content)
	assert.Equal(t, "en", got.Content.Language)
	assert.Equal(t, content.OriginStatic, got.Content.Origins["hero"])

	var generated types.GeneratedContent
	require.NoError(t, json.Unmarshal(got.Content.Content, &generated))
	require.Len(t, generated.Features, 1)
	assert.Equal(t, "Hyperlocal", generated.Features[0].Title)

	w = do(t, s, http.MethodGet, "/sites/"+id+"/content", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, s, http.MethodGet, "/sites/"+id+"/content?lang=de", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/sites/"+id+"/content?lang=xx", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/sites", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["count"])
}

func TestCreateSite_Invalid(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{"missing name", strings.Replace(appSiteJSON, `"name": "WeatherPro",`, "", 1), http.StatusBadRequest, "name"},
		{"unsupported language", strings.Replace(appSiteJSON, `["en", "de"]`, `["en", "xx"]`, 1), http.StatusBadRequest, "languages[1]"},
		{"unknown business type", strings.Replace(appSiteJSON, "app-marketing", "restaurant", 1), http.StatusBadRequest, "businessType"},
		{"not JSON", `name=WeatherPro`, http.StatusBadRequest, "body"},
		{"empty", "", http.StatusBadRequest, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/sites", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, tt.wantField, decode(t, w)["field"])
		})
	}
}

func TestCreateSite_WithoutStore(t *testing.T) {
	outputDir := t.TempDir()
	s := newTestServer(t, func(c *Config) {
		c.Store = nil
		c.OutputDir = outputDir
	})

	w := do(t, s, http.MethodPost, "/sites", appSiteJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	_, err := os.Stat(filepath.Join(outputDir, "weatherpro"))
	assert.NoError(t, err)

	w = do(t, s, http.MethodGet, "/sites/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/sites", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetSite_Errors(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/sites/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "id", decode(t, w)["field"])

	w = do(t, s, http.MethodGet, "/sites/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, s, http.MethodGet, "/sites?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, s, http.MethodGet, "/sites", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["count"])
}

func TestTranslate(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		target    string
		wantValue string
		wantLang  string
		wantFound bool
	}{
		{"german", "/i18n/de/translate?key=nav.home", "Startseite", "de", true},
		{"params", "/i18n/de/translate?key=form.success&param.name=Ada", "Danke Ada, wir melden uns in Kürze.", "de", true},
		{"missing param stays verbatim", "/i18n/en/translate?key=form.success", "Thanks {{name}}, we will be in touch soon.", "en", true},
		{"unsupported language", "/i18n/xx/translate?key=nav.home", "Home", "en", true},
		{"unknown key", "/i18n/fr/translate?key=nav.unknown", "nav.unknown", "fr", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp TranslateResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantValue, resp.Value)
			assert.Equal(t, tt.wantLang, string(resp.Locale))
			assert.Equal(t, tt.wantFound, resp.Found)
		})
	}

	w := do(t, s, http.MethodGet, "/i18n/de/translate", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "key", decode(t, w)["field"])
}

func TestAlternateLinks(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/i18n/links?path=/de/about", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Current string `json:"current"`
		Links   []struct {
			Lang string `json:"lang"`
			URL  string `json:"url"`
		} `json:"links"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "de", resp.Current)
	require.Len(t, resp.Links, 6)
	urls := make(map[string]string)
	for _, link := range resp.Links {
		urls[link.Lang] = link.URL
	}
	assert.Equal(t, "/about", urls["en"])
	assert.Equal(t, "/fr/about", urls["fr"])
}

func TestLanguagesAndTerms(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/i18n/languages", "", "Accept-Language", "de-DE,de;q=0.9,en;q=0.5")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "de", body["preferred"])
	assert.Equal(t, "en", body["default"])

	w = do(t, s, http.MethodGet, "/i18n/de/terms/consulting", "")
	require.Equal(t, http.StatusOK, w.Code)
	terms, ok := decode(t, w)["terms"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Beratung vereinbaren", terms["cta"])

	w = do(t, s, http.MethodGet, "/i18n/de/terms/restaurant", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", "", "Origin", "http://localhost:4321")
	assert.Equal(t, "http://localhost:4321", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, s, http.MethodGet, "/health", "", "Origin", "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = do(t, s, http.MethodOptions, "/api/generate-content", "", "Origin", "http://localhost:4321")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	wildcard := newTestServer(t, func(c *Config) { c.AllowedOrigins = []string{"*"} })
	w = do(t, wildcard, http.MethodGet, "/health", "", "Origin", "https://any.example")
	assert.Equal(t, "https://any.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, func(c *Config) {
		c.RatePerMinute = 1
		c.Burst = 1
	})

	w := do(t, s, http.MethodPost, "/api/generate-content", generateBody, "Authorization", bearer(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(t, s, http.MethodPost, "/api/generate-content", generateBody, "Authorization", bearer(t))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	body := decode(t, w)
	assert.Equal(t, "rate_limit_exceeded", body["error"])

	// Health checks are never limited
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	}
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServer(t, func(c *Config) { c.Logger = zap.New(core) })

	do(t, s, http.MethodGet, "/sites/not-a-uuid", "")

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/sites/not-a-uuid", fields["path"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, func(c *Config) { c.Port = 0 })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestGenerateContent_ServesRemoteSource(t *testing.T) {
	client := &fakeLLM{response: `{"title": "Forecasts that fit", "subtitle": "Street-level weather", "ctaText": "Download"}`}
	s := newTestServer(t, func(c *Config) { c.LLM = client })
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	token, err := NewJWTService(testJWTConfig()).GenerateToken("weatherpro", "generate", time.Minute)
	require.NoError(t, err)

	resolve := func(apiKey string) *content.Resolution {
		remote, err := content.NewRemoteSource(content.RemoteOptions{
			Endpoint: ts.URL + "/api/generate-content",
			APIKey:   apiKey,
			Timeout:  2 * time.Second,
		})
		require.NoError(t, err)

		gen, err := content.NewGenerator(types.GenerationConfig{
			BusinessType: types.BusinessAppMarketing,
			CompanyName:  "WeatherPro",
			APIKey:       apiKey,
		}, content.WithPrimary(remote))
		require.NoError(t, err)

		res, err := gen.Resolve(context.Background())
		require.NoError(t, err)
		return res
	}

	// Only the hero decodes from the canned reply; other sections fall back
	res := resolve(token)
	assert.Equal(t, "Forecasts that fit", res.Content.Hero.Title)
	assert.Equal(t, content.OriginRemote, res.Origins[content.SectionHero])
	assert.Equal(t, content.OriginStatic, res.Origins[content.SectionFeatures])
	assert.NotEmpty(t, client.prompts)

	// A rejected token degrades every section to static copy
	res = resolve("not-a-token")
	for section, origin := range res.Origins {
		assert.Equal(t, content.OriginStatic, origin, "section %s", section)
	}
}

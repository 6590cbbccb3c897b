package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/site-generator/internal/config"
	"github.com/jonathan/site-generator/internal/content"
	"github.com/jonathan/site-generator/internal/db"
	"github.com/jonathan/site-generator/internal/i18n"
	"github.com/jonathan/site-generator/internal/schemas"
	"github.com/jonathan/site-generator/internal/types"
)

// ContentResponse is the body of POST /sites/content.
type ContentResponse struct {
	Content *types.GeneratedContent    `json:"content"`
	Origins map[content.Section]string `json:"origins"`
}

// SiteResponse is the body of GET /sites/{id}.
type SiteResponse struct {
	Site    *db.Site        `json:"site"`
	Content *db.SiteContent `json:"content,omitempty"`
}

// handleResolveContent resolves the content of one generation request without writing a site.
func (s *Server) handleResolveContent(w http.ResponseWriter, r *http.Request) {
	var cfg types.GenerationConfig
	if err := s.decodeJSON(w, r, &cfg); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.validateRequest(cfg); err != nil {
		s.writeError(w, err)
		return
	}
	if cfg.Language != "" && !i18n.IsSupported(cfg.Language) {
		s.writeError(w, &ErrValidation{Field: "language", Message: "is not a supported language"})
		return
	}

	// Callers never choose the credentials of the primary source
	cfg.APIKey = s.apiKey

	gen, err := content.NewGenerator(cfg, content.WithLogger(s.logger), content.WithPrimary(s.primary))
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "businessType", Message: err.Error()})
		return
	}
	res, err := gen.Resolve(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ContentResponse{Content: res.Content, Origins: res.Origins})
}

// handleCreateSite builds a site from a flat site configuration document.
func (s *Server) handleCreateSite(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	cfg, err := config.ParseSiteConfig(body)
	if err != nil {
		var validationErr *config.ValidationError
		if !errors.As(err, &validationErr) {
			err = &ErrValidation{Field: "body", Message: err.Error()}
		}
		s.writeError(w, err)
		return
	}
	if err := schemas.Validate(schemas.SiteConfig, body); err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.builder.Build(r.Context(), cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, res)
}

// handleListSites lists recorded sites, newest first.
func (s *Server) handleListSites(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, &ErrUnavailable{Feature: "site store"})
		return
	}

	limit := db.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		limit = n
	}

	sites, err := s.store.ListSites(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if sites == nil {
		sites = []db.Site{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"sites": sites, "count": len(sites)})
}

// handleGetSite returns a recorded site with its default-language content.
func (s *Server) handleGetSite(w http.ResponseWriter, r *http.Request) {
	record, ok := s.lookupSite(w, r)
	if !ok {
		return
	}

	siteContent, err := s.store.GetSiteContent(r.Context(), record.ID, defaultLanguageOf(record))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, SiteResponse{Site: record, Content: siteContent})
}

// handleGetSiteContent returns the content of a recorded site in ?lang, or its default language.
func (s *Server) handleGetSiteContent(w http.ResponseWriter, r *http.Request) {
	record, ok := s.lookupSite(w, r)
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = defaultLanguageOf(record)
	} else if !i18n.IsSupported(lang) {
		s.writeError(w, &ErrValidation{Field: "lang", Message: "is not a supported language"})
		return
	}

	siteContent, err := s.store.GetSiteContent(r.Context(), record.ID, lang)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if siteContent == nil {
		s.writeError(w, &ErrNotFound{Resource: "site content", ID: record.ID.String() + "/" + lang})
		return
	}
	s.jsonResponse(w, http.StatusOK, siteContent)
}

// lookupSite resolves the {id} path value. It writes the error response and
// returns false when the site cannot be served.
func (s *Server) lookupSite(w http.ResponseWriter, r *http.Request) (*db.Site, bool) {
	rawID := r.PathValue("id")
	id, err := uuid.Parse(rawID)
	if err != nil {
		s.writeError(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return nil, false
	}
	if s.store == nil {
		s.writeError(w, &ErrNotFound{Resource: "site", ID: rawID})
		return nil, false
	}

	record, err := s.store.GetSite(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	if record == nil {
		s.writeError(w, &ErrNotFound{Resource: "site", ID: rawID})
		return nil, false
	}
	return record, true
}

// defaultLanguageOf reads the default language from the stored configuration.
func defaultLanguageOf(record *db.Site) string {
	var doc struct {
		DefaultLanguage string `json:"defaultLanguage"`
	}
	if len(record.Config) > 0 {
		_ = json.Unmarshal(record.Config, &doc)
	}
	if !i18n.IsSupported(doc.DefaultLanguage) {
		return string(i18n.DefaultLocale)
	}
	return doc.DefaultLanguage
}

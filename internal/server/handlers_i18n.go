package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/site-generator/internal/i18n"
)

// paramPrefix marks interpolation parameters in translate query strings
const paramPrefix = "param."

// TranslateResponse is the body of GET /i18n/{lang}/translate.
type TranslateResponse struct {
	Locale i18n.Locale `json:"locale"`
	Key    string      `json:"key"`
	Value  string      `json:"value"`
	Found  bool        `json:"found"`
}

// handleTranslate resolves one key. Unsupported languages use the default table;
// unknown keys resolve to the key itself.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	key := query.Get("key")
	if key == "" {
		s.writeError(w, &ErrValidation{Field: "key", Message: "is required"})
		return
	}

	locale, _ := i18n.ParseLocale(r.PathValue("lang"))

	var params map[string]string
	for name, values := range query {
		if !strings.HasPrefix(name, paramPrefix) || len(values) == 0 {
			continue
		}
		if params == nil {
			params = make(map[string]string)
		}
		params[strings.TrimPrefix(name, paramPrefix)] = values[0]
	}

	s.jsonResponse(w, http.StatusOK, TranslateResponse{
		Locale: locale,
		Key:    key,
		Value:  s.translator.Translate(locale, key, params),
		Found:  s.translator.Has(locale, key),
	})
}

// handleAlternateLinks lists the localized URLs of ?path in every supported language.
func (s *Server) handleAlternateLinks(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"path":    path,
		"current": i18n.LangFromPath(path),
		"links":   i18n.AlternateLinks(path),
	})
}

// handleLanguages lists the supported languages and the one preferred by Accept-Language.
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"default":   i18n.DefaultLocale,
		"preferred": i18n.LangFromAcceptLanguage(r.Header.Get("Accept-Language")),
		"languages": i18n.Languages,
	})
}

// handleTerms returns the business-specific wording for a language.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	locale, _ := i18n.ParseLocale(r.PathValue("lang"))
	businessType := r.PathValue("businessType")

	terms, ok := i18n.BusinessTerms(businessType, locale)
	if !ok {
		s.writeError(w, &ErrNotFound{Resource: "business type", ID: businessType})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"locale": locale,
		"terms":  terms,
	})
}

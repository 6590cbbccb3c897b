package i18n

import (
	"net/url"
	"regexp"
	"strings"
)

// languagePrefix matches any leading two-letter path segment followed by a slash
var languagePrefix = regexp.MustCompile(`^/[a-z]{2}/`)

// AlternateLink is one entry of a language switcher or an hreflang set.
type AlternateLink struct {
	Lang  Locale `json:"lang"`
	URL   string `json:"url"`
	Label string `json:"label"`
}

// LocalizedPath returns path as served for locale. An existing two-letter prefix is
// stripped first; the default locale is served without a prefix.
//
//	LocalizedPath("/about", "de")    == "/de/about"
//	LocalizedPath("/de/about", "fr") == "/fr/about"
//	LocalizedPath("/de/about", "en") == "/about"
func LocalizedPath(path string, locale Locale) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	clean := languagePrefix.ReplaceAllString(path, "/")
	if locale != DefaultLocale {
		return "/" + string(locale) + clean
	}
	return clean
}

// LangFromPath returns the locale named by the first path segment,
// or the default locale when that segment is not a supported code.
func LangFromPath(path string) Locale {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return DefaultLocale
	}
	if locale, ok := ParseLocale(parts[1]); ok {
		return locale
	}
	return DefaultLocale
}

// LangFromURL is LangFromPath over u's path.
func LangFromURL(u *url.URL) Locale {
	if u == nil {
		return DefaultLocale
	}
	return LangFromPath(u.Path)
}

// AlternateLinks returns one link per supported locale for the page at path.
func AlternateLinks(path string) []AlternateLink {
	links := make([]AlternateLink, 0, len(Languages))
	for _, lang := range Languages {
		links = append(links, AlternateLink{
			Lang:  lang.Code,
			URL:   LocalizedPath(path, lang.Code),
			Label: lang.Name,
		})
	}
	return links
}

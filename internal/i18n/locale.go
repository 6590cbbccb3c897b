// Package i18n resolves localized UI strings and locale-aware URLs for generated sites.
//
// Translation tables are loaded once and are read-only afterwards, so a single
// Translator can be shared by concurrent requests without locking.
package i18n

// Locale is one of the supported site languages.
type Locale string

// Supported locales
const (
	English    Locale = "en"
	German     Locale = "de"
	French     Locale = "fr"
	Spanish    Locale = "es"
	Italian    Locale = "it"
	Portuguese Locale = "pt"
)

// DefaultLocale is the fallback locale. Its paths carry no language prefix.
const DefaultLocale = English

// Language describes how a locale is presented in a language switcher.
type Language struct {
	Code Locale `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
	Dir  string `json:"dir"`
}

// Languages lists the supported locales in display order.
var Languages = []Language{
	{Code: English, Name: "English", Flag: "🇺🇸", Dir: "ltr"},
	{Code: German, Name: "Deutsch", Flag: "🇩🇪", Dir: "ltr"},
	{Code: French, Name: "Français", Flag: "🇫🇷", Dir: "ltr"},
	{Code: Spanish, Name: "Español", Flag: "🇪🇸", Dir: "ltr"},
	{Code: Italian, Name: "Italiano", Flag: "🇮🇹", Dir: "ltr"},
	{Code: Portuguese, Name: "Português", Flag: "🇵🇹", Dir: "ltr"},
}

// Locales returns the supported locale codes in display order.
func Locales() []Locale {
	out := make([]Locale, len(Languages))
	for i, lang := range Languages {
		out[i] = lang.Code
	}
	return out
}

// ParseLocale returns the locale for code and whether it is supported.
func ParseLocale(code string) (Locale, bool) {
	for _, lang := range Languages {
		if string(lang.Code) == code {
			return lang.Code, true
		}
	}
	return DefaultLocale, false
}

// IsSupported reports whether code names a supported locale.
func IsSupported(code string) bool {
	_, ok := ParseLocale(code)
	return ok
}

// LanguageOf returns the presentation metadata for l, falling back to the default locale.
func LanguageOf(l Locale) Language {
	for _, lang := range Languages {
		if lang.Code == l {
			return lang
		}
	}
	return Languages[0]
}

package i18n

import "golang.org/x/text/language"

// matcher is built over the supported locales in display order, so index 0 is the default
var matcher = language.NewMatcher(supportedTags())

func supportedTags() []language.Tag {
	tags := make([]language.Tag, len(Languages))
	for i, lang := range Languages {
		tags[i] = language.Make(string(lang.Code))
	}
	return tags
}

// LangFromAcceptLanguage picks the best supported locale for an Accept-Language header.
// Unparseable headers and headers with no acceptable match yield the default locale.
func LangFromAcceptLanguage(header string) Locale {
	if header == "" {
		return DefaultLocale
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(Languages) {
		return DefaultLocale
	}
	return Languages[index].Code
}

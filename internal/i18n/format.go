package i18n

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// regionalTags maps each locale to the regional variant used for number formatting
var regionalTags = map[Locale]language.Tag{
	English:    language.AmericanEnglish,
	German:     language.MustParse("de-DE"),
	French:     language.MustParse("fr-FR"),
	Spanish:    language.MustParse("es-ES"),
	Italian:    language.MustParse("it-IT"),
	Portuguese: language.EuropeanPortuguese,
}

// Tag returns the regional language tag for l.
func Tag(l Locale) language.Tag {
	if tag, ok := regionalTags[l]; ok {
		return tag
	}
	return regionalTags[DefaultLocale]
}

// FormatNumber formats n with the grouping and decimal separators of l.
func FormatNumber(n float64, l Locale) string {
	p := message.NewPrinter(Tag(l))
	return p.Sprint(number.Decimal(n))
}

// FormatCurrency formats amount in the ISO 4217 currency code for l.
// An unknown code is rendered as "<CODE> <number>".
func FormatCurrency(amount float64, l Locale, code string) string {
	if code == "" {
		code = "USD"
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %s", strings.ToUpper(code), FormatNumber(amount, l))
	}
	p := message.NewPrinter(Tag(l))
	return p.Sprint(currency.Symbol(unit.Amount(amount)))
}

// monthNames holds the long month names per locale, January first
var monthNames = map[Locale][12]string{
	English:    {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	German:     {"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"},
	French:     {"janvier", "février", "mars", "avril", "mai", "juin", "juillet", "août", "septembre", "octobre", "novembre", "décembre"},
	Spanish:    {"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"},
	Italian:    {"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno", "luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre"},
	Portuguese: {"janeiro", "fevereiro", "março", "abril", "maio", "junho", "julho", "agosto", "setembro", "outubro", "novembro", "dezembro"},
}

// FormatDate renders t as a long date ("September 30, 2025", "30. September 2025", ...).
func FormatDate(t time.Time, l Locale) string {
	names, ok := monthNames[l]
	if !ok {
		l = DefaultLocale
		names = monthNames[l]
	}
	month := names[t.Month()-1]
	day, year := t.Day(), t.Year()

	switch l {
	case English:
		return fmt.Sprintf("%s %d, %d", month, day, year)
	case German:
		return fmt.Sprintf("%d. %s %d", day, month, year)
	case Spanish, Portuguese:
		return fmt.Sprintf("%d de %s de %d", day, month, year)
	default:
		return fmt.Sprintf("%d %s %d", day, month, year)
	}
}

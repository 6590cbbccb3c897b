package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

//go:embed locales/*.json
var localeFiles embed.FS

// placeholderPattern matches {{name}} tokens in translated strings
var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Table is a nested translation table: values are strings or further tables.
type Table map[string]any

// Translator resolves dotted key paths against per-locale translation tables.
type Translator struct {
	tables map[Locale]Table
}

// Func translates a key for a fixed locale.
type Func func(key string, params ...map[string]string) string

// NewTranslator loads one "<code>.json" table per supported locale from fsys.
// The default locale's table is required; any other missing table falls back to it entirely.
func NewTranslator(fsys fs.FS) (*Translator, error) {
	tables := make(map[Locale]Table, len(Languages))
	for _, lang := range Languages {
		filename := string(lang.Code) + ".json"
		data, err := fs.ReadFile(fsys, filename)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && lang.Code != DefaultLocale {
				continue
			}
			return nil, fmt.Errorf("failed to read translation file %s: %w", filename, err)
		}

		var table Table
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse translation file %s: %w", filename, err)
		}
		tables[lang.Code] = table
	}

	return NewTranslatorFromTables(tables)
}

// NewTranslatorFromTables builds a Translator from in-memory tables.
func NewTranslatorFromTables(tables map[Locale]Table) (*Translator, error) {
	def, ok := tables[DefaultLocale]
	if !ok {
		return nil, fmt.Errorf("translation table for default locale %q is required", DefaultLocale)
	}

	t := &Translator{tables: make(map[Locale]Table, len(Languages))}
	for _, lang := range Languages {
		if table, ok := tables[lang.Code]; ok {
			t.tables[lang.Code] = table
		} else {
			t.tables[lang.Code] = def
		}
	}
	return t, nil
}

// Embedded returns a Translator over the translation files compiled into the binary.
func Embedded() (*Translator, error) {
	sub, err := fs.Sub(localeFiles, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded locales: %w", err)
	}
	return NewTranslator(sub)
}

// MustEmbedded is like Embedded but panics on error.
// The embedded files ship with the binary, so failure is a build defect.
func MustEmbedded() *Translator {
	t, err := Embedded()
	if err != nil {
		panic(fmt.Sprintf("failed to load translations: %v", err))
	}
	return t
}

// Translate resolves keyPath for locale. Resolution order is the requested locale,
// then the default locale, then keyPath itself. It never fails.
// Every {{name}} with a matching entry in params is substituted; others are left verbatim.
func (t *Translator) Translate(locale Locale, keyPath string, params map[string]string) string {
	value, ok := lookup(t.table(locale), keyPath)
	if !ok && locale != DefaultLocale {
		value, ok = lookup(t.tables[DefaultLocale], keyPath)
	}
	if !ok {
		return keyPath
	}
	return interpolate(value, params)
}

// Has reports whether keyPath resolves to a string in locale's own table, without fallback.
func (t *Translator) Has(locale Locale, keyPath string) bool {
	_, ok := lookup(t.table(locale), keyPath)
	return ok
}

// For returns a translation function bound to locale.
func (t *Translator) For(locale Locale) Func {
	return func(key string, params ...map[string]string) string {
		var merged map[string]string
		switch len(params) {
		case 0:
		case 1:
			merged = params[0]
		default:
			merged = make(map[string]string)
			for _, p := range params {
				for k, v := range p {
					merged[k] = v
				}
			}
		}
		return t.Translate(locale, key, merged)
	}
}

// table returns the table for locale, using the default table for unknown locales.
func (t *Translator) table(locale Locale) Table {
	if table, ok := t.tables[locale]; ok {
		return table
	}
	return t.tables[DefaultLocale]
}

// lookup walks the dot-separated segments of keyPath and returns the string leaf.
func lookup(table Table, keyPath string) (string, bool) {
	if table == nil {
		return "", false
	}

	var current any = map[string]any(table)
	for _, segment := range strings.Split(keyPath, ".") {
		node, ok := asMap(current)
		if !ok {
			return "", false
		}
		current, ok = node[segment]
		if !ok {
			return "", false
		}
	}

	s, ok := current.(string)
	return s, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Table:
		return m, true
	}
	return nil, false
}

func interpolate(value string, params map[string]string) string {
	if len(params) == 0 {
		return value
	}
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := match[2 : len(match)-2]
		if replacement, ok := params[name]; ok {
			return replacement
		}
		return match
	})
}

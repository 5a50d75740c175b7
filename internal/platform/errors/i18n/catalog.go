// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the locale used when no better match exists.
var BaseLocale = language.AmericanEnglish

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   language.Tag
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[language.Tag]*Catalog{}
	matcher    language.Matcher
)

func init() {
	RegisterCatalog(NewCatalog(language.AmericanEnglish, enUSMessages))
	RegisterCatalog(NewCatalog(language.French, frFRMessages))
}

// GetCatalog returns the catalog best matching the given locale, which may
// be a single BCP 47 tag or an Accept-Language header value.
// Falls back to en-US if nothing matches.
func GetCatalog(locale string) *Catalog {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()

	tags, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(tags) == 0 {
		return catalogs[BaseLocale]
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return catalogs[BaseLocale]
	}
	return catalogs[supported[index]]
}

var supported []language.Tag

// Locale returns the BCP 47 locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale.String()
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a catalog and rebuilds the locale matcher.
// The base locale always stays first so it wins ties.
func RegisterCatalog(cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[cat.locale] = cat

	supported = make([]language.Tag, 0, len(catalogs))
	if _, ok := catalogs[BaseLocale]; ok {
		supported = append(supported, BaseLocale)
	}
	for tag := range catalogs {
		if tag != BaseLocale {
			supported = append(supported, tag)
		}
	}
	matcher = language.NewMatcher(supported)
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale language.Tag, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

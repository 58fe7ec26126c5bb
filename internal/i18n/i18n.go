// Package i18n translates user-facing error messages.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the client sends no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader carries the client's language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator resolves message keys for a locale.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator returns a translator backed by the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: catalog}
}

// GetTranslator returns the process-wide translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the message for key in locale. Unknown locales and keys
// missing from a locale fall back to DefaultLocale; unknown keys are
// returned as-is.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Supported reports whether the catalog has messages for locale.
func Supported(locale string) bool {
	_, ok := catalog[locale]
	return ok
}

// GetLocale picks the supported language the client prefers most, honouring
// q-values in Accept-Language. Region subtags are ignored ("pt-BR" is "pt").
func GetLocale(c *gin.Context) string {
	return negotiate(c.GetHeader(AcceptLanguageHeader))
}

type languageRange struct {
	tag     string
	quality float64
}

func negotiate(header string) string {
	if header == "" {
		return DefaultLocale
	}

	var ranges []languageRange
	for _, part := range strings.Split(header, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		tag = strings.ToLower(strings.TrimSpace(tag))
		if base, _, found := strings.Cut(tag, "-"); found {
			tag = base
		}
		if tag == "" || tag == "*" {
			continue
		}
		quality := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			parsed, err := strconv.ParseFloat(q, 64)
			if err != nil {
				continue
			}
			quality = parsed
		}
		if quality <= 0 {
			continue
		}
		ranges = append(ranges, languageRange{tag: tag, quality: quality})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].quality > ranges[j].quality
	})
	for _, r := range ranges {
		if Supported(r.tag) {
			return r.tag
		}
	}
	return DefaultLocale
}

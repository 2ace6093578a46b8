// Package i18n resolves the request locale and exposes the translation
// record that drives every text node of the landing page.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "lesson_lang"
)

// Switcher order; the first entry is the default locale.
var supported = []language.Tag{language.Arabic, language.Turkish, language.English}

var matcher = language.NewMatcher(supported)

// Supported returns the supported language tags in switcher order.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Default returns the default language tag.
func Default() language.Tag {
	return supported[0]
}

// ParseTag maps a raw locale value onto a supported tag. Regional variants
// resolve to their base language, so "tr-TR" yields Turkish.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	base, _ := tag.Base()
	for _, candidate := range supported {
		candidateBase, _ := candidate.Base()
		if candidateBase == base {
			return candidate, true
		}
	}
	return language.Und, false
}

// Resolver picks the locale for a request.
type Resolver struct {
	fallback language.Tag
}

// NewResolver returns a resolver falling back to the given locale. An empty
// fallback selects Default.
func NewResolver(fallback string) (Resolver, error) {
	if strings.TrimSpace(fallback) == "" {
		return Resolver{fallback: Default()}, nil
	}
	tag, ok := ParseTag(fallback)
	if !ok {
		return Resolver{}, &UnsupportedLocaleError{Value: fallback}
	}
	return Resolver{fallback: tag}, nil
}

// Fallback returns the locale used when a request expresses no preference.
func (r Resolver) Fallback() language.Tag {
	if r.fallback == language.Und {
		return Default()
	}
	return r.fallback
}

// ResolveTag determines the best language tag for the request: the lang
// query param, then the language cookie, then Accept-Language, then the
// fallback. The bool reports whether the query param should be persisted.
func (r Resolver) ResolveTag(req *http.Request) (language.Tag, bool) {
	if req == nil {
		return r.Fallback(), false
	}

	if langValue := strings.TrimSpace(req.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := ParseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := req.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(req.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return supported[index], false
			}
		}
	}

	return r.Fallback(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOption is one entry of the locale switcher.
type LanguageOption struct {
	Tag    string
	Label  string
	URL    string
	Active bool
}

// BuildLanguageOptions returns the switcher entries with the active locale
// marked. Each URL keeps the rest of the current query intact.
func BuildLanguageOptions(active language.Tag, path string, rawQuery string) []LanguageOption {
	options := make([]LanguageOption, 0, len(supported))
	for _, tag := range supported {
		options = append(options, LanguageOption{
			Tag:    tag.String(),
			Label:  strings.ToUpper(tag.String()),
			URL:    LanguageURL(path, rawQuery, tag.String()),
			Active: tag == active,
		})
	}
	return options
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// UnsupportedLocaleError reports a configured locale outside the supported set.
type UnsupportedLocaleError struct {
	Value string
}

func (e *UnsupportedLocaleError) Error() string {
	return "unsupported locale " + strings.TrimSpace(e.Value)
}

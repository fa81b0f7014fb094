// Package i18n owns the two-valued UI language flag and every localized
// string the service emits. The flag is persisted per visitor in a durable
// cookie, initialized from Accept-Language on first contact, and mutated only
// through the toggle endpoint.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Lang is the UI language. Exactly two values exist.
type Lang string

const (
	LangJA Lang = "ja"
	LangEN Lang = "en"

	// CookieName is the durable cookie the flag is persisted in.
	CookieName = "lang"
	// CookieMaxAge keeps the preference for a year.
	CookieMaxAge = 365 * 24 * 60 * 60
)

// Default is the language used before a visitor has expressed a preference.
const Default = LangJA

var matcher = language.NewMatcher([]language.Tag{
	language.Japanese, // first = fallback
	language.English,
})

// Parse normalizes a stored flag value; anything unrecognized maps to the
// default.
func Parse(s string) Lang {
	switch s {
	case string(LangEN):
		return LangEN
	case string(LangJA):
		return LangJA
	}
	return Default
}

// Toggle returns the other language.
func (l Lang) Toggle() Lang {
	if l == LangEN {
		return LangJA
	}
	return LangEN
}

// IsJA reports whether the flag is Japanese.
func (l Lang) IsJA() bool { return l != LangEN }

func (l Lang) tag() language.Tag {
	if l == LangEN {
		return language.English
	}
	return language.Japanese
}

// FromAcceptLanguage picks the best of the two languages for an
// Accept-Language header, falling back to the default.
func FromAcceptLanguage(header string) Lang {
	if header == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return Default
	}
	// The matcher proposes a low-confidence pick even for languages it does
	// not carry; only a real match may override the default.
	_, index, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	if index == 1 {
		return LangEN
	}
	return LangJA
}

// Printer returns a message printer for the language. Message keys are the
// English strings; Japanese translations are registered in messages.go.
func Printer(l Lang) *message.Printer {
	return message.NewPrinter(l.tag())
}

// T localizes a registered message key.
func T(l Lang, key message.Reference, args ...interface{}) string {
	return Printer(l).Sprintf(key, args...)
}

// Package i18n holds the localized string tables for the chat widget and
// negotiates a locale from Accept-Language headers.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

// DefaultLocale is used when nothing else matches.
const DefaultLocale = "fr"

// Catalog maps locale tags to key→string tables with lookup-with-fallback.
type Catalog struct {
	tables   map[string]map[string]string
	locales  []string
	matcher  language.Matcher
	fallback string
}

// Load parses the embedded locale bundles. fallback must name one of them;
// an empty fallback selects DefaultLocale.
func Load(fallback string) (*Catalog, error) {
	if fallback == "" {
		fallback = DefaultLocale
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locale bundles: %w", err)
	}

	tables := make(map[string]map[string]string)
	for _, entry := range entries {
		locale := strings.TrimSuffix(entry.Name(), ".toml")
		data, err := localeFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", entry.Name(), err)
		}
		table := make(map[string]string)
		if err := toml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse bundle %s: %w", entry.Name(), err)
		}
		tables[locale] = table
	}

	if _, ok := tables[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q has no bundle", fallback)
	}

	// The matcher falls back to the first tag, so the fallback locale leads.
	locales := []string{fallback}
	var rest []string
	for locale := range tables {
		if locale != fallback {
			rest = append(rest, locale)
		}
	}
	sort.Strings(rest)
	locales = append(locales, rest...)

	tags := make([]language.Tag, len(locales))
	for i, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale tag %q: %w", locale, err)
		}
		tags[i] = tag
	}

	return &Catalog{
		tables:   tables,
		locales:  locales,
		matcher:  language.NewMatcher(tags),
		fallback: fallback,
	}, nil
}

// Supported returns the available locales, fallback first.
func (c *Catalog) Supported() []string {
	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

// Has reports whether a bundle exists for the locale.
func (c *Catalog) Has(locale string) bool {
	_, ok := c.tables[locale]
	return ok
}

// Fallback returns the fallback locale.
func (c *Catalog) Fallback() string {
	return c.fallback
}

// T looks up a key in the given locale, falling back to the fallback locale
// and finally to the key itself.
func (c *Catalog) T(locale, key string) string {
	if table, ok := c.tables[locale]; ok {
		if val, ok := table[key]; ok {
			return val
		}
	}
	if val, ok := c.tables[c.fallback][key]; ok {
		return val
	}
	return key
}

// Table returns a copy of the full string table for a locale. Unknown
// locales get the fallback table.
func (c *Catalog) Table(locale string) map[string]string {
	table, ok := c.tables[locale]
	if !ok {
		table = c.tables[c.fallback]
	}
	out := make(map[string]string, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// Negotiate picks the best supported locale for an Accept-Language header.
// An empty or unparsable header yields the fallback.
func (c *Catalog) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return c.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return c.fallback
	}
	_, idx, _ := c.matcher.Match(tags...)
	return c.locales[idx]
}

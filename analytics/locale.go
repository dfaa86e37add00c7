package analytics

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// localeTag parses a caller-supplied BCP-47 tag, defaulting to English.
func localeTag(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return language.English
	}
	return tag
}

// countryName resolves an ISO country code into a display name for the
// locale, falling back to the raw code when unresolvable.
func countryName(code, locale string) string {
	region, err := language.ParseRegion(code)
	if err != nil {
		return code
	}
	namer := display.Regions(localeTag(locale))
	if namer == nil {
		namer = display.Regions(language.English)
	}
	if namer != nil {
		if name := namer.Name(region); name != "" {
			return name
		}
	}
	return code
}

// languageName resolves a language code into a display name for the
// locale, falling back to the raw code when unresolvable.
func languageName(code, locale string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	namer := display.Languages(localeTag(locale))
	if namer == nil {
		namer = display.Languages(language.English)
	}
	if namer != nil {
		if name := namer.Name(tag); name != "" {
			return name
		}
	}
	return code
}

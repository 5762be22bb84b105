package validation

import "strings"

// countryAliases maps common abbreviations and lowercase spellings to a
// canonical display name.
var countryAliases = map[string]string{
	"usa":            "United States",
	"us":             "United States",
	"united states":  "United States",
	"uk":             "United Kingdom",
	"united kingdom": "United Kingdom",
	"uae":            "United Arab Emirates",
}

// NormalizeCountry trims the name, resolves known aliases, and title-cases
// anything else. Unknown values pass through so storage never rejects a
// cuisine we have not heard of.
func NormalizeCountry(country string) string {
	trimmed := CollapseWhitespace(country)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := countryAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return titleCase(trimmed)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

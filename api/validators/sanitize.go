package validators

import "strings"

// MaxNameLength bounds shopper display names, counted in runes.
const MaxNameLength = 50

// CleanDisplayName trims a shopper name, collapses inner whitespace runs to a
// single space and cuts it to MaxNameLength runes.
func CleanDisplayName(input string) string {
	name := strings.Join(strings.Fields(input), " ")
	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	return name
}

package game

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
)

// FoldName lowercases and strips accents so "pokegear" finds "Pokégear".
func FoldName(s string) string {
	return cases.Fold().String(unidecode.Unidecode(strings.TrimSpace(s)))
}

// Suggest filters names to those containing input, ignoring case and
// accents. Order is preserved; an empty input returns every name.
func Suggest(names []string, input string) []string {
	needle := FoldName(input)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if needle == "" || strings.Contains(FoldName(n), needle) {
			out = append(out, n)
		}
	}
	return out
}

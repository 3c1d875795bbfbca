package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText folds address text and search terms into one comparable
// form: NFKC, single spaces, trimmed, upper case.
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	// Casers keep state and are not safe for concurrent use.
	return cases.Upper(language.Und).String(s)
}

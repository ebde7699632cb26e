package members

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldName returns the key first names are compared by, so "ana", "Ana" and
// "ANA" are the same member.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// LastNameInitial returns the uppercased first letter of lastName followed by
// a period, or "" for a blank name.
func LastNameInitial(lastName string) string {
	lastName = strings.TrimSpace(lastName)
	if lastName == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(lastName)
	return cases.Upper(language.Und).String(string(r)) + "."
}

// Package preprocess handles the analysis of raw text into terms.
package preprocess

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/hscells/docexp"
)

// TextProcessor is applied to text before it is tokenised.
type TextProcessor func(text string) string

var (
	alphanum = regexp.MustCompile("[^a-zA-Z0-9 ]+")
	numbers  = regexp.MustCompile("[0-9]")
	spaces   = regexp.MustCompile(" +")
)

// AlphaNum removes all non-alphanumeric characters from text.
func AlphaNum(text string) string {
	return spaces.ReplaceAllString(alphanum.ReplaceAllString(text, " "), " ")
}

// StripNumbers removes digits from text.
func StripNumbers(text string) string {
	return numbers.ReplaceAllString(text, "")
}

// Lowercase transforms all capital letters to lowercase.
func Lowercase(text string) string {
	return strings.ToLower(text)
}

// IsNumeric reports whether a term consists only of digits.
func IsNumeric(term string) bool {
	if len(term) == 0 {
		return false
	}
	for _, r := range term {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// RemoveNumbers deletes every purely numeric term from a vector.
func RemoveNumbers(v *docexp.TermVector) {
	for _, term := range v.Terms() {
		if IsNumeric(term) {
			v.Remove(term)
		}
	}
}

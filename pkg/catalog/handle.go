package catalog

import (
	"strings"
	"unicode"
)

// Handle derives the artist's feed handle: lowercase ASCII with spaces
// removed and Latin diacritics folded, e.g. "Los Sónicos" -> "lossonicos".
func (a Artist) Handle() string {
	var result strings.Builder
	result.Grow(len(a.Name))

	for _, r := range strings.ToLower(a.Name) {
		switch {
		case r == ' ' || r == '\t':
			// handles have no whitespace
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			result.WriteRune(r)
		case unicode.Is(unicode.Latin, r):
			if folded, ok := foldLatin(r); ok {
				result.WriteRune(folded)
			}
		}
	}

	return result.String()
}

// foldLatin maps accented lowercase Latin letters to their base letter.
func foldLatin(r rune) (rune, bool) {
	switch {
	case r >= 'à' && r <= 'å':
		return 'a', true
	case r >= 'è' && r <= 'ë':
		return 'e', true
	case r >= 'ì' && r <= 'ï':
		return 'i', true
	case r >= 'ò' && r <= 'ö':
		return 'o', true
	case r >= 'ù' && r <= 'ü':
		return 'u', true
	case r == 'ç':
		return 'c', true
	case r == 'ñ':
		return 'n', true
	}
	return 0, false
}

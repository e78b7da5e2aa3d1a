// Package merge reconciles the divergent outputs of two model backends
// into one deliverable answer: a union merge for structured analyses and
// a language-aware arbitration for free-text chat.
package merge

// Language is the closed set of languages the product serves.
// This is deliberately a script-range heuristic and not an NLP library:
// the product behavior IS this heuristic, and a real detector would
// change user-visible arbitration in ways nobody asked for.
type Language string

const (
	LangKurdish Language = "kurdish"
	LangArabic  Language = "arabic"
	LangEnglish Language = "english"
	LangUnknown Language = "unknown"
)

// kurdishOnly holds the Arabic-block letters Sorani Kurdish uses that
// standard Arabic does not. Seeing any of them in otherwise Arabic-script
// text is a strong Kurdish signal. (Persian shares some of these, but
// Persian is not a product language.)
var kurdishOnly = map[rune]struct{}{
	'ڕ': {}, // reh with small v below
	'ڵ': {}, // lam with small v
	'ۆ': {}, // waw with small v
	'ێ': {}, // yeh with small v
	'ھ': {}, // heh doachashmee
	'پ': {}, // peh
	'چ': {}, // tcheh
	'ژ': {}, // jeh
	'ڤ': {}, // veh
	'گ': {}, // gaf
}

// DetectLanguage classifies text by script:
// Arabic-range runes plus Kurdish-only glyphs mean kurdish, Arabic-range
// runes alone mean arabic, Latin letters mean english, anything else is
// unknown. Arabic script wins over Latin when both appear, since answers
// in Kurdish or Arabic routinely embed Latin product names and numbers.
func DetectLanguage(text string) Language {
	hasArabic := false
	hasKurdish := false
	hasLatin := false

	for _, r := range text {
		switch {
		case r >= 0x0600 && r <= 0x06FF:
			hasArabic = true
			if _, ok := kurdishOnly[r]; ok {
				hasKurdish = true
			}
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			hasLatin = true
		}
	}

	switch {
	case hasKurdish:
		return LangKurdish
	case hasArabic:
		return LangArabic
	case hasLatin:
		return LangEnglish
	default:
		return LangUnknown
	}
}

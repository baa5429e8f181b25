package language

import "unicode"

// Locale is a supported conversation language tag
type Locale string

const (
	English Locale = "en"
	Hindi   Locale = "hi"
	Kannada Locale = "kn"
)

var (
	devanagari = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0900, Hi: 0x097F, Stride: 1}}}
	kannada    = &unicode.RangeTable{R16: []unicode.Range16{{Lo: 0x0C80, Hi: 0x0CFF, Stride: 1}}}
)

// Detect classifies text by the script of its characters.
//
// This is an approximation, not language identification: any Devanagari rune
// yields Hindi (Marathi or Nepali text would too), any Kannada rune yields
// Kannada, and everything else falls back to English.
func Detect(text string) Locale {
	for _, r := range text {
		switch {
		case unicode.Is(devanagari, r):
			return Hindi
		case unicode.Is(kannada, r):
			return Kannada
		}
	}
	return English
}

// Valid reports whether l is one of the supported locales
func (l Locale) Valid() bool {
	switch l {
	case English, Hindi, Kannada:
		return true
	}
	return false
}

// Parse converts a host-provided tag into a supported locale
func Parse(tag string) (Locale, bool) {
	l := Locale(tag)
	return l, l.Valid()
}

package services

import (
	"unicode"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

const (
	devanagariFirst = '\u0900'
	devanagariLast  = '\u097F'
)

// DetectLanguage classifies normalized text by script. Digits, punctuation
// and other scripts are ignored.
func DetectLanguage(text string) entities.Language {
	var native, latin int
	for _, r := range text {
		switch {
		case r >= devanagariFirst && r <= devanagariLast:
			native++
		case r <= unicode.MaxLatin1 && unicode.IsLetter(r):
			latin++
		}
	}

	switch {
	case native > 0 && latin == 0:
		return entities.LanguageNative
	case native > 0 && latin > 0:
		return entities.LanguageMixed
	default:
		return entities.LanguageLatin
	}
}

package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
)

type transliteration struct {
	native string
	latin  string
}

// Transliterator rewrites native-script phrases to Latin. Longer phrases are
// applied first so that a two-word dish name is never split by one of its
// single-word entries.
type Transliterator struct {
	entries []transliteration
}

// NewTransliterator builds a transliterator from a native→Latin dictionary.
func NewTransliterator(dict map[string]string) *Transliterator {
	entries := make([]transliteration, 0, len(dict))
	for k, v := range dict {
		if k == "" {
			continue
		}
		entries = append(entries, transliteration{native: k, latin: v})
	}

	sort.Slice(entries, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(entries[i].native), utf8.RuneCountInString(entries[j].native)
		if li != lj {
			return li > lj
		}
		return entries[i].native < entries[j].native
	})

	return &Transliterator{entries: entries}
}

// Transliterate replaces every dictionary phrase found in text and returns
// the substitutions that changed it, in application order.
func (t *Transliterator) Transliterate(text string) (string, []entities.Correction) {
	var corrections []entities.Correction
	for _, e := range t.entries {
		if !strings.Contains(text, e.native) {
			continue
		}
		replaced := strings.ReplaceAll(text, e.native, e.latin)
		if replaced == text {
			continue
		}
		text = replaced
		corrections = append(corrections, entities.Correction{From: e.native, To: e.latin})
	}
	return text, corrections
}

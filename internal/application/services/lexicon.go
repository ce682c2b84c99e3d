package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
)

const (
	transliterationsFile = "transliterations.json"
	synonymsFile         = "synonyms.json"
	priceKeywordsFile    = "price_keywords.json"
	categoryKeywordsFile = "category_keywords.json"
	dietaryKeywordsFile  = "dietary_keywords.json"
	contextualMealsFile  = "contextual_meals.json"
)

// DietaryKeyword maps a diet word to the is_veg filter and the terms that
// replace it.
type DietaryKeyword struct {
	IsVeg     bool     `json:"is_veg"`
	Canonical []string `json:"canonical"`
}

// MealContext is the category and keyword set suggested for a meal period.
type MealContext struct {
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// LexiconTables are the immutable lookup tables used by query understanding.
// All keys are normalized.
type LexiconTables struct {
	Transliterations map[string]string
	Synonyms         map[string][]string
	PriceKeywords    map[string]entities.PriceRange
	CategoryKeywords map[string]string
	DietaryKeywords  map[string]DietaryKeyword
	Meals            map[entities.MealPeriod]MealContext

	transliterator *Transliterator
	phrases        map[string]struct{}
	maxPhraseWords int
}

// Transliterator returns the transliterator built from Transliterations.
func (t *LexiconTables) Transliterator() *Transliterator {
	if t.transliterator == nil {
		return NewTransliterator(t.Transliterations)
	}
	return t.transliterator
}

// GroupPhrases joins adjacent words that form a multi-word key of the
// synonym, price, category or dietary tables, longest match first, so that
// "non veg" reaches the resolver as one term instead of "non" and "veg".
func (t *LexiconTables) GroupPhrases(words []string) []string {
	if t.maxPhraseWords < 2 {
		return words
	}
	out := make([]string, 0, len(words))
	for i := 0; i < len(words); {
		n := 1
		for size := min(t.maxPhraseWords, len(words)-i); size >= 2; size-- {
			if _, ok := t.phrases[strings.Join(words[i:i+size], " ")]; ok {
				n = size
				break
			}
		}
		out = append(out, strings.Join(words[i:i+n], " "))
		i += n
	}
	return out
}

func (t *LexiconTables) addPhrase(key string) {
	n := len(strings.Fields(key))
	if n < 2 {
		return
	}
	t.phrases[key] = struct{}{}
	t.maxPhraseWords = max(t.maxPhraseWords, n)
}

// Lexicon holds the current tables and swaps them atomically on Reload.
type Lexicon struct {
	dir    string
	mu     sync.RWMutex
	tables *LexiconTables
}

// LoadLexicon reads every table from dir.
func LoadLexicon(dir string) (*Lexicon, error) {
	l := &Lexicon{dir: dir}
	if err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// NewStaticLexicon wraps already-built tables. Keys are normalized.
func NewStaticLexicon(tables *LexiconTables) *Lexicon {
	return &Lexicon{tables: normalizeTables(tables)}
}

// Reload re-reads the tables from disk. On error the previous tables stay
// in place.
func (l *Lexicon) Reload() error {
	if l.dir == "" {
		return fmt.Errorf("lexicon has no source directory")
	}

	raw := &LexiconTables{}
	files := []struct {
		name string
		dest interface{}
	}{
		{transliterationsFile, &raw.Transliterations},
		{synonymsFile, &raw.Synonyms},
		{priceKeywordsFile, &raw.PriceKeywords},
		{categoryKeywordsFile, &raw.CategoryKeywords},
		{dietaryKeywordsFile, &raw.DietaryKeywords},
		{contextualMealsFile, &raw.Meals},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(l.dir, f.name), f.dest); err != nil {
			return err
		}
	}

	tables := normalizeTables(raw)
	l.mu.Lock()
	l.tables = tables
	l.mu.Unlock()
	return nil
}

// Tables returns the current tables. Callers must not modify them.
func (l *Lexicon) Tables() *LexiconTables {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables
}

func readJSON(path string, dest interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read lexicon table %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse lexicon table %s: %w", path, err)
	}
	return nil
}

func normalizeTables(in *LexiconTables) *LexiconTables {
	out := &LexiconTables{
		Transliterations: make(map[string]string, len(in.Transliterations)),
		Synonyms:         make(map[string][]string, len(in.Synonyms)),
		PriceKeywords:    make(map[string]entities.PriceRange, len(in.PriceKeywords)),
		CategoryKeywords: make(map[string]string, len(in.CategoryKeywords)),
		DietaryKeywords:  make(map[string]DietaryKeyword, len(in.DietaryKeywords)),
		Meals:            make(map[entities.MealPeriod]MealContext, len(in.Meals)),
		phrases:          make(map[string]struct{}),
	}
	for k, v := range in.Transliterations {
		out.Transliterations[utils.NormalizeKey(k)] = utils.NormalizeQuery(v)
	}
	for k, v := range in.Synonyms {
		syns := make([]string, 0, len(v))
		for _, s := range v {
			syns = append(syns, utils.NormalizeQuery(s))
		}
		out.Synonyms[utils.NormalizeKey(k)] = utils.UniqueStrings(syns)
	}
	for k, v := range in.PriceKeywords {
		out.PriceKeywords[utils.NormalizeKey(k)] = v
	}
	for k, v := range in.CategoryKeywords {
		out.CategoryKeywords[utils.NormalizeKey(k)] = v
	}
	for k, v := range in.DietaryKeywords {
		out.DietaryKeywords[utils.NormalizeKey(k)] = v
	}
	for k, v := range in.Meals {
		out.Meals[k] = v
	}
	for k := range out.Synonyms {
		out.addPhrase(k)
	}
	for k := range out.PriceKeywords {
		out.addPhrase(k)
	}
	for k := range out.CategoryKeywords {
		out.addPhrase(k)
	}
	for k := range out.DietaryKeywords {
		out.addPhrase(k)
	}
	out.transliterator = NewTransliterator(out.Transliterations)
	return out
}

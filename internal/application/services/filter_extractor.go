package services

import (
	"regexp"
	"strconv"

	"github.com/zatekoja/Marketplacesearch/internal/domain/entities"
	"github.com/zatekoja/Marketplacesearch/pkg/utils"
)

var pricePhrase = regexp.MustCompile(`\b(under|below|less than|upto|up to|within|above|over|more than)\s+(?:rs\.?\s*|₹\s*)?(\d+(?:\.\d+)?)(?:\s*(?:rs|rupees)\b)?`)

// Range phrases need "between" or a currency marker so that "2 to 3 samosa"
// stays a quantity. Each pattern captures the two bounds.
var priceRangePhrases = []*regexp.Regexp{
	regexp.MustCompile(`\bbetween\s+(?:rs\.?\s*|₹\s*)?(\d+(?:\.\d+)?)\s*(?:and|to|-)\s*(?:rs\.?\s*|₹\s*)?(\d+(?:\.\d+)?)(?:\s*(?:rs|rupees)\b)?`),
	regexp.MustCompile(`(?:\brs\.?\s*|₹\s*)(\d+(?:\.\d+)?)\s*(?:to|-)\s*(?:rs\.?\s*|₹\s*)?(\d+(?:\.\d+)?)(?:\s*(?:rs|rupees)\b)?`),
	regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:to|-)\s*(\d+(?:\.\d+)?)\s*(?:rs|rupees)\b`),
}

// TermFilter is what the filter tables say about a single term.
type TermFilter struct {
	Price    *entities.PriceRange
	Category string
	Dietary  *DietaryKeyword
}

// FilterExtractor recognizes price, category and dietary intent.
type FilterExtractor struct {
	lexicon *Lexicon
}

func NewFilterExtractor(lexicon *Lexicon) *FilterExtractor {
	return &FilterExtractor{lexicon: lexicon}
}

// Classify looks term up in the price, category and dietary tables.
func (f *FilterExtractor) Classify(term string) TermFilter {
	tables := f.lexicon.Tables()

	var tf TermFilter
	if r, ok := tables.PriceKeywords[term]; ok {
		cp := r
		tf.Price = &cp
	}
	tf.Category = tables.CategoryKeywords[term]
	if d, ok := tables.DietaryKeywords[term]; ok {
		cp := d
		tf.Dietary = &cp
	}
	return tf
}

// ExtractPricePhrases removes numeric price phrases such as "under 200",
// "above ₹500" or "₹300 to 500" from text and returns the range they
// describe. Ranges are read first; when several phrases set the same bound
// the last one wins.
func (f *FilterExtractor) ExtractPricePhrases(text string) (string, *entities.PriceRange) {
	r := &entities.PriceRange{}
	found := false
	for _, re := range priceRangePhrases {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			lo, errLo := strconv.ParseFloat(m[1], 64)
			hi, errHi := strconv.ParseFloat(m[2], 64)
			if errLo != nil || errHi != nil {
				continue
			}
			if lo > hi {
				lo, hi = hi, lo
			}
			r.Min, r.Max = &lo, &hi
			found = true
		}
		text = re.ReplaceAllString(text, " ")
	}

	matches := pricePhrase.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 && !found {
		return text, nil
	}

	for _, m := range matches {
		amount, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		switch m[1] {
		case "above", "over", "more than":
			r.Min = &amount
		default:
			r.Max = &amount
		}
	}

	rest := utils.NormalizeQuery(pricePhrase.ReplaceAllString(text, " "))
	if r.Min == nil && r.Max == nil {
		return rest, nil
	}
	return rest, r
}

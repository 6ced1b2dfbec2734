package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/po-tracker/constants"
)

// FieldKind is the semantic class of a token.
type FieldKind int

const (
	KindNomenclatureWord FieldKind = iota
	KindPartNumberStart
	KindCountryOfOrigin
	KindUnit
	KindQuantity
	KindRate
	KindTotalCost
)

func (k FieldKind) String() string {
	switch k {
	case KindPartNumberStart:
		return "part_number_start"
	case KindCountryOfOrigin:
		return "country_of_origin"
	case KindUnit:
		return "unit"
	case KindQuantity:
		return "quantity"
	case KindRate:
		return "rate"
	case KindTotalCost:
		return "total_cost"
	default:
		return "nomenclature_word"
	}
}

// Classified is a token with its kind and parsed value. Only the value
// matching Kind is meaningful.
type Classified struct {
	Kind   FieldKind
	Token  string
	Text   string  // part number, canonical country or unit
	Int    int     // quantity
	Number float64 // rate or total cost
}

var (
	reGroupedAmount = regexp.MustCompile(`^\d{1,3}(,\d{3})*(\.\d{1,2})?$`)
	reDecimal       = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

// Classifier assigns field kinds using fixed vocabularies.
type Classifier struct {
	Countries constants.Vocabulary
	Units     constants.Vocabulary
}

// NewClassifier returns a classifier over the built-in vocabularies.
func NewClassifier() Classifier {
	return Classifier{Countries: constants.Countries, Units: constants.Units}
}

// Classify applies the rules in order; the first match wins. quantitySet
// reports whether the open record already holds a quantity.
func (c Classifier) Classify(token string, quantitySet bool) Classified {
	word := Classified{Kind: KindNomenclatureWord, Token: token}

	if strings.Contains(token, "-") {
		return Classified{Kind: KindPartNumberStart, Token: token, Text: token}
	}
	if canon, ok := c.Countries.Canonicalize(token); ok {
		return Classified{Kind: KindCountryOfOrigin, Token: token, Text: canon}
	}
	if canon, ok := c.Units.Canonicalize(token); ok {
		return Classified{Kind: KindUnit, Token: token, Text: canon}
	}
	if isDigits(token) && !quantitySet {
		n, err := strconv.Atoi(token)
		if err != nil {
			return word
		}
		return Classified{Kind: KindQuantity, Token: token, Int: n}
	}
	if strings.ContainsAny(token, ".,") && quantitySet {
		v, ok := parseAmount(token)
		if !ok {
			return word
		}
		return Classified{Kind: KindRate, Token: token, Number: v}
	}
	if reGroupedAmount.MatchString(token) {
		v, ok := parseAmount(token)
		if !ok {
			return word
		}
		return Classified{Kind: KindTotalCost, Token: token, Number: v}
	}
	return word
}

// parseAmount strips grouping commas and parses a plain non-negative decimal.
func parseAmount(token string) (float64, bool) {
	s := strings.ReplaceAll(token, ",", "")
	if !reDecimal.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

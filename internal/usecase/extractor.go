package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

const poundsPerKg = 0.453592

// Item-shaped line patterns, tried in order; first match wins
var (
	// weighted: "0.290 kg @ $4.34/kg $1.26" (produce sold by weight)
	weightedItemRegex = regexp.MustCompile(`(\d+\.\d{1,3})\s*(kg|lb)\s*@\s*\$?(\d+\.\d{2})\s*/\s*(?:kg|lb)\s+\$?(\d+\.\d{2})`)

	// coded fixed price: optional quantity, alphanumeric product code, trailing price
	codedItemRegex = regexp.MustCompile(`^(?:(\d{1,2})\s+)?(.*?[A-Z0-9]{6,}.*?)\s+\$?(\d+\.\d{2})\s*[A-Z]?\s*$`)

	// generic: any line ending in a monetary amount
	trailingPriceRegex = regexp.MustCompile(`\$?(\d+\.\d{2})\s*[A-Z]?\s*$`)

	longDigitTokenRegex = regexp.MustCompile(`^\d{6,}[A-Z]?$`)
	longCodeTokenRegex  = regexp.MustCompile(`^[A-Z0-9]{6,}$`)
	priceTokenRegex     = regexp.MustCompile(`^\$?\d+\.\d{2}$`)
	alphaTokenRegex     = regexp.MustCompile(`^[A-Za-z]+$`)
)

// productIndicators is the whitelist of brand/packaging tokens used by the
// secondary pass to recover items the primary patterns missed
var productIndicators = []string{
	"COM", "PK", "BDS", "HAIR", "WIPES", "SOCK", "POP", "RS", "BRN", "PATROL",
	"BABY", "DR", "SMITH", "MSANML", "PCSET", "PKBDS", "PKHAIR", "PKSOCK",
}

// Extractor matches retained lines against item-shaped patterns
type Extractor struct {
	maxItemPrice       float64
	enableDebugLogging bool
}

// NewExtractor creates an extractor with the given single-item price ceiling
func NewExtractor(maxItemPrice float64, debug bool) *Extractor {
	if maxItemPrice <= 0 {
		maxItemPrice = 100.0
	}
	return &Extractor{maxItemPrice: maxItemPrice, enableDebugLogging: debug}
}

// Extract produces candidate lines from retained receipt lines.
// A primary pass tries the ordered pattern families; a secondary pass
// re-scans lines that produced nothing, triggered by product-indicator
// tokens. Any total price above the ceiling discards the candidate.
func (e *Extractor) Extract(lines []string) []domain.CandidateLine {
	var candidates []domain.CandidateLine
	claimed := make(map[int]bool)

	for i, line := range lines {
		previous := ""
		if i > 0 {
			previous = lines[i-1]
		}
		candidate, ok := e.extractLine(line, previous)
		if !ok {
			continue
		}
		if candidate.TotalPrice > e.maxItemPrice {
			if e.enableDebugLogging {
				log.Printf("[EXTRACT] Discarding %q: price %.2f exceeds ceiling", line, candidate.TotalPrice)
			}
			continue
		}
		candidates = append(candidates, candidate)
		claimed[i] = true
	}

	// Secondary pass: product-indicator lines the primary patterns missed,
	// with the name requirement relaxed to whatever precedes the price
	for i, line := range lines {
		if claimed[i] || !hasProductIndicator(line) {
			continue
		}
		candidate, ok := e.extractIndicator(line)
		if !ok || candidate.TotalPrice > e.maxItemPrice {
			continue
		}
		candidates = append(candidates, candidate)
	}

	return candidates
}

// extractLine tries the ordered pattern families on one line
func (e *Extractor) extractLine(line, previous string) (domain.CandidateLine, bool) {
	if candidate, ok := e.extractWeighted(line, previous); ok {
		return candidate, true
	}
	if candidate, ok := e.extractCoded(line); ok {
		return candidate, true
	}
	return e.extractTrailingPrice(line)
}

// extractWeighted parses by-weight produce lines. The item name is the
// text before the weight expression; when the weight expression starts
// the line, the name is carried on the previous receipt line.
func (e *Extractor) extractWeighted(line, previous string) (domain.CandidateLine, bool) {
	loc := weightedItemRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return domain.CandidateLine{}, false
	}
	m := weightedItemRegex.FindStringSubmatch(line)

	weight, _ := strconv.ParseFloat(m[1], 64)
	unitPrice, _ := strconv.ParseFloat(m[3], 64)
	totalPrice, _ := strconv.ParseFloat(m[4], 64)
	if m[2] == "lb" {
		weight *= poundsPerKg
		unitPrice /= poundsPerKg
	}

	namePart := strings.TrimSpace(line[:loc[0]])
	original := line
	if firstAlphabeticRun(namePart) == "" {
		namePart = previous
		original = previous + " / " + line
	}

	name := firstAlphabeticRun(namePart)
	if name == "" {
		return domain.CandidateLine{}, false
	}

	return domain.CandidateLine{
		OriginalText:  original,
		ExtractedName: name,
		Quantity:      weight,
		UnitPrice:     unitPrice,
		TotalPrice:    totalPrice,
		Kind:          domain.LineKindWeighted,
	}, true
}

// extractCoded parses fixed-price lines carrying a product code
func (e *Extractor) extractCoded(line string) (domain.CandidateLine, bool) {
	m := codedItemRegex.FindStringSubmatch(line)
	if m == nil {
		return domain.CandidateLine{}, false
	}

	quantity := 1.0
	if m[1] != "" {
		if q, err := strconv.ParseFloat(m[1], 64); err == nil && q > 0 {
			quantity = q
		}
	}
	price, _ := strconv.ParseFloat(m[3], 64)

	name := firstAlphabeticRun(m[2])
	if name == "" {
		// No alphabetic run: keep the code portion so resolution can
		// still classify or log the line
		name = strings.TrimSpace(m[2])
	}
	if len(name) < 3 {
		return domain.CandidateLine{}, false
	}

	return domain.CandidateLine{
		OriginalText:  line,
		ExtractedName: name,
		Quantity:      quantity,
		UnitPrice:     price / quantity,
		TotalPrice:    price,
		Kind:          domain.LineKindFixed,
	}, true
}

// extractTrailingPrice parses any line ending in a monetary amount
func (e *Extractor) extractTrailingPrice(line string) (domain.CandidateLine, bool) {
	loc := trailingPriceRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return domain.CandidateLine{}, false
	}
	price, _ := strconv.ParseFloat(line[loc[2]:loc[3]], 64)

	name := firstAlphabeticRun(line[:loc[0]])
	if len(name) < 3 {
		return domain.CandidateLine{}, false
	}

	return domain.CandidateLine{
		OriginalText:  line,
		ExtractedName: name,
		Quantity:      1.0,
		UnitPrice:     price,
		TotalPrice:    price,
		Kind:          domain.LineKindFixed,
	}, true
}

// extractIndicator parses an indicator line the primary families missed:
// the name is the whole prefix before the trailing price, codes included
func (e *Extractor) extractIndicator(line string) (domain.CandidateLine, bool) {
	loc := trailingPriceRegex.FindStringSubmatchIndex(line)
	if loc == nil {
		return domain.CandidateLine{}, false
	}
	price, _ := strconv.ParseFloat(line[loc[2]:loc[3]], 64)

	name := strings.TrimSpace(line[:loc[0]])
	if len(name) < 2 {
		return domain.CandidateLine{}, false
	}

	return domain.CandidateLine{
		OriginalText:  line,
		ExtractedName: name,
		Quantity:      1.0,
		UnitPrice:     price,
		TotalPrice:    price,
		Kind:          domain.LineKindFixed,
	}, true
}

// firstAlphabeticRun returns the first contiguous run of alphabetic
// tokens, with numeric/barcode/price runs stripped
func firstAlphabeticRun(s string) string {
	var run []string
	for _, token := range strings.Fields(s) {
		token = strings.Trim(token, ",.;:$")
		switch {
		case token == "":
			continue
		case longDigitTokenRegex.MatchString(token),
			longCodeTokenRegex.MatchString(token),
			priceTokenRegex.MatchString(token):
			if len(run) > 0 {
				return strings.Join(run, " ")
			}
		case alphaTokenRegex.MatchString(token):
			run = append(run, token)
		default:
			if len(run) > 0 {
				return strings.Join(run, " ")
			}
		}
	}
	return strings.Join(run, " ")
}

// hasProductIndicator reports whether a line carries one of the known
// brand/packaging tokens
func hasProductIndicator(line string) bool {
	upper := strings.ToUpper(line)
	for _, indicator := range productIndicators {
		for _, token := range strings.Fields(upper) {
			if strings.Contains(token, indicator) {
				return true
			}
		}
	}
	return false
}

package usecase

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

const (
	defaultEmissionsCap = 50.0 // kg CO2e per item; above this the value is a saturation artifact
	minEstimatedWeight  = 0.1  // kg floor for the price-derived estimate
	assumedPricePerKg   = 10.0 // currency units per kg for the price-derived estimate
	cappedConfidence    = 0.3
)

// explicit weight tokens in a name or line, with their kg conversions
var weightTokenPatterns = []struct {
	Pattern *regexp.Regexp
	ToKg    float64
}{
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:kg|kilo)`), 1.0},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:g|gram)`), 0.001},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:lb|pound)`), 0.453592},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:oz|ounce)`), 0.0283495},
}

// Calculator assigns each resolved item its final emissions value.
// Items are immutable once it has run.
type Calculator struct {
	emissionsCap       float64
	enableDebugLogging bool
}

// NewCalculator creates a calculator with the given per-item cap
func NewCalculator(emissionsCap float64, debug bool) *Calculator {
	if emissionsCap <= 0 {
		emissionsCap = defaultEmissionsCap
	}
	return &Calculator{emissionsCap: emissionsCap, enableDebugLogging: debug}
}

// Finalize computes emissions for every resolution and returns the
// finished items together with their exact sum
func (c *Calculator) Finalize(resolutions []resolution) ([]domain.ResolvedItem, float64) {
	items := make([]domain.ResolvedItem, 0, len(resolutions))
	total := 0.0

	for _, res := range resolutions {
		item := c.finalizeItem(res)
		if item.CarbonEmissions != nil {
			total += *item.CarbonEmissions
		}
		items = append(items, item)
	}
	return items, total
}

// finalizeItem applies the per-source emissions rule and the global clamp
func (c *Calculator) finalizeItem(res resolution) domain.ResolvedItem {
	item := res.Item
	scrubPrices(&item)

	switch item.Source {
	case domain.SourceDictionary, domain.SourceFuzzy:
		weight := c.estimateWeight(res)
		emissions := res.Entry.EmissionFactor * weight
		if res.Candidate.Kind != domain.LineKindWeighted {
			emissions *= item.Quantity
		}
		item.EstimatedWeightKg = &weight
		item.CarbonEmissions = &emissions

	case domain.SourceLLM:
		// The collaborator's estimate is already weight-adjusted
		if item.CarbonEmissions != nil && *item.CarbonEmissions < 0 {
			item.CarbonEmissions = nil
		}

	default:
		// Unknown items carry no estimate
		item.CarbonEmissions = nil
		item.EstimatedWeightKg = nil
	}

	c.clamp(&item)
	return item
}

// estimateWeight resolves the item weight by priority: an explicit weight
// token on the line, the dictionary entry's typical weight, then a
// price-derived floor estimate
func (c *Calculator) estimateWeight(res resolution) float64 {
	if res.Candidate.Kind == domain.LineKindWeighted {
		return res.Candidate.Quantity
	}

	if weight, ok := parseWeightToken(res.Candidate.ExtractedName); ok {
		return weight
	}
	if weight, ok := parseWeightToken(res.Candidate.OriginalText); ok {
		return weight
	}

	if res.Entry != nil && res.Entry.TypicalWeightKg > 0 {
		return res.Entry.TypicalWeightKg
	}

	return math.Max(minEstimatedWeight, res.Candidate.TotalPrice/assumedPricePerKg)
}

// parseWeightToken extracts an explicit weight from free text, converted to kg
func parseWeightToken(text string) (float64, bool) {
	lower := strings.ToLower(text)
	for _, wp := range weightTokenPatterns {
		if m := wp.Pattern.FindStringSubmatch(lower); m != nil {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil || value <= 0 {
				continue
			}
			return value * wp.ToKg, true
		}
	}
	return 0, false
}

// clamp enforces the per-item ceiling. Triggering it forcibly lowers the
// confidence and marks the item, signalling a saturation artifact rather
// than a precise estimate.
func (c *Calculator) clamp(item *domain.ResolvedItem) {
	if item.CarbonEmissions == nil {
		return
	}
	if *item.CarbonEmissions < 0 || math.IsNaN(*item.CarbonEmissions) {
		item.CarbonEmissions = nil
		return
	}
	if *item.CarbonEmissions > c.emissionsCap {
		if c.enableDebugLogging {
			log.Printf("[EMISSIONS] Capping %q: %.2f -> %.2f kg CO2e", item.CanonicalName, *item.CarbonEmissions, c.emissionsCap)
		}
		capped := c.emissionsCap
		confidence := cappedConfidence
		item.CarbonEmissions = &capped
		item.Confidence = &confidence
		item.Capped = true
	}
}

// scrubPrices drops zero prices so the output contract carries optional
// numerics as absent rather than zero placeholders
func scrubPrices(item *domain.ResolvedItem) {
	if item.UnitPrice != nil && *item.UnitPrice <= 0 {
		item.UnitPrice = nil
	}
	if item.TotalPrice != nil && *item.TotalPrice <= 0 {
		item.TotalPrice = nil
	}
}

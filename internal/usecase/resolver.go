package usecase

import (
	"context"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

// Waterfall confidence constants
const (
	confidenceDictionary = 0.9
	confidenceLLM        = 0.7
	confidenceUnknown    = 0.3
	defaultSimilarity    = 0.8 // floor for fuzzy acceptance
)

// nonFoodPatterns reject transaction/terminal/address noise and long code
// runs from the whole-document fallback batch
var nonFoodPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{8,}`),
	regexp.MustCompile(`^[a-z]{2,}\d{4,}`),
	regexp.MustCompile(`(?i)\b(terminal|network|appr|account|ref|debit|credit|balance|change|subtotal|total|tax|store|address|phone)\b`),
}

// foodVocabulary is the whitelist a line must touch to enter the
// whole-document fallback batch
var foodVocabulary = map[string]bool{
	"apple": true, "banana": true, "orange": true, "tomato": true, "potato": true,
	"carrot": true, "lettuce": true, "onion": true, "chicken": true, "beef": true,
	"pork": true, "fish": true, "salmon": true, "tuna": true, "milk": true,
	"cheese": true, "yogurt": true, "bread": true, "rice": true, "pasta": true,
	"cereal": true, "coffee": true, "tea": true, "juice": true, "soda": true,
	"beer": true, "wine": true, "chocolate": true, "candy": true, "chips": true,
	"cookies": true, "butter": true, "eggs": true, "cream": true, "almond": true,
	"peanut": true, "walnut": true, "olive": true, "oil": true, "ketchup": true,
	"mayo": true, "mustard": true, "soy": true, "sauce": true, "frozen": true,
	"canned": true, "organic": true, "fresh": true, "food": true, "snack": true,
	"drink": true, "beverage": true, "meat": true, "dairy": true, "fruit": true,
	"vegetable": true, "grain": true, "nut": true, "seed": true, "spice": true,
	"herb": true, "condiment": true, "dressing": true, "spread": true,
}

// resolution pairs a candidate with its waterfall outcome. The matched
// dictionary entry travels alongside so the emissions calculator can reach
// the factor and typical weight without a second lookup.
type resolution struct {
	Candidate domain.CandidateLine
	Entry     *domain.FoodEntry // nil unless source is dictionary/fuzzy
	Item      domain.ResolvedItem
}

// Resolver maps candidate lines to known food concepts through the
// four-stage waterfall: dictionary, fuzzy, semantic fallback, unknown
type Resolver struct {
	dict               domain.FoodDictionary
	classifier         domain.LineClassifier
	unknownLog         domain.UnknownItemLog
	similarityFloor    float64
	enableDebugLogging bool
}

// ResolverConfig holds resolver tunables
type ResolverConfig struct {
	SimilarityFloor    float64
	EnableDebugLogging bool
}

// NewResolver creates a resolver. classifier and unknownLog may be nil;
// a nil classifier skips stage 3, a nil log disables curation logging.
func NewResolver(dict domain.FoodDictionary, classifier domain.LineClassifier, unknownLog domain.UnknownItemLog, config ResolverConfig) *Resolver {
	floor := config.SimilarityFloor
	if floor <= 0 || floor > 1 {
		floor = defaultSimilarity
	}
	return &Resolver{
		dict:               dict,
		classifier:         classifier,
		unknownLog:         unknownLog,
		similarityFloor:    floor,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// resolveAll runs the full waterfall over the extracted candidates.
// Stages 1-2 are local and per-candidate; stage 3 batches everything
// still unresolved into one classifier call; stage 4 claims the rest.
func (r *Resolver) resolveAll(ctx context.Context, candidates []domain.CandidateLine) []resolution {
	resolved := make([]resolution, 0, len(candidates))
	var unresolved []domain.CandidateLine

	for _, candidate := range candidates {
		normalized := NormalizeName(candidate.ExtractedName)

		if res, ok := r.resolveDictionary(candidate, normalized); ok {
			resolved = append(resolved, res)
			continue
		}
		if res, ok := r.resolveFuzzy(candidate, normalized); ok {
			resolved = append(resolved, res)
			continue
		}
		unresolved = append(unresolved, candidate)
	}

	resolved = append(resolved, r.resolveSemantic(ctx, unresolved)...)
	return resolved
}

// resolveDictionary is stage 1: exact case-folded alias lookup
func (r *Resolver) resolveDictionary(candidate domain.CandidateLine, normalized string) (resolution, bool) {
	entry, err := r.dict.LookupAlias(normalized)
	if err != nil {
		// A dictionary miss is the normal fall-through, not an error
		return resolution{}, false
	}

	if r.enableDebugLogging {
		log.Printf("[RESOLVE] Dictionary hit: %q -> %q", normalized, entry.CanonicalName)
	}
	return r.matchedResolution(candidate, normalized, entry, confidenceDictionary, domain.SourceDictionary), true
}

// resolveFuzzy is stage 2: substring containment against the alias index,
// then token-level similarity against the canonical-name list. Best score
// wins; ties keep the earlier dictionary entry.
func (r *Resolver) resolveFuzzy(candidate domain.CandidateLine, normalized string) (resolution, bool) {
	if len(normalized) < 3 {
		return resolution{}, false
	}

	for _, pair := range r.dict.Aliases() {
		if len(pair.Alias) < 3 {
			continue
		}
		if strings.Contains(normalized, pair.Alias) || strings.Contains(pair.Alias, normalized) {
			score := tokenSortSimilarity(normalized, pair.Alias)
			if r.enableDebugLogging {
				log.Printf("[RESOLVE] Substring hit: %q ~ %q (%.2f)", normalized, pair.Alias, score)
			}
			return r.matchedResolution(candidate, normalized, pair.Entry, score, domain.SourceFuzzy), true
		}
	}

	entries := r.dict.Entries()
	bestScore := 0.0
	bestIdx := -1
	for i := range entries {
		score := tokenSortSimilarity(normalized, entries[i].CanonicalName)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx < 0 || bestScore < r.similarityFloor {
		return resolution{}, false
	}

	if r.enableDebugLogging {
		log.Printf("[RESOLVE] Fuzzy hit: %q ~ %q (%.2f)", normalized, entries[bestIdx].CanonicalName, bestScore)
	}
	return r.matchedResolution(candidate, normalized, &entries[bestIdx], bestScore, domain.SourceFuzzy), true
}

// resolveSemantic is stage 3 plus stage 4: one batched classifier call for
// the still-unresolved candidates, then unknown items for everything the
// classifier declined or that never reached it
func (r *Resolver) resolveSemantic(ctx context.Context, unresolved []domain.CandidateLine) []resolution {
	if len(unresolved) == 0 {
		return nil
	}

	var verdicts []domain.ClassifiedLine
	if r.classifier != nil {
		lines := make([]string, len(unresolved))
		for i, candidate := range unresolved {
			lines[i] = candidate.OriginalText
		}

		var err error
		verdicts, err = r.classifier.ClassifyLines(ctx, lines)
		if err != nil {
			// Collaborator failure degrades the affected candidates to
			// unresolved; it never aborts the receipt
			log.Printf("[RESOLVE] Classifier unavailable, degrading %d candidates: %v", len(unresolved), err)
			verdicts = nil
		}
	}

	out := make([]resolution, 0, len(unresolved))
	for i, candidate := range unresolved {
		if i < len(verdicts) {
			verdict := verdicts[i]
			if verdict.IsFoodItem && verdict.CanonicalName != "" && verdict.CanonicalName != "unknown" {
				out = append(out, r.classifiedResolution(candidate, verdict))
				continue
			}
		}
		out = append(out, r.unknownResolution(candidate))
	}
	return out
}

// matchedResolution builds the stage 1/2 outcome
func (r *Resolver) matchedResolution(candidate domain.CandidateLine, normalized string, entry *domain.FoodEntry, confidence float64, source domain.ResolutionSource) resolution {
	if confidence > 1 {
		confidence = 1
	}
	unitPrice := candidate.UnitPrice
	totalPrice := candidate.TotalPrice
	return resolution{
		Candidate: candidate,
		Entry:     entry,
		Item: domain.ResolvedItem{
			CanonicalName: entry.CanonicalName,
			Category:      entry.Category,
			Subcategory:   entry.Subcategory,
			Quantity:      candidate.Quantity,
			UnitPrice:     &unitPrice,
			TotalPrice:    &totalPrice,
			Confidence:    &confidence,
			Source:        source,
			OriginalName:  normalized,
			OriginalLine:  candidate.OriginalText,
		},
	}
}

// classifiedResolution builds the stage 3 outcome. The collaborator's
// emissions estimate is already weight-adjusted and is used verbatim.
func (r *Resolver) classifiedResolution(candidate domain.CandidateLine, verdict domain.ClassifiedLine) resolution {
	confidence := confidenceLLM
	unitPrice := candidate.UnitPrice
	totalPrice := candidate.TotalPrice
	return resolution{
		Candidate: candidate,
		Item: domain.ResolvedItem{
			CanonicalName:     verdict.CanonicalName,
			Category:          verdict.Category,
			Quantity:          candidate.Quantity,
			UnitPrice:         &unitPrice,
			TotalPrice:        &totalPrice,
			EstimatedWeightKg: verdict.EstimatedWeightKg,
			CarbonEmissions:   verdict.EstimatedCarbonEmissionsKg,
			Confidence:        &confidence,
			Source:            domain.SourceLLM,
			OriginalName:      NormalizeName(candidate.ExtractedName),
			OriginalLine:      candidate.OriginalText,
		},
	}
}

// unknownResolution builds the stage 4 outcome and feeds the curation log.
// Log append failures are swallowed; they must never abort resolution.
func (r *Resolver) unknownResolution(candidate domain.CandidateLine) resolution {
	name := NormalizeName(candidate.ExtractedName)
	if r.unknownLog != nil {
		if err := r.unknownLog.Append(name, candidate.OriginalText); err != nil {
			log.Printf("[RESOLVE] Unknown-item log append failed: %v", err)
		}
	}

	confidence := confidenceUnknown
	unitPrice := candidate.UnitPrice
	totalPrice := candidate.TotalPrice
	return resolution{
		Candidate: candidate,
		Item: domain.ResolvedItem{
			CanonicalName: name,
			Category:      "unknown",
			Quantity:      candidate.Quantity,
			UnitPrice:     &unitPrice,
			TotalPrice:    &totalPrice,
			Confidence:    &confidence,
			Source:        domain.SourceUnknown,
			OriginalName:  name,
			OriginalLine:  candidate.OriginalText,
		},
	}
}

// IsPlausibleFoodLine is the pre-filter for the whole-document fallback:
// the line must contain at least one food-vocabulary token and match none
// of the non-food noise patterns. Lines failing it are excluded from item
// accounting entirely.
func IsPlausibleFoodLine(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	if len(lower) < 3 {
		return false
	}
	for _, pattern := range nonFoodPatterns {
		if pattern.MatchString(lower) {
			return false
		}
	}
	for _, token := range strings.Fields(punctuationRegex.ReplaceAllString(lower, " ")) {
		if foodVocabulary[token] {
			return true
		}
	}
	return false
}

// tokenSortSimilarity scores two names on a 0-1 scale: tokens are sorted
// and rejoined, then compared by normalized edit distance. Word order
// differences ("onions red" vs "red onions") cost nothing.
func tokenSortSimilarity(a, b string) float64 {
	sortedA := sortedTokenString(a)
	sortedB := sortedTokenString(b)
	if sortedA == "" || sortedB == "" {
		return 0
	}
	if sortedA == sortedB {
		return 1
	}

	distance := levenshteinDistance(sortedA, sortedB)
	longest := len(sortedA)
	if len(sortedB) > longest {
		longest = len(sortedB)
	}
	return 1 - float64(distance)/float64(longest)
}

func sortedTokenString(s string) string {
	tokens := tokenizeName(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	// Two rows instead of the full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}

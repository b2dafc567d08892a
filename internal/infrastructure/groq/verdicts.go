package groq

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// verdictSchema validates one classification object. Elements are checked
// individually so a single malformed object degrades only its own line.
const verdictSchema = `{
	"type": "object",
	"properties": {
		"original": {"type": "string"},
		"is_food_item": {"type": "boolean"},
		"canonical_name": {"type": "string"},
		"category": {"type": "string"},
		"estimated_weight_kg": {"type": ["number", "null"], "minimum": 0},
		"estimated_carbon_emissions_kg": {"type": ["number", "null"], "minimum": 0}
	},
	"required": ["is_food_item", "canonical_name"]
}`

var compiledVerdictSchema = jsonschema.MustCompileString("verdict.json", verdictSchema)

// parseVerdicts extracts the classification array from the model output.
// Models wrap JSON in prose and occasionally emit single quotes; both are
// tolerated. The result always has exactly want entries: missing or
// invalid objects become non-food verdicts so their lines degrade.
func parseVerdicts(content string, want int) ([]domain.ClassifiedLine, error) {
	raw, err := extractJSONArray(content)
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		// Second chance: models sometimes quote JSON with single quotes
		relaxed := []byte(strings.ReplaceAll(string(raw), "'", `"`))
		if err2 := json.Unmarshal(relaxed, &elements); err2 != nil {
			return nil, fmt.Errorf("decode classification array: %w", err)
		}
	}

	verdicts := make([]domain.ClassifiedLine, want)
	for i := range verdicts {
		verdicts[i] = domain.ClassifiedLine{IsFoodItem: false, CanonicalName: "unknown", Category: "unknown"}
		if i >= len(elements) {
			continue
		}
		if verdict, ok := decodeVerdict(elements[i]); ok {
			verdicts[i] = verdict
		}
	}
	return verdicts, nil
}

// decodeVerdict validates one element against the schema and maps it
func decodeVerdict(raw json.RawMessage) (domain.ClassifiedLine, bool) {
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return domain.ClassifiedLine{}, false
	}
	if err := compiledVerdictSchema.Validate(generic); err != nil {
		return domain.ClassifiedLine{}, false
	}

	var verdict domain.ClassifiedLine
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return domain.ClassifiedLine{}, false
	}
	if verdict.CanonicalName == "" {
		verdict.CanonicalName = "unknown"
	}
	if verdict.Category == "" {
		verdict.Category = "unknown"
	}
	return verdict, true
}

// extractJSONArray returns the first top-level JSON array in the content,
// tolerating surrounding prose
func extractJSONArray(content string) ([]byte, error) {
	start := strings.Index(content, "[")
	if start < 0 {
		return nil, fmt.Errorf("no JSON array in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return []byte(content[start : i+1]), nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated JSON array in response")
}

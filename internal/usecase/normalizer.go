package usecase

import (
	"regexp"
	"strings"
)

// Package-level compiled regex patterns for name normalization
var (
	punctuationRegex    = regexp.MustCompile(`[^\w\s]`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
	longDigitRunRegex   = regexp.MustCompile(`\b\d{6,}\b`)
	gramsTokenRegex     = regexp.MustCompile(`\b\d{1,4}\s*[gG]\b`)
	shortCodeRegex      = regexp.MustCompile(`\b[A-Z]{1,3}\d{1,4}\b`)
	anyAlphaRegex       = regexp.MustCompile(`[a-zA-Z]`)
)

// unitExpansions replaces receipt unit abbreviations with full words,
// applied as whole-word substitutions after lowercasing
var unitExpansions = map[string]string{
	"lb":  "pound",
	"lbs": "pounds",
	"oz":  "ounce",
	"pk":  "pack",
	"ct":  "count",
	"ea":  "each",
	"doz": "dozen",
	"qty": "",
}

// ocrMisreads corrects domain-specific misreads the OCR engine produces
// on receipt fonts, as whole-word substitutions
var ocrMisreads = map[string]string{
	"spagehtti": "spaghetti",
	"spagetti":  "spaghetti",
	"marge":     "margarine",
	"zucc":      "zucchini",
	"bannana":   "banana",
	"bananna":   "banana",
	"chiken":    "chicken",
	"chkn":      "chicken",
	"tomatoe":   "tomato",
	"potatoe":   "potato",
	"yoghurt":   "yogurt",
	"onlon":     "onion",
	"mllk":      "milk",
}

// NormalizeName cleans a candidate item name: punctuation and code tokens
// stripped, units expanded, known OCR misreads corrected, lower-cased.
// If nothing alphabetic survives, the original text is returned unchanged
// so the system never produces an empty name.
func NormalizeName(name string) string {
	cleaned := punctuationRegex.ReplaceAllString(name, " ")
	cleaned = longDigitRunRegex.ReplaceAllString(cleaned, " ")
	cleaned = gramsTokenRegex.ReplaceAllString(cleaned, " ")
	cleaned = shortCodeRegex.ReplaceAllString(cleaned, " ")
	cleaned = strings.ToLower(cleaned)

	words := strings.Fields(cleaned)
	var kept []string
	for _, word := range words {
		if expansion, ok := unitExpansions[word]; ok {
			word = expansion
		}
		if correction, ok := ocrMisreads[word]; ok {
			word = correction
		}
		if word != "" {
			kept = append(kept, word)
		}
	}

	result := strings.Join(kept, " ")
	if !anyAlphaRegex.MatchString(result) {
		return name
	}
	return result
}

// tokenizeName splits a normalized name into lowercase tokens, dropping
// single characters and pure numbers
func tokenizeName(s string) []string {
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")
	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 1 || isNumeric(word) {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// isNumeric checks if a string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

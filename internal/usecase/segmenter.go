package usecase

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

// Package-level compiled regex patterns for segmentation
var (
	barcodeRunRegex  = regexp.MustCompile(`^\d{12,13}$`)
	phoneShapeRegex  = regexp.MustCompile(`\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}`)
	pureNumericRegex = regexp.MustCompile(`^[\d\s.$]+$`)
	storeNumberRegex = regexp.MustCompile(`(?i)\bSTORE\s*#?\s*(\d+)`)
	monetaryRegex    = regexp.MustCompile(`\$?(\d+\.\d{2})\b`)
	totalMarkerRegex = regexp.MustCompile(`(?i)\b(total|amount|balance)\b`)
)

// datePatterns matches the date formats receipts commonly print
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
	regexp.MustCompile(`(?i)\b(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{2,4})\b`),
}

// boilerplateWords is the shared lexicon of non-item noise: totals, taxes,
// payment markers, survey/promo text, terminal codes, address fragments.
// A line containing any of these is never an item candidate.
var boilerplateWords = []string{
	"total", "subtotal", "tax", "hst", "gst", "pst", "change", "cash", "tend",
	"card", "payment", "receipt", "thank", "survey", "win", "rules", "store",
	"st#", "op#", "te#", "tr#", "visa", "mastercard", "debit", "credit",
	"charge", "balance", "account", "ref", "terminal", "network", "appr",
	"eftdebit", "payfrom", "primary", "purchase", "networkid", "gift",
	"contest", "regulations", "details", "complete", "road", "unit", "phone",
	"address", "walmart.com", "teacher", "appreciation",
}

// knownMerchants maps lowercase markers to display names
var knownMerchants = []struct {
	Marker string
	Name   string
}{
	{"walmart", "Walmart"},
	{"target", "Target"},
	{"kroger", "Kroger"},
	{"safeway", "Safeway"},
	{"costco", "Costco"},
	{"whole foods", "Whole Foods"},
	{"trader joe", "Trader Joe's"},
	{"aldi", "Aldi"},
	{"shoprite", "ShopRite"},
	{"stop & shop", "Stop & Shop"},
}

// Segmenter splits raw OCR output into ordered candidate lines and
// extracts the receipt-level fields that depend on line position
type Segmenter struct{}

// NewSegmenter creates a new segmenter
func NewSegmenter() *Segmenter {
	return &Segmenter{}
}

// SegmentText splits a text blob into trimmed, non-empty lines,
// preserving top-to-bottom order
func (s *Segmenter) SegmentText(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// SegmentLines orders positioned OCR records top-to-bottom using the
// bounding-box vertical coordinate when present; records without a box
// keep their incoming order (the sort is stable).
func (s *Segmenter) SegmentLines(records []domain.OCRLine) []string {
	ordered := make([]domain.OCRLine, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i].BoundingBox, ordered[j].BoundingBox
		if a == nil || b == nil {
			return false
		}
		return a.Y < b.Y
	})

	var lines []string
	for _, rec := range ordered {
		text := strings.TrimSpace(rec.Text)
		if text != "" {
			lines = append(lines, text)
		}
	}
	return lines
}

// Retain filters out boilerplate, keeping order
func (s *Segmenter) Retain(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if !s.IsBoilerplate(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// IsBoilerplate reports whether a line is non-item noise
func (s *Segmenter) IsBoilerplate(line string) bool {
	if len(line) < 3 {
		return true
	}
	lower := strings.ToLower(line)
	for _, word := range boilerplateWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	if barcodeRunRegex.MatchString(strings.TrimSpace(line)) {
		return true
	}
	if phoneShapeRegex.MatchString(line) {
		return true
	}
	return false
}

// ExtractMerchant finds the merchant name by priority: a store-number
// marker, then a known merchant name, then the first substantial
// non-numeric line. Returns nil when nothing matches.
func (s *Segmenter) ExtractMerchant(lines []string) *string {
	for _, line := range lines {
		if m := storeNumberRegex.FindStringSubmatch(line); m != nil {
			name := "Store #" + m[1]
			return &name
		}
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		for _, merchant := range knownMerchants {
			if strings.Contains(lower, merchant.Marker) {
				name := merchant.Name
				return &name
			}
		}
	}

	for _, line := range lines {
		if len(line) > 3 && !pureNumericRegex.MatchString(line) {
			name := line
			return &name
		}
	}
	return nil
}

// ExtractDate finds the first date-shaped token, top to bottom
func (s *Segmenter) ExtractDate(lines []string) *string {
	for _, line := range lines {
		for _, pattern := range datePatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				date := m[1]
				return &date
			}
		}
	}
	return nil
}

// ExtractTotal finds the receipt total: the bottommost monetary amount on
// a line carrying a total marker, falling back to the lowest-positioned
// monetary amount in the whole document
func (s *Segmenter) ExtractTotal(lines []string) *float64 {
	for i := len(lines) - 1; i >= 0; i-- {
		if !totalMarkerRegex.MatchString(lines[i]) {
			continue
		}
		if amount, ok := lastAmount(lines[i]); ok {
			return &amount
		}
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if amount, ok := lastAmount(lines[i]); ok {
			return &amount
		}
	}
	return nil
}

// lastAmount returns the rightmost monetary amount on a line
func lastAmount(line string) (float64, bool) {
	matches := monetaryRegex.FindAllStringSubmatch(line, -1)
	if len(matches) == 0 {
		return 0, false
	}
	amount, err := strconv.ParseFloat(matches[len(matches)-1][1], 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

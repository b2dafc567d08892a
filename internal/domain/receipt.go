package domain

// LineKind distinguishes how a candidate line priced its item
type LineKind string

const (
	// LineKindFixed is a regular item with a fixed trailing price
	LineKindFixed LineKind = "fixed"
	// LineKindWeighted is a by-weight item (e.g., produce at $/kg)
	LineKindWeighted LineKind = "weighted"
)

// ResolutionSource identifies which waterfall stage produced a match
type ResolutionSource string

const (
	SourceDictionary ResolutionSource = "dictionary"
	SourceFuzzy      ResolutionSource = "fuzzy"
	SourceLLM        ResolutionSource = "llm"
	SourceUnknown    ResolutionSource = "unknown"
)

// BoundingBox is the position of an OCR line on the receipt image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// OCRLine is one positioned text record from the OCR collaborator.
// Receipts may arrive either as a plain text blob or as an ordered
// sequence of these records.
type OCRLine struct {
	Text        string       `json:"text"`
	Confidence  float64      `json:"confidence,omitempty"`
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`
}

// CandidateLine is a receipt line provisionally identified as an item.
// It exists only between extraction and resolution.
type CandidateLine struct {
	OriginalText  string
	ExtractedName string
	Quantity      float64
	UnitPrice     float64
	TotalPrice    float64
	Kind          LineKind
}

// ResolvedItem is a purchased good with its final emissions estimate.
// Values are immutable once the emissions calculator has run.
type ResolvedItem struct {
	CanonicalName     string           `json:"name"`
	Category          string           `json:"category,omitempty"`
	Subcategory       string           `json:"subcategory,omitempty"`
	Quantity          float64          `json:"quantity"`
	UnitPrice         *float64         `json:"unit_price,omitempty"`
	TotalPrice        *float64         `json:"total_price,omitempty"`
	EstimatedWeightKg *float64         `json:"estimated_weight_kg,omitempty"`
	CarbonEmissions   *float64         `json:"carbon_emissions,omitempty"`
	Confidence        *float64         `json:"confidence,omitempty"`
	Source            ResolutionSource `json:"source,omitempty"`
	Capped            bool             `json:"capped,omitempty"`
	OriginalName      string           `json:"original_name,omitempty"`
	OriginalLine      string           `json:"original_line,omitempty"`
}

// ReceiptRecord is the terminal output for one receipt request
type ReceiptRecord struct {
	Success              bool           `json:"success"`
	Items                []ResolvedItem `json:"items"`
	Merchant             *string        `json:"merchant,omitempty"`
	Date                 *string        `json:"date,omitempty"`
	Total                *float64       `json:"total,omitempty"`
	TotalCarbonEmissions float64        `json:"total_carbon_emissions"`
	ProcessingTimeSec    float64        `json:"processing_time,omitempty"`
	ErrorMessage         string         `json:"error_message,omitempty"`
}

// ClassifiedLine is the semantic-fallback collaborator's verdict for one
// candidate line. EstimatedWeightKg and EstimatedCarbonEmissionsKg are nil
// when the collaborator could not estimate them.
type ClassifiedLine struct {
	Original                   string   `json:"original"`
	IsFoodItem                 bool     `json:"is_food_item"`
	CanonicalName              string   `json:"canonical_name"`
	Category                   string   `json:"category"`
	EstimatedWeightKg          *float64 `json:"estimated_weight_kg"`
	EstimatedCarbonEmissionsKg *float64 `json:"estimated_carbon_emissions_kg"`
}

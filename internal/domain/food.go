package domain

// FoodEntry is one row of the static food dictionary.
// Entries are loaded once at startup and never mutated, so they are safe
// for concurrent unsynchronized reads.
type FoodEntry struct {
	CanonicalName   string
	Category        string
	Subcategory     string
	EmissionFactor  float64 // kg CO2e per kg of food
	TypicalWeightKg float64
	Aliases         []string
}

// DictionaryStats summarizes the loaded food dictionary for monitoring
type DictionaryStats struct {
	TotalItems     int     `json:"total_items"`
	Categories     int     `json:"categories"`
	MinFactorPerKg float64 `json:"min_co2_per_kg"`
	AvgFactorPerKg float64 `json:"avg_co2_per_kg"`
	MaxFactorPerKg float64 `json:"max_co2_per_kg"`
}

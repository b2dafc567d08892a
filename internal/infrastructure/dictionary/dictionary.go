package dictionary

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

// Dictionary is the in-memory food dictionary with its derived alias index.
// Both are built once at construction and never mutated afterwards, so all
// methods are safe for concurrent use without locking.
type Dictionary struct {
	entries    []domain.FoodEntry
	aliasIndex map[string]int // case-folded alias -> index into entries
}

// New builds the dictionary from the built-in entries
func New() *Dictionary {
	d := &Dictionary{entries: defaultEntries()}
	d.buildAliasIndex()
	return d
}

// NewFromCSV builds the dictionary from the built-in entries merged with
// rows from a CSV file (columns: canonical,category,emissions_kg_per_kg).
// Rows matching an existing entry override its emission factor; new rows
// are appended with an estimated typical weight and generated keywords.
func NewFromCSV(path string) (*Dictionary, error) {
	d := &Dictionary{entries: defaultEntries()}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dictionary csv: %w", err)
	}
	if len(records) < 2 {
		d.buildAliasIndex()
		return d, nil
	}

	col := columnIndex(records[0])
	for _, row := range records[1:] {
		name, category, factor, ok := parseRow(row, col)
		if !ok {
			continue
		}
		d.mergeRow(name, category, factor)
	}

	d.buildAliasIndex()
	return d, nil
}

// columnIndex maps header names to positions
func columnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func parseRow(row []string, col map[string]int) (name, category string, factor float64, ok bool) {
	get := func(key string) string {
		i, exists := col[key]
		if !exists || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	name = strings.ToLower(get("canonical"))
	if name == "" {
		name = strings.ToLower(get("name"))
	}
	category = strings.ToLower(get("category"))

	factor, err := strconv.ParseFloat(get("emissions_kg_per_kg"), 64)
	if name == "" || err != nil || factor < 0 {
		return "", "", 0, false
	}
	return name, category, factor, true
}

// mergeRow updates an existing entry's factor or appends a new entry
func (d *Dictionary) mergeRow(name, category string, factor float64) {
	for i := range d.entries {
		entry := &d.entries[i]
		if entry.CanonicalName == name || hasAlias(entry, name) {
			if diff := entry.EmissionFactor - factor; diff > 0.1 || diff < -0.1 {
				log.Printf("[DICT] Updating %s: %.2f -> %.2f kg CO2e/kg", name, entry.EmissionFactor, factor)
				entry.EmissionFactor = factor
			}
			return
		}
	}

	d.entries = append(d.entries, domain.FoodEntry{
		CanonicalName:   name,
		Category:        mapCSVCategory(category),
		Subcategory:     category,
		EmissionFactor:  factor,
		TypicalWeightKg: estimateTypicalWeight(category),
		Aliases:         generateKeywords(name),
	})
}

func hasAlias(entry *domain.FoodEntry, name string) bool {
	for _, alias := range entry.Aliases {
		if strings.ToLower(alias) == name {
			return true
		}
	}
	return false
}

// mapCSVCategory maps external CSV categories onto the built-in set
func mapCSVCategory(csvCategory string) string {
	switch csvCategory {
	case "produce":
		return "vegetables"
	case "meat", "dairy", "grains", "fruits", "vegetables":
		return csvCategory
	default:
		return "processed"
	}
}

// estimateTypicalWeight gives a rough per-category package weight in kg
func estimateTypicalWeight(category string) float64 {
	switch category {
	case "produce", "fruits", "vegetables":
		return 0.15
	case "meat":
		return 0.25
	case "dairy":
		return 0.5
	case "grains":
		return 0.5
	default:
		return 0.3
	}
}

// generateKeywords produces alias variants for a CSV-only entry
func generateKeywords(name string) []string {
	keywords := []string{name}
	if strings.HasSuffix(name, "s") && len(name) > 3 {
		keywords = append(keywords, strings.TrimSuffix(name, "s"))
	} else {
		keywords = append(keywords, name+"s")
	}
	return keywords
}

// buildAliasIndex derives the alias index from the entry list. Earlier
// entries win when two entries claim the same alias, preserving dictionary
// insertion order as the tie-break everywhere.
func (d *Dictionary) buildAliasIndex() {
	d.aliasIndex = make(map[string]int, len(d.entries)*4)
	for i, entry := range d.entries {
		for _, alias := range entry.Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if _, taken := d.aliasIndex[key]; !taken {
				d.aliasIndex[key] = i
			}
		}
	}
}

// LookupAlias returns the entry whose alias exactly equals the case-folded
// name, or domain.ErrNoMatch
func (d *Dictionary) LookupAlias(name string) (*domain.FoodEntry, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	i, ok := d.aliasIndex[key]
	if !ok {
		return nil, domain.ErrNoMatch
	}
	return &d.entries[i], nil
}

// Aliases returns the alias index keys paired with their entries in a
// deterministic order (entry order, then alias declaration order).
// The resolver's substring stage depends on this ordering for stable
// tie-breaks.
func (d *Dictionary) Aliases() []domain.AliasPair {
	out := make([]domain.AliasPair, 0, len(d.aliasIndex))
	for i := range d.entries {
		for _, alias := range d.entries[i].Aliases {
			key := strings.ToLower(strings.TrimSpace(alias))
			if owner, ok := d.aliasIndex[key]; ok && owner == i {
				out = append(out, domain.AliasPair{Alias: key, Entry: &d.entries[i]})
			}
		}
	}
	return out
}

// Entries returns all entries in insertion order
func (d *Dictionary) Entries() []domain.FoodEntry {
	return d.entries
}

// Stats summarizes the loaded dictionary
func (d *Dictionary) Stats() domain.DictionaryStats {
	stats := domain.DictionaryStats{TotalItems: len(d.entries)}
	if len(d.entries) == 0 {
		return stats
	}

	categories := make(map[string]bool)
	min, max, sum := d.entries[0].EmissionFactor, d.entries[0].EmissionFactor, 0.0
	for _, entry := range d.entries {
		categories[entry.Category] = true
		if entry.EmissionFactor < min {
			min = entry.EmissionFactor
		}
		if entry.EmissionFactor > max {
			max = entry.EmissionFactor
		}
		sum += entry.EmissionFactor
	}

	stats.Categories = len(categories)
	stats.MinFactorPerKg = min
	stats.MaxFactorPerKg = max
	stats.AvgFactorPerKg = sum / float64(len(d.entries))
	return stats
}

package domain

import "context"

// LineClassifier is the semantic-fallback collaborator: it receives an
// ordered batch of raw receipt lines and returns one verdict per line.
// Implementations must bound their own latency; callers additionally pass
// a deadline context.
type LineClassifier interface {
	ClassifyLines(ctx context.Context, lines []string) ([]ClassifiedLine, error)
}

// AliasPair is one alias-index key with the entry that owns it
type AliasPair struct {
	Alias string
	Entry *FoodEntry
}

// FoodDictionary exposes the read-only food dictionary and its alias index
type FoodDictionary interface {
	// LookupAlias returns the entry whose alias exactly equals the
	// case-folded name, or ErrNoMatch.
	LookupAlias(name string) (*FoodEntry, error)
	// Aliases returns the alias index in deterministic order: entry
	// insertion order first, alias declaration order second
	Aliases() []AliasPair
	// Entries returns all entries in insertion order
	Entries() []FoodEntry
	Stats() DictionaryStats
}

// UnknownItemLog records unresolved candidates for dictionary curation.
// Append must be safe for concurrent callers; failures are the caller's
// to swallow.
type UnknownItemLog interface {
	Append(candidateName, originalLine string) error
}

// ResultSink stores the most recent receipt record for inspection.
// It replaces process-global state: the caller owns the sink and injects it.
type ResultSink interface {
	Store(record *ReceiptRecord)
	Last() (*ReceiptRecord, error)
}

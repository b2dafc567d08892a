package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

// minReceiptTextLen is the threshold below which a receipt is treated as
// having no extractable text
const minReceiptTextLen = 10

// PipelineConfig holds pipeline tunables
type PipelineConfig struct {
	MaxItemPrice       float64
	EmissionsCap       float64
	SimilarityFloor    float64
	EnableDebugLogging bool
}

// Pipeline runs one receipt through the full sequence: segmenter,
// extractor, normalizer, resolver, calculator, aggregator. Processing is
// synchronous and single-pass; no stage re-invokes an earlier one.
// Instances share only the read-only dictionary and are safe to run
// concurrently.
type Pipeline struct {
	segmenter  *Segmenter
	extractor  *Extractor
	resolver   *Resolver
	calculator *Calculator
}

// NewPipeline wires the pipeline stages around the injected collaborators
func NewPipeline(dict domain.FoodDictionary, classifier domain.LineClassifier, unknownLog domain.UnknownItemLog, config PipelineConfig) *Pipeline {
	return &Pipeline{
		segmenter: NewSegmenter(),
		extractor: NewExtractor(config.MaxItemPrice, config.EnableDebugLogging),
		resolver: NewResolver(dict, classifier, unknownLog, ResolverConfig{
			SimilarityFloor:    config.SimilarityFloor,
			EnableDebugLogging: config.EnableDebugLogging,
		}),
		calculator: NewCalculator(config.EmissionsCap, config.EnableDebugLogging),
	}
}

// ProcessText processes a receipt supplied as a newline-delimited blob
func (p *Pipeline) ProcessText(ctx context.Context, text string) (*domain.ReceiptRecord, error) {
	return p.process(ctx, p.segmenter.SegmentText(text))
}

// ProcessLines processes a receipt supplied as positioned OCR records
func (p *Pipeline) ProcessLines(ctx context.Context, records []domain.OCRLine) (*domain.ReceiptRecord, error) {
	return p.process(ctx, p.segmenter.SegmentLines(records))
}

func (p *Pipeline) process(ctx context.Context, lines []string) (*domain.ReceiptRecord, error) {
	start := time.Now()

	if len(strings.TrimSpace(strings.Join(lines, ""))) < minReceiptTextLen {
		// The only whole-request failure: nothing to work with at all
		return &domain.ReceiptRecord{
			Success:      false,
			Items:        []domain.ResolvedItem{},
			ErrorMessage: domain.ErrNoText.Error(),
		}, domain.ErrNoText
	}

	// Receipt-level fields come from the unfiltered document: total and
	// merchant markers live on exactly the lines the boilerplate filter
	// drops. Each degrades to absent rather than failing.
	merchant := p.segmenter.ExtractMerchant(lines)
	date := p.segmenter.ExtractDate(lines)
	total := p.segmenter.ExtractTotal(lines)

	retained := p.segmenter.Retain(lines)
	candidates := p.extractor.Extract(retained)

	// Whole-document fallback: when no line matched an item shape, escalate
	// the plausible retained lines so the classifier can still find food.
	// Lines failing the plausibility pre-filter are excluded entirely.
	if len(candidates) == 0 {
		candidates = syntheticCandidates(retained)
	}

	resolutions := p.resolver.resolveAll(ctx, candidates)
	items, totalEmissions := p.calculator.Finalize(resolutions)

	record := &domain.ReceiptRecord{
		Success:              true,
		Items:                items,
		Merchant:             merchant,
		Date:                 date,
		Total:                total,
		TotalCarbonEmissions: totalEmissions,
		ProcessingTimeSec:    time.Since(start).Seconds(),
	}

	log.Printf("[PIPELINE] Processed receipt: %d lines, %d candidates, %d items, %.2f kg CO2e",
		len(lines), len(candidates), len(items), totalEmissions)
	return record, nil
}

// syntheticCandidates turns plausible food lines into priceless candidates
// for the classifier batch
func syntheticCandidates(lines []string) []domain.CandidateLine {
	var out []domain.CandidateLine
	for _, line := range lines {
		if !IsPlausibleFoodLine(line) {
			continue
		}
		name := firstAlphabeticRun(line)
		if name == "" {
			name = line
		}
		out = append(out, domain.CandidateLine{
			OriginalText:  line,
			ExtractedName: name,
			Quantity:      1.0,
			Kind:          domain.LineKindFixed,
		})
	}
	return out
}

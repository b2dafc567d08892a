package usecase

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

const sampleReceipt = `WALMART SUPERCENTER
STORE #1234
03/14/2025
BANANAS 4011 $1.99
RED ONIONS
0.290 kg @ $4.34/kg $1.26
CAVIAR DELUXE 999.00
XYZWIDGET $5.00
SUBTOTAL 8.25
TOTAL $8.25`

func newTestPipeline(classifier domain.LineClassifier, log domain.UnknownItemLog) *Pipeline {
	return NewPipeline(newFakeDictionary(), classifier, log, PipelineConfig{
		MaxItemPrice:    100.0,
		EmissionsCap:    50.0,
		SimilarityFloor: 0.8,
	})
}

func TestProcessText(t *testing.T) {
	ctx := context.Background()

	t.Run("full receipt", func(t *testing.T) {
		classifier := &stubClassifier{verdicts: []domain.ClassifiedLine{
			{IsFoodItem: false, CanonicalName: "unknown", Category: "unknown"},
		}}
		log := &memoryUnknownLog{}
		p := newTestPipeline(classifier, log)

		record, err := p.ProcessText(ctx, sampleReceipt)
		if err != nil {
			t.Fatalf("ProcessText() error = %v, want nil", err)
		}

		if !record.Success {
			t.Error("Success = false, want true")
		}
		if len(record.Items) != 3 {
			t.Fatalf("got %d items, want 3 (caviar above the ceiling is gone)", len(record.Items))
		}

		banana := record.Items[0]
		if banana.CanonicalName != "banana" || banana.Source != domain.SourceDictionary {
			t.Errorf("item 0 = %s/%s, want banana/dictionary", banana.CanonicalName, banana.Source)
		}
		if banana.CarbonEmissions == nil || math.Abs(*banana.CarbonEmissions-0.072) > 1e-9 {
			t.Errorf("banana emissions = %v, want 0.072", banana.CarbonEmissions)
		}

		onion := record.Items[1]
		if onion.CanonicalName != "onion" || onion.Source != domain.SourceDictionary {
			t.Errorf("item 1 = %s/%s, want onion/dictionary", onion.CanonicalName, onion.Source)
		}
		if onion.EstimatedWeightKg == nil || *onion.EstimatedWeightKg != 0.29 {
			t.Errorf("onion weight = %v, want 0.29", onion.EstimatedWeightKg)
		}
		if onion.CarbonEmissions == nil || math.Abs(*onion.CarbonEmissions-0.145) > 1e-9 {
			t.Errorf("onion emissions = %v, want 0.145", onion.CarbonEmissions)
		}

		unknown := record.Items[2]
		if unknown.Source != domain.SourceUnknown {
			t.Errorf("item 2 source = %s, want unknown", unknown.Source)
		}
		if unknown.CarbonEmissions != nil {
			t.Error("unknown item should carry no emissions")
		}

		if record.Merchant == nil || *record.Merchant != "Store #1234" {
			t.Errorf("Merchant = %v, want Store #1234", record.Merchant)
		}
		if record.Date == nil || *record.Date != "03/14/2025" {
			t.Errorf("Date = %v, want 03/14/2025", record.Date)
		}
		if record.Total == nil || *record.Total != 8.25 {
			t.Errorf("Total = %v, want 8.25", record.Total)
		}
		if len(log.entries) != 1 || !strings.Contains(log.entries[0], "xyzwidget") {
			t.Errorf("unknown log = %v, want one xyzwidget entry", log.entries)
		}
	})

	t.Run("total equals the sum of item emissions", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		record, err := p.ProcessText(ctx, sampleReceipt)
		if err != nil {
			t.Fatalf("ProcessText() error = %v", err)
		}

		sum := 0.0
		for _, item := range record.Items {
			if item.CarbonEmissions != nil {
				sum += *item.CarbonEmissions
			}
		}
		if math.Abs(record.TotalCarbonEmissions-sum) > 1e-12 {
			t.Errorf("TotalCarbonEmissions = %v, item sum = %v", record.TotalCarbonEmissions, sum)
		}
	})

	t.Run("processing the same text twice gives the same result", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		first, err := p.ProcessText(ctx, sampleReceipt)
		if err != nil {
			t.Fatalf("first ProcessText() error = %v", err)
		}
		second, err := p.ProcessText(ctx, sampleReceipt)
		if err != nil {
			t.Fatalf("second ProcessText() error = %v", err)
		}

		if len(first.Items) != len(second.Items) {
			t.Fatalf("item counts differ: %d vs %d", len(first.Items), len(second.Items))
		}
		for i := range first.Items {
			if first.Items[i].CanonicalName != second.Items[i].CanonicalName {
				t.Errorf("item %d differs: %s vs %s", i, first.Items[i].CanonicalName, second.Items[i].CanonicalName)
			}
		}
		if first.TotalCarbonEmissions != second.TotalCarbonEmissions {
			t.Errorf("totals differ: %v vs %v", first.TotalCarbonEmissions, second.TotalCarbonEmissions)
		}
	})

	t.Run("confidence values stay within bounds", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		record, _ := p.ProcessText(ctx, sampleReceipt)
		for _, item := range record.Items {
			if item.Confidence == nil {
				t.Errorf("item %s has no confidence", item.CanonicalName)
				continue
			}
			if *item.Confidence < 0 || *item.Confidence > 1 {
				t.Errorf("item %s confidence = %v, out of [0,1]", item.CanonicalName, *item.Confidence)
			}
			if item.CarbonEmissions != nil && (*item.CarbonEmissions < 0 || *item.CarbonEmissions > 50.0) {
				t.Errorf("item %s emissions = %v, out of [0,50]", item.CanonicalName, *item.CarbonEmissions)
			}
		}
	})

	t.Run("classifier failure degrades but never aborts", func(t *testing.T) {
		classifier := &stubClassifier{err: errors.New("upstream 503")}
		p := newTestPipeline(classifier, &memoryUnknownLog{})

		record, err := p.ProcessText(ctx, sampleReceipt)
		if err != nil {
			t.Fatalf("ProcessText() error = %v, want nil", err)
		}
		if !record.Success {
			t.Error("Success = false, want true")
		}
		if len(record.Items) != 3 {
			t.Errorf("got %d items, want 3", len(record.Items))
		}
		if record.Items[2].Source != domain.SourceUnknown {
			t.Errorf("item 2 source = %s, want unknown", record.Items[2].Source)
		}
	})

	t.Run("empty text is the only whole-request failure", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		record, err := p.ProcessText(ctx, "  \n ")
		if !errors.Is(err, domain.ErrNoText) {
			t.Fatalf("error = %v, want ErrNoText", err)
		}
		if record == nil || record.Success {
			t.Error("record should report failure")
		}
		if len(record.Items) != 0 {
			t.Errorf("got %d items, want 0", len(record.Items))
		}
	})

	t.Run("boilerplate-only receipt succeeds with no items", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		record, err := p.ProcessText(ctx, "TOTAL $5.00\nTHANK YOU FOR SHOPPING")
		if err != nil {
			t.Fatalf("ProcessText() error = %v, want nil", err)
		}
		if !record.Success {
			t.Error("Success = false, want true")
		}
		if len(record.Items) != 0 {
			t.Errorf("got %d items, want 0", len(record.Items))
		}
		if record.Total == nil || *record.Total != 5.00 {
			t.Errorf("Total = %v, want 5.00", record.Total)
		}
	})

	t.Run("whole-document fallback escalates plausible lines", func(t *testing.T) {
		weight := 1.0
		emissions := 3.2
		classifier := &stubClassifier{verdicts: []domain.ClassifiedLine{
			{IsFoodItem: true, CanonicalName: "almond milk", Category: "dairy",
				EstimatedWeightKg: &weight, EstimatedCarbonEmissionsKg: &emissions},
		}}
		p := newTestPipeline(classifier, &memoryUnknownLog{})

		record, err := p.ProcessText(ctx, "CORNER MARKET\nORGANIC ALMOND MILK\nHAVE A NICE DAY")
		if err != nil {
			t.Fatalf("ProcessText() error = %v", err)
		}
		if len(record.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(record.Items))
		}
		item := record.Items[0]
		if item.CanonicalName != "almond milk" || item.Source != domain.SourceLLM {
			t.Errorf("item = %s/%s, want almond milk/llm", item.CanonicalName, item.Source)
		}
		if item.CarbonEmissions == nil || *item.CarbonEmissions != 3.2 {
			t.Errorf("emissions = %v, want 3.2 verbatim", item.CarbonEmissions)
		}
		if len(classifier.gotLines) != 1 || classifier.gotLines[0] != "ORGANIC ALMOND MILK" {
			t.Errorf("classifier batch = %v, want only the plausible line", classifier.gotLines)
		}
	})

	t.Run("processing time is recorded", func(t *testing.T) {
		p := newTestPipeline(nil, &memoryUnknownLog{})

		record, _ := p.ProcessText(ctx, sampleReceipt)
		if record.ProcessingTimeSec < 0 {
			t.Errorf("ProcessingTimeSec = %v, want non-negative", record.ProcessingTimeSec)
		}
	})
}

func TestProcessLines(t *testing.T) {
	p := newTestPipeline(nil, &memoryUnknownLog{})

	t.Run("positioned records are ordered before processing", func(t *testing.T) {
		records := []domain.OCRLine{
			{Text: "0.290 kg @ $4.34/kg $1.26", BoundingBox: &domain.BoundingBox{Y: 120}},
			{Text: "RED ONIONS", BoundingBox: &domain.BoundingBox{Y: 100}},
			{Text: "TOTAL $1.26", BoundingBox: &domain.BoundingBox{Y: 300}},
		}

		record, err := p.ProcessLines(context.Background(), records)
		if err != nil {
			t.Fatalf("ProcessLines() error = %v", err)
		}
		if len(record.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(record.Items))
		}
		if record.Items[0].CanonicalName != "onion" {
			t.Errorf("item = %s, want onion (name carried from the line above)", record.Items[0].CanonicalName)
		}
	})

	t.Run("no records fails like empty text", func(t *testing.T) {
		_, err := p.ProcessLines(context.Background(), nil)
		if !errors.Is(err, domain.ErrNoText) {
			t.Errorf("error = %v, want ErrNoText", err)
		}
	})
}

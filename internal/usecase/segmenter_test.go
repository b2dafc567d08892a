package usecase

import (
	"testing"

	"github.com/SquaredPiano/emissionary/internal/domain"
)

func TestSegmentText(t *testing.T) {
	s := NewSegmenter()

	t.Run("splits, trims, and drops empty lines", func(t *testing.T) {
		lines := s.SegmentText("  WALMART  \n\nBANANAS 4011 $1.99\n   \nTOTAL $1.99\n")

		want := []string{"WALMART", "BANANAS 4011 $1.99", "TOTAL $1.99"}
		if len(lines) != len(want) {
			t.Fatalf("got %d lines, want %d", len(lines), len(want))
		}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
			}
		}
	})

	t.Run("empty input yields no lines", func(t *testing.T) {
		if lines := s.SegmentText("   \n \n"); len(lines) != 0 {
			t.Errorf("got %d lines, want 0", len(lines))
		}
	})
}

func TestSegmentLines(t *testing.T) {
	s := NewSegmenter()

	t.Run("orders records top to bottom by bounding box", func(t *testing.T) {
		records := []domain.OCRLine{
			{Text: "TOTAL $5.00", BoundingBox: &domain.BoundingBox{Y: 300}},
			{Text: "WALMART", BoundingBox: &domain.BoundingBox{Y: 10}},
			{Text: "BANANAS 4011 $1.99", BoundingBox: &domain.BoundingBox{Y: 150}},
		}

		lines := s.SegmentLines(records)
		want := []string{"WALMART", "BANANAS 4011 $1.99", "TOTAL $5.00"}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
			}
		}
	})

	t.Run("records without boxes keep their incoming order", func(t *testing.T) {
		records := []domain.OCRLine{
			{Text: "FIRST"},
			{Text: "SECOND"},
			{Text: "THIRD"},
		}

		lines := s.SegmentLines(records)
		want := []string{"FIRST", "SECOND", "THIRD"}
		for i := range want {
			if lines[i] != want[i] {
				t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
			}
		}
	})
}

func TestIsBoilerplate(t *testing.T) {
	s := NewSegmenter()

	tests := []struct {
		line string
		want bool
	}{
		{"SUBTOTAL 8.25", true},
		{"TOTAL $45.67", true},
		{"HST 13%", true},
		{"THANK YOU FOR SHOPPING", true},
		{"VISA **** 1234", true},
		{"012345678901", true},
		{"(555) 123-4567", true},
		{"AB", true},
		{"BANANAS 4011 $1.99", false},
		{"RED ONIONS", false},
		{"GREAT VALUE MILK 4.49", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := s.IsBoilerplate(tt.line); got != tt.want {
				t.Errorf("IsBoilerplate(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestRetain(t *testing.T) {
	s := NewSegmenter()

	lines := []string{"BANANAS 4011 $1.99", "SUBTOTAL 8.25", "RED ONIONS", "THANK YOU"}
	kept := s.Retain(lines)

	if len(kept) != 2 {
		t.Fatalf("got %d lines, want 2", len(kept))
	}
	if kept[0] != "BANANAS 4011 $1.99" || kept[1] != "RED ONIONS" {
		t.Errorf("kept = %v", kept)
	}
}

func TestExtractMerchant(t *testing.T) {
	s := NewSegmenter()

	t.Run("store number marker wins", func(t *testing.T) {
		merchant := s.ExtractMerchant([]string{"WALMART SUPERCENTER", "STORE #1234"})
		if merchant == nil || *merchant != "Store #1234" {
			t.Errorf("merchant = %v, want Store #1234", merchant)
		}
	})

	t.Run("known merchant name", func(t *testing.T) {
		merchant := s.ExtractMerchant([]string{"WALMART SUPERCENTER", "123 MAIN ST"})
		if merchant == nil || *merchant != "Walmart" {
			t.Errorf("merchant = %v, want Walmart", merchant)
		}
	})

	t.Run("falls back to first substantial line", func(t *testing.T) {
		merchant := s.ExtractMerchant([]string{"12.99", "CORNER GROCERY", "BANANAS"})
		if merchant == nil || *merchant != "CORNER GROCERY" {
			t.Errorf("merchant = %v, want CORNER GROCERY", merchant)
		}
	})

	t.Run("nothing matches", func(t *testing.T) {
		if merchant := s.ExtractMerchant([]string{"1.99", "$5"}); merchant != nil {
			t.Errorf("merchant = %v, want nil", *merchant)
		}
	})
}

func TestExtractDate(t *testing.T) {
	s := NewSegmenter()

	tests := []struct {
		name string
		line string
		want string
	}{
		{"slash format", "03/14/2025 09:26", "03/14/2025"},
		{"iso format", "DATE 2025-03-14", "2025-03-14"},
		{"month name format", "14 Mar 2025", "14 Mar 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := s.ExtractDate([]string{"WALMART", tt.line})
			if date == nil || *date != tt.want {
				t.Errorf("date = %v, want %q", date, tt.want)
			}
		})
	}

	t.Run("no date present", func(t *testing.T) {
		if date := s.ExtractDate([]string{"WALMART", "BANANAS 4011 $1.99"}); date != nil {
			t.Errorf("date = %v, want nil", *date)
		}
	})
}

func TestExtractTotal(t *testing.T) {
	s := NewSegmenter()

	t.Run("bottommost marker line wins", func(t *testing.T) {
		total := s.ExtractTotal([]string{"SUBTOTAL 8.25", "HST 1.07", "TOTAL $9.32"})
		if total == nil || *total != 9.32 {
			t.Errorf("total = %v, want 9.32", total)
		}
	})

	t.Run("rightmost amount on the marker line", func(t *testing.T) {
		total := s.ExtractTotal([]string{"TOTAL 3 ITEMS 1.99 12.50"})
		if total == nil || *total != 12.50 {
			t.Errorf("total = %v, want 12.50", total)
		}
	})

	t.Run("falls back to lowest-positioned amount", func(t *testing.T) {
		total := s.ExtractTotal([]string{"BANANAS 1.99", "MILK 4.49"})
		if total == nil || *total != 4.49 {
			t.Errorf("total = %v, want 4.49", total)
		}
	})

	t.Run("no amounts anywhere", func(t *testing.T) {
		if total := s.ExtractTotal([]string{"WALMART", "THANK YOU"}); total != nil {
			t.Errorf("total = %v, want nil", *total)
		}
	})
}

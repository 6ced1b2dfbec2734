package ocr

import (
	"image"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"crlf and tabs", "a\r\nb\tc\rd", "a\nb c\nd"},
		{"full width digits", "ＡＢＣ-１２３ ４", "ABC-123 4"},
		{"nbsp", "NOS\u00a010", "NOS 10"},
		{"ruler lines kept", "head\n-----\n=====\nbody", "head\n-----\n=====\nbody"},
		{"blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces", "a   \nb  ", "a\nb"},
		{"keeps zero digits", "qty 05 01", "qty 05 01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDropRulerLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rulers", "head\n-----\n=====\nbody", "head\n\nbody"},
		{"pipes and underscores", "a\n |||| \n____\nb", "a\n\nb"},
		{"short dash kept", "a\n--\nb", "a\n--\nb"},
		{"part number kept", "ABC-123 USA\n---", "ABC-123 USA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DropRulerLines(tt.in); got != tt.want {
				t.Errorf("DropRulerLines(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHeuristicConfidence(t *testing.T) {
	low := heuristicConfidence("")
	high := heuristicConfidence(scanText + " 1,234.56 and some more words to pass the content length threshold of the heuristic")
	if low != 0.2 {
		t.Errorf("heuristicConfidence(\"\") = %v, want 0.2", low)
	}
	if high < 0.89 {
		t.Errorf("heuristicConfidence(table) = %v, want ~0.9", high)
	}
}

func TestToGray(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 1200, 10))
	if g := ToGray(wide); g.Bounds().Dx() != 1200 || g.Bounds().Dy() != 10 {
		t.Errorf("ToGray(wide) bounds = %v", g.Bounds())
	}
	narrow := image.NewRGBA(image.Rect(0, 0, 500, 100))
	if g := ToGray(narrow); g.Bounds().Dx() != MinOCRWidth || g.Bounds().Dy() != 200 {
		t.Errorf("ToGray(narrow) bounds = %v", g.Bounds())
	}
}

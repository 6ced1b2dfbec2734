package extract

import "testing"

func TestCleanNomenclature(t *testing.T) {
	tests := []struct {
		name  string
		words []string
		want  string
	}{
		{name: "reference", words: []string{"Bracket", "123", "Assembly!"}, want: "Bracket Assembly"},
		{name: "empty", words: nil, want: ""},
		{name: "only punctuation", words: []string{"|", "—", "*"}, want: ""},
		{name: "digits only dropped before stripping", words: []string{"12.", "Ring"}, want: "12 Ring"},
		{name: "mixed", words: []string{"Ring", "(Viton)", "M8x1.25"}, want: "Ring Viton M8x125"},
		{name: "unicode letters kept", words: []string{"Débit", "Ø12"}, want: "Débit Ø12"},
		{name: "underscore stripped", words: []string{"SEAL_KIT"}, want: "SEALKIT"},
		{name: "non-ascii digits dropped", words: []string{"١٢", "x_y", "Bolt"}, want: "xy Bolt"},
		{name: "devanagari digits dropped", words: []string{"Nut", "४५"}, want: "Nut"},
		{name: "mixed script digits kept", words: []string{"M١٢x"}, want: "M١٢x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanNomenclature(tt.words); got != tt.want {
				t.Errorf("CleanNomenclature(%q) = %q, want %q", tt.words, got, tt.want)
			}
		})
	}
}

package extract

import (
	"testing"
)

func TestSection(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		greedy bool
		want   string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "no anchors", raw: "Purchase Order 42\nABC-1 USA", want: ""},
		{name: "start only", raw: "Nomenclature\nABC-1 Bolt", want: ""},
		{name: "end only", raw: "ABC-1 Bolt\nAmount", want: ""},
		{name: "end before start", raw: "Amount\nNomenclature", want: ""},
		{
			name: "spans lines",
			raw:  "PO 7\nNomenclature Qty\nABC-1 Bolt 2\nAmount due\nsignature",
			want: "Nomenclature Qty\nABC-1 Bolt 2\nAmount",
		},
		{
			name: "case sensitive start",
			raw:  "nomenclature\nABC-1\nAmount",
			want: "",
		},
		{
			name: "next end anchor",
			raw:  "Nomen Amount\nABC-1 5\nTotal Amount",
			want: "Nomen Amount",
		},
		{
			name:   "greedy end anchor",
			raw:    "Nomen Amount\nABC-1 5\nTotal Amount",
			greedy: true,
			want:   "Nomen Amount\nABC-1 5\nTotal Amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAnchors()
			a.GreedyEnd = tt.greedy
			if got := a.Section(tt.raw); got != tt.want {
				t.Errorf("Section() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileAnchorsRejectsBadPattern(t *testing.T) {
	if _, err := CompileAnchors("(", "Amount", false); err == nil {
		t.Fatal("CompileAnchors() error = nil, want error")
	}
	a, err := CompileAnchors(`Descr`, `Total`, false)
	if err != nil {
		t.Fatalf("CompileAnchors() error = %v", err)
	}
	if got := a.Section("x Description\nA-1\nTotal y"); got != "Description\nA-1\nTotal" {
		t.Errorf("Section() = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	lines := Tokenize("Nomen  Qty\r\n\n  ABC-1\tBolt \rAmount")
	want := [][]string{{"Nomen", "Qty"}, {"ABC-1", "Bolt"}, {"Amount"}}
	if len(lines) != len(want) {
		t.Fatalf("Tokenize() lines = %d, want %d (%q)", len(lines), len(want), lines)
	}
	for i := range want {
		if len(lines[i]) != len(want[i]) {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
		for j := range want[i] {
			if lines[i][j] != want[i][j] {
				t.Errorf("line %d token %d = %q, want %q", i, j, lines[i][j], want[i][j])
			}
		}
	}
	flat := Flatten(lines)
	if len(flat) != 5 || flat[0] != "Nomen" || flat[4] != "Amount" {
		t.Errorf("Flatten() = %q", flat)
	}
	if got := Tokenize(""); got != nil {
		t.Errorf("Tokenize(\"\") = %q, want nil", got)
	}
}

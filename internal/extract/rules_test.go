package extract

import (
	"testing"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

func TestOptionsFromRulesZero(t *testing.T) {
	opts, err := OptionsFromRules(common.Rules{})
	if err != nil {
		t.Fatalf("OptionsFromRules() error = %v", err)
	}
	def := DefaultOptions()
	if opts.String() != def.String() {
		t.Errorf("OptionsFromRules(zero) = %s, want %s", opts, def)
	}
}

func TestOptionsFromRulesOverrides(t *testing.T) {
	opts, err := OptionsFromRules(common.Rules{
		EndAnchor:       `Grand Total`,
		GreedyEnd:       true,
		Sentinel:        "Sum:-",
		DropBareRecords: true,
		Units:           map[string][]string{"PAIR": {"Pr"}},
		Countries:       map[string][]string{"GERMANY": {"DEU"}},
	})
	if err != nil {
		t.Fatalf("OptionsFromRules() error = %v", err)
	}
	if opts.Anchors.Start.String() != DefaultStartAnchor || opts.Anchors.End.String() != "Grand Total" || !opts.Anchors.GreedyEnd {
		t.Errorf("anchors = %s..%s greedy=%t", opts.Anchors.Start, opts.Anchors.End, opts.Anchors.GreedyEnd)
	}
	if opts.Sentinel != "Sum:-" || !opts.DropBareRecords {
		t.Errorf("sentinel = %q drop = %t", opts.Sentinel, opts.DropBareRecords)
	}
	if got, ok := opts.Classifier.Units.Canonicalize("Pr"); !ok || got != "PAIR" {
		t.Errorf("Units.Canonicalize(Pr) = %q, %t", got, ok)
	}
	if got, ok := opts.Classifier.Units.Canonicalize("Nos"); !ok || got != "NOS" {
		t.Errorf("built-in unit lost: %q, %t", got, ok)
	}
	if got, ok := opts.Classifier.Countries.Canonicalize("deu"); !ok || got != "GERMANY" {
		t.Errorf("Countries.Canonicalize(deu) = %q, %t", got, ok)
	}
	if _, ok := constants.Units.Canonicalize("Pr"); ok {
		t.Error("merge mutated the built-in unit table")
	}
}

func TestOptionsFromRulesBadAnchor(t *testing.T) {
	if _, err := OptionsFromRules(common.Rules{StartAnchor: "("}); err == nil {
		t.Error("OptionsFromRules(bad anchor) error = nil")
	}
}

func TestExtractorWithRules(t *testing.T) {
	opts, err := OptionsFromRules(common.Rules{Units: map[string][]string{"PAIR": {"Pr"}}})
	if err != nil {
		t.Fatal(err)
	}
	raw := "Nomenclature\nXYZ-1 KOREA Pr 3 12.00 Gasket\nAmount"
	res := NewExtractor(opts, nil).Items(raw, "PO-3")
	if len(res.Items) != 1 || res.Items[0].Unit == nil || *res.Items[0].Unit != "PAIR" {
		t.Fatalf("Items() = %+v", res.Items)
	}
}

package extract

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

const sampleOCR = `GOVERNMENT PURCHASE ORDER
PO No: 4471/2024
S.No Cart Part No Nomenclature Country A/Unit Qty Rate
1 ABC-123 USA NOS 10 25.50 Bracket Assembly
2 DEF-456 Hose Clamp, 32mm
JAPAN Nos 4 1,234.56
3 GHI-789 OEM SET 2 310.00 Seal Kit (Viton)
Total:- 1,565.06
Amount in words: one thousand five hundred
Signature`

func TestExtractItemsNoAnchors(t *testing.T) {
	for _, raw := range []string{"", "   ", "ABC-123 USA NOS 10 25.50 Bracket", "Amount Nomen"} {
		if got := ExtractItems(raw, "PO-1"); len(got) != 0 {
			t.Errorf("ExtractItems(%q) = %+v, want empty", raw, got)
		}
	}
}

func TestExtractItemsReferenceStream(t *testing.T) {
	raw := "Nomenclature\nABC-123 USA NOS 10 25.50 Bracket Assembly\nDEF-456\nTotal:-\nAmount"
	got := ExtractItems(raw, "PO-9")
	if len(got) != 2 {
		t.Fatalf("ExtractItems() = %d items, want 2: %+v", len(got), got)
	}
	if got[0].CartPartNo != "ABC-123" || got[0].Nomenclature != "Bracket Assembly" {
		t.Errorf("first = %+v", got[0])
	}
	if *got[0].Quantity != 10 || *got[0].Rate != 25.50 || *got[0].CountryOfOrigin != "USA" || *got[0].Unit != "NOS" {
		t.Errorf("first fields = qty %d rate %v country %s unit %s",
			*got[0].Quantity, *got[0].Rate, *got[0].CountryOfOrigin, *got[0].Unit)
	}
	if got[1].CartPartNo != "DEF-456" || !got[1].Bare() {
		t.Errorf("second = %+v, want bare DEF-456", got[1])
	}
}

func TestExtractItemsSampleDocument(t *testing.T) {
	got := ExtractItems(sampleOCR, "4471/2024")
	want := []struct {
		part  string
		qty   int
		rate  float64
		unit  string
		desc  string
		cntry string
	}{
		{part: "ABC-123", qty: 10, rate: 25.50, unit: "NOS", cntry: "USA", desc: "Bracket Assembly"},
		{part: "DEF-456", qty: 4, rate: 1234.56, unit: "NOS", cntry: "JAPAN", desc: "Hose Clamp 32mm"},
		{part: "GHI-789", qty: 2, rate: 310, unit: "SET", cntry: "OEM", desc: "Seal Kit Viton"},
	}
	if len(got) != len(want) {
		t.Fatalf("ExtractItems() = %d items, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		g := got[i]
		if g.CartPartNo != w.part || *g.Quantity != w.qty || *g.Rate != w.rate ||
			*g.Unit != w.unit || *g.CountryOfOrigin != w.cntry || g.Nomenclature != w.desc {
			t.Errorf("item %d = %s qty=%d rate=%v unit=%s country=%s desc=%q, want %+v",
				i, g.CartPartNo, *g.Quantity, *g.Rate, *g.Unit, *g.CountryOfOrigin, g.Nomenclature, w)
		}
	}
}

func TestExtractItemsDeterministic(t *testing.T) {
	a := ExtractItems(sampleOCR, "PO")
	b := ExtractItems(sampleOCR, "PO")
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("two runs differ:\n%+v\n%+v", a, b)
	}
}

func TestExtractorDropBareRecordsPolicy(t *testing.T) {
	raw := "Nomen\nA-1 Bolt\nB-2\nC-3 NOS\nAmount"

	keep := NewExtractor(DefaultOptions(), nil).Items(raw, "PO")
	if len(keep.Items) != 3 {
		t.Fatalf("default policy kept %d items, want 3", len(keep.Items))
	}

	opts := DefaultOptions()
	opts.DropBareRecords = true
	drop := NewExtractor(opts, nil).Items(raw, "PO")
	if len(drop.Items) != 2 {
		t.Fatalf("drop policy kept %d items, want 2", len(drop.Items))
	}
	for _, it := range drop.Items {
		if it.CartPartNo == "B-2" {
			t.Errorf("bare record B-2 retained")
		}
	}
}

func TestExtractorCustomSentinelAndVocabulary(t *testing.T) {
	opts := DefaultOptions()
	opts.Sentinel = "TOTAL-"
	opts.Classifier.Units = constants.Units.Merge(map[string][]string{"PAIR": {"PR", "Pair"}})
	e := NewExtractor(opts, nil)

	res := e.Items("Nomen\nA-1 Pair 2\nTOTAL- 10\nTotal:-\nAmount", "PO")
	if len(res.Items) != 2 {
		t.Fatalf("items = %+v", res.Items)
	}
	if res.Items[0].Unit == nil || *res.Items[0].Unit != "PAIR" {
		t.Errorf("Unit = %v, want PAIR", res.Items[0].Unit)
	}
	if res.Items[1].CartPartNo != "Total:-" {
		t.Errorf("second item = %q, want the default sentinel kept", res.Items[1].CartPartNo)
	}
}

func TestExtractorRunRequiresPONumber(t *testing.T) {
	e := NewExtractor(DefaultOptions(), nil)
	_, err := e.Run(sampleOCR, "  ")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("Run() error = %v, want ErrInvalidInput", err)
	}
	res, err := e.Run(sampleOCR, " 4471 ")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.PONumber != "4471" || len(res.Items) != 3 {
		t.Errorf("Run() = %s with %d items", res.PONumber, len(res.Items))
	}
}

func TestFilterItems(t *testing.T) {
	recs := []ItemRecord{
		{CartPartNo: "A-1"},
		{CartPartNo: "  "},
		{CartPartNo: constants.TotalRowSentinel, Nomenclature: "x"},
		{CartPartNo: "total:-"},
	}
	res := FilterItems(recs, "PO-3")
	if res.PONumber != "PO-3" {
		t.Errorf("PONumber = %q", res.PONumber)
	}
	var parts []string
	for _, it := range res.Items {
		parts = append(parts, it.CartPartNo)
	}
	if strings.Join(parts, ",") != "A-1,total:-" {
		t.Errorf("kept = %v", parts)
	}
}

package extract

import (
	"strings"

	"github.com/joseph-ayodele/po-tracker/constants"
)

// Result is the filtered item list of one purchase order.
type Result struct {
	PONumber string       `json:"po_number"`
	Items    []ItemRecord `json:"items"`
}

// FilterItems drops rows without a part number and the trailing summary row,
// and tags the rest with poNumber.
func FilterItems(records []ItemRecord, poNumber string) Result {
	return filterItems(records, poNumber, constants.TotalRowSentinel, false)
}

func filterItems(records []ItemRecord, poNumber, sentinel string, dropBare bool) Result {
	items := make([]ItemRecord, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.CartPartNo) == "" || r.CartPartNo == sentinel {
			continue
		}
		if dropBare && r.Bare() {
			continue
		}
		items = append(items, r)
	}
	return Result{PONumber: poNumber, Items: items}
}

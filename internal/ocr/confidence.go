package ocr

import (
	"regexp"
)

var (
	reTableHeader = regexp.MustCompile(`Nomen`)
	reTableFooter = regexp.MustCompile(`Amount`)
	rePartNumber  = regexp.MustCompile(`\b[A-Za-z0-9]+-[A-Za-z0-9]+\b`)
	reAmount      = regexp.MustCompile(`\b\d{1,3}(,\d{3})*\.\d{2}\b|\b\d+\.\d{2}\b`)
)

// heuristicConfidence scores how much the text looks like a purchase-order
// table: both column anchors, part numbers and money amounts.
func heuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reTableHeader.MatchString(txt) && reTableFooter.MatchString(txt) {
		score += 0.3
	}
	if rePartNumber.MatchString(txt) {
		score += 0.15
	}
	if reAmount.MatchString(txt) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}

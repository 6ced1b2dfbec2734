package extract

import (
	"fmt"
	"regexp"
)

// Default anchors of the order table: the "Nomenclature" column header opens
// it, the "Amount" column/footer closes it.
const (
	DefaultStartAnchor = `Nomen`
	DefaultEndAnchor   = `Amount`
)

// Anchors bound the table region inside raw OCR text. Both patterns are
// case-sensitive regular expressions.
type Anchors struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
	// GreedyEnd stretches the section to the last End match instead of the
	// first one after Start.
	GreedyEnd bool
}

// DefaultAnchors returns the built-in Nomen…Amount anchors.
func DefaultAnchors() Anchors {
	return Anchors{
		Start: regexp.MustCompile(DefaultStartAnchor),
		End:   regexp.MustCompile(DefaultEndAnchor),
	}
}

// CompileAnchors builds Anchors from pattern strings.
func CompileAnchors(start, end string, greedy bool) (Anchors, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return Anchors{}, fmt.Errorf("compile start anchor %q: %w", start, err)
	}
	e, err := regexp.Compile(end)
	if err != nil {
		return Anchors{}, fmt.Errorf("compile end anchor %q: %w", end, err)
	}
	return Anchors{Start: s, End: e, GreedyEnd: greedy}, nil
}

// Section returns the substring of raw from the first Start match through the
// End match that follows it, both anchors included and line breaks kept.
// It returns "" when either anchor is missing.
func (a Anchors) Section(raw string) string {
	if raw == "" || a.Start == nil || a.End == nil {
		return ""
	}
	loc := a.Start.FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	from := loc[0]
	rest := raw[loc[1]:]

	var end []int
	if a.GreedyEnd {
		all := a.End.FindAllStringIndex(rest, -1)
		if len(all) > 0 {
			end = all[len(all)-1]
		}
	} else {
		end = a.End.FindStringIndex(rest)
	}
	if end == nil {
		return ""
	}
	return raw[from : loc[1]+end[1]]
}

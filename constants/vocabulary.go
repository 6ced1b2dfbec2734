package constants

import (
	"sort"
	"strings"
)

// Vocabulary is a closed set of canonical values, each accepted under one or
// more surface forms. CaseSensitive controls how a token is compared.
type Vocabulary struct {
	Name          string
	CaseSensitive bool
	Entries       []VocabularyEntry
}

// VocabularyEntry maps a canonical value to the spellings OCR produces for it.
type VocabularyEntry struct {
	Canonical string
	Forms     []string
}

// Countries of origin as printed on the order table. Matched case-insensitively.
var Countries = Vocabulary{
	Name:          "country_of_origin",
	CaseSensitive: false,
	Entries: []VocabularyEntry{
		{Canonical: "USA", Forms: []string{"USA", "UNITED STATES"}},
		{Canonical: "PAK", Forms: []string{"PAK"}},
		{Canonical: "ITALY", Forms: []string{"ITALY"}},
		{Canonical: "JAPAN", Forms: []string{"JAPAN"}},
		{Canonical: "OEM", Forms: []string{"OEM"}},
		{Canonical: "GEN", Forms: []string{"GEN"}},
		{Canonical: "CHINA", Forms: []string{"CHINA"}},
		{Canonical: "KOREA", Forms: []string{"KOREA"}},
	},
}

// Units of account. Matched case-sensitively: "Nos" is a unit, "nos" is not.
var Units = Vocabulary{
	Name:          "a_unit",
	CaseSensitive: true,
	Entries: []VocabularyEntry{
		{Canonical: "NOS", Forms: []string{"NOS", "Nos"}},
		{Canonical: "SET", Forms: []string{"SET"}},
	},
}

// TotalRowSentinel is the part-number cell of the trailing summary row.
const TotalRowSentinel = "Total:-"

// Canonicalize returns the canonical value for token, if any form matches.
func (v Vocabulary) Canonicalize(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	for _, e := range v.Entries {
		for _, form := range e.Forms {
			if v.CaseSensitive {
				if token == form {
					return e.Canonical, true
				}
				continue
			}
			if strings.EqualFold(token, form) {
				return e.Canonical, true
			}
		}
	}
	return "", false
}

// Canonicals lists the canonical values in table order.
func (v Vocabulary) Canonicals() []string {
	result := make([]string, len(v.Entries))
	for i, e := range v.Entries {
		result[i] = e.Canonical
	}
	return result
}

// Merge returns a copy of v with extra forms added. New canonical values are
// appended after the built-in ones.
func (v Vocabulary) Merge(extra map[string][]string) Vocabulary {
	out := Vocabulary{Name: v.Name, CaseSensitive: v.CaseSensitive}
	seen := make(map[string]int, len(v.Entries))
	for _, e := range v.Entries {
		seen[e.Canonical] = len(out.Entries)
		out.Entries = append(out.Entries, VocabularyEntry{
			Canonical: e.Canonical,
			Forms:     append([]string(nil), e.Forms...),
		})
	}
	// deterministic order for new canonicals
	var added []string
	for canon := range extra {
		if _, ok := seen[canon]; !ok {
			added = append(added, canon)
		}
	}
	sort.Strings(added)
	for _, canon := range added {
		seen[canon] = len(out.Entries)
		out.Entries = append(out.Entries, VocabularyEntry{Canonical: canon, Forms: []string{canon}})
	}
	for canon, forms := range extra {
		i := seen[canon]
		out.Entries[i].Forms = append(out.Entries[i].Forms, forms...)
	}
	return out
}

package extract

import (
	"regexp"
	"strings"
)

var reLineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// Tokenize splits a table section into lines and each line into
// whitespace-delimited tokens. Lines without tokens are skipped.
func Tokenize(section string) [][]string {
	if section == "" {
		return nil
	}
	var lines [][]string
	for _, ln := range reLineBreak.Split(section, -1) {
		toks := strings.Fields(ln)
		if len(toks) == 0 {
			continue
		}
		lines = append(lines, toks)
	}
	return lines
}

// Flatten concatenates per-line tokens in their original order.
func Flatten(lines [][]string) []string {
	n := 0
	for _, ln := range lines {
		n += len(ln)
	}
	out := make([]string, 0, n)
	for _, ln := range lines {
		out = append(out, ln...)
	}
	return out
}

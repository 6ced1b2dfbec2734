package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules overrides the built-in line-item heuristics. Zero values keep the
// defaults.
type Rules struct {
	StartAnchor     string              `yaml:"start_anchor"`
	EndAnchor       string              `yaml:"end_anchor"`
	GreedyEnd       bool                `yaml:"greedy_end"`
	Sentinel        string              `yaml:"sentinel"`
	DropBareRecords bool                `yaml:"drop_bare_records"`
	Countries       map[string][]string `yaml:"countries"`
	Units           map[string][]string `yaml:"units"`
}

// ParseRules decodes a YAML rules document and checks the anchor patterns.
func ParseRules(data []byte) (Rules, error) {
	var r Rules
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, NewAppError("RULES_ERROR", "decode rules", fmt.Errorf("%w: %v", ErrInvalidInput, err))
	}
	for name, pat := range map[string]string{"start_anchor": r.StartAnchor, "end_anchor": r.EndAnchor} {
		if pat == "" {
			continue
		}
		if _, err := regexp.Compile(pat); err != nil {
			return Rules{}, NewAppError("RULES_ERROR", name+" is not a valid pattern", fmt.Errorf("%w: %v", ErrInvalidInput, err))
		}
	}
	for canon := range r.Units {
		if strings.TrimSpace(canon) == "" {
			return Rules{}, NewAppError("RULES_ERROR", "unit canonical value is empty", ErrInvalidInput)
		}
	}
	for canon := range r.Countries {
		if strings.TrimSpace(canon) == "" {
			return Rules{}, NewAppError("RULES_ERROR", "country canonical value is empty", ErrInvalidInput)
		}
	}
	return r, nil
}

// LoadRules reads a rules file. An empty path yields zero Rules.
func LoadRules(path string) (Rules, error) {
	if strings.TrimSpace(path) == "" {
		return Rules{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules %s: %w", path, err)
	}
	return ParseRules(data)
}

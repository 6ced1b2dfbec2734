package extract

import (
	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// OptionsFromRules layers a rules file over DefaultOptions. Extra vocabulary
// forms extend the built-in tables; they never replace them.
func OptionsFromRules(r common.Rules) (Options, error) {
	opts := DefaultOptions()

	if r.StartAnchor != "" || r.EndAnchor != "" || r.GreedyEnd {
		start, end := r.StartAnchor, r.EndAnchor
		if start == "" {
			start = DefaultStartAnchor
		}
		if end == "" {
			end = DefaultEndAnchor
		}
		anchors, err := CompileAnchors(start, end, r.GreedyEnd)
		if err != nil {
			return Options{}, err
		}
		opts.Anchors = anchors
	}
	if r.Sentinel != "" {
		opts.Sentinel = r.Sentinel
	}
	opts.DropBareRecords = r.DropBareRecords
	if len(r.Countries) > 0 {
		opts.Classifier.Countries = constants.Countries.Merge(r.Countries)
	}
	if len(r.Units) > 0 {
		opts.Classifier.Units = constants.Units.Merge(r.Units)
	}
	return opts, nil
}

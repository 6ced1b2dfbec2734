package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/po-tracker/constants"
	"github.com/joseph-ayodele/po-tracker/internal/common"
)

// Options tune the heuristics. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	Anchors    Anchors
	Classifier Classifier
	Sentinel   string
	// DropBareRecords removes rows that carry only a part number. Off by
	// default: such rows are kept.
	DropBareRecords bool
}

// DefaultOptions returns the built-in anchors, vocabularies and sentinel.
func DefaultOptions() Options {
	return Options{
		Anchors:    DefaultAnchors(),
		Classifier: NewClassifier(),
		Sentinel:   constants.TotalRowSentinel,
	}
}

// Extractor runs the text → items pipeline. It holds read-only settings and
// is safe for concurrent use.
type Extractor struct {
	opts   Options
	logger *slog.Logger
}

func NewExtractor(opts Options, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Anchors.Start == nil || opts.Anchors.End == nil {
		opts.Anchors = DefaultAnchors()
	}
	if opts.Classifier.Countries.Entries == nil {
		opts.Classifier.Countries = constants.Countries
	}
	if opts.Classifier.Units.Entries == nil {
		opts.Classifier.Units = constants.Units
	}
	if opts.Sentinel == "" {
		opts.Sentinel = constants.TotalRowSentinel
	}
	return &Extractor{opts: opts, logger: logger}
}

var defaultExtractor = NewExtractor(DefaultOptions(), nil)

// ExtractItems runs the pipeline with default options. Identical input always
// yields an identical result; text without a recognizable table yields no items.
func ExtractItems(rawText, poNumber string) []ItemRecord {
	return defaultExtractor.Items(rawText, poNumber).Items
}

// Items is the unchecked form of Run.
func (e *Extractor) Items(rawText, poNumber string) Result {
	section := e.opts.Anchors.Section(rawText)
	if section == "" {
		e.logger.Debug("extract.section.missing", "po_number", poNumber, "text_bytes", len(rawText))
		return Result{PONumber: poNumber, Items: []ItemRecord{}}
	}

	asm := NewAssembler(e.opts.Classifier)
	for _, tok := range Flatten(Tokenize(section)) {
		asm.Feed(tok)
	}
	records, stats := asm.Finish()

	res := filterItems(records, poNumber, e.opts.Sentinel, e.opts.DropBareRecords)
	e.logger.Debug("extract.items.ok",
		"po_number", poNumber,
		"section_bytes", len(section),
		"tokens", stats.Tokens,
		"discarded", stats.Discarded,
		"records", stats.Records,
		"items", len(res.Items),
	)
	return res
}

// Run validates the purchase-order number and extracts its items.
func (e *Extractor) Run(rawText, poNumber string) (Result, error) {
	if strings.TrimSpace(poNumber) == "" {
		return Result{}, common.NewAppError("EXTRACT_ERROR", "po_number is required", common.ErrInvalidInput)
	}
	return e.Items(rawText, strings.TrimSpace(poNumber)), nil
}

// Options returns a copy of the extractor settings.
func (e *Extractor) Options() Options { return e.opts }

func (o Options) String() string {
	return fmt.Sprintf("anchors=%s..%s greedy=%t sentinel=%q drop_bare=%t",
		o.Anchors.Start, o.Anchors.End, o.Anchors.GreedyEnd, o.Sentinel, o.DropBareRecords)
}

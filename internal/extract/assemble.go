package extract

// AssembleStats counts what happened to the token stream.
type AssembleStats struct {
	Tokens    int
	Records   int
	Discarded int // tokens seen before the first part number
}

// Assembler groups classified tokens into rows. A part-number token closes
// the open row and opens the next one; everything else lands on the open row.
type Assembler struct {
	classifier Classifier
	open       *partialRecord
	out        []ItemRecord
	stats      AssembleStats
}

// NewAssembler returns an assembler with no open row.
func NewAssembler(c Classifier) *Assembler {
	return &Assembler{classifier: c}
}

// Feed classifies token against the open row and applies it.
func (a *Assembler) Feed(token string) {
	a.stats.Tokens++
	c := a.classifier.Classify(token, a.open != nil && a.open.quantity != nil)
	a.Apply(c)
}

// Apply transitions on an already classified token.
func (a *Assembler) Apply(c Classified) {
	if c.Kind == KindPartNumberStart {
		a.flush()
		a.open = &partialRecord{partNumber: c.Text}
		return
	}
	if a.open == nil {
		a.stats.Discarded++
		return
	}
	a.open.set(c)
}

// Finish closes the open row, if any, and returns every finalized record.
// The assembler is reset afterwards.
func (a *Assembler) Finish() ([]ItemRecord, AssembleStats) {
	a.flush()
	out, stats := a.out, a.stats
	a.out, a.stats = nil, AssembleStats{}
	return out, stats
}

func (a *Assembler) flush() {
	if a.open == nil {
		return
	}
	a.out = append(a.out, a.open.finalize())
	a.stats.Records++
	a.open = nil
}

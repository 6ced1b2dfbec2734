package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/po-tracker/constants"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	text, pages, err := pdfTextLayer(path)
	if err == nil && len(strings.Join(strings.Fields(text), "")) >= e.cfg.MinTextLayer {
		txt := e.normalize(text)
		return ExtractionResult{
			Text:       txt,
			Pages:      pages,
			SourceType: constants.PDF,
			Method:     "pdf-text",
			Confidence: heuristicConfidence(txt),
		}, nil
	}
	var warns []string
	if err != nil {
		warns = append(warns, fmt.Sprintf("pdf text layer: %v", err))
	}
	e.logger.Debug("ocr.pdf.rasterize", "path", path, "dpi", e.cfg.DPI)

	text, pages, w, conf, err := e.pdfToOCR(ctx, path)
	warns = append(warns, w...)
	if err != nil {
		return ExtractionResult{SourceType: constants.PDF, Warnings: warns}, err
	}
	txt := e.normalize(text)
	return ExtractionResult{
		Text:       txt,
		Pages:      pages,
		SourceType: constants.PDF,
		Method:     "pdf-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: blendConfidence(conf, heuristicConfidence(txt)),
	}, nil
}

// pdfTextLayer reads the embedded text of a digital PDF, one form feed
// between pages.
func pdfTextLayer(path string) (string, int, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	total := r.NumPage()
	var b strings.Builder
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		s, err := p.GetPlainText(nil)
		if err != nil {
			return "", 0, fmt.Errorf("page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(s)
	}
	return b.String(), total, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, conf float32, err error) {
	tmpDir, err := os.MkdirTemp("", "po-pp-*")
	if err != nil {
		return "", 0, nil, 0, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, nonEmpty(string(errb)), 0, fmt.Errorf("pdftoppm: %w", err)
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, 0, fmt.Errorf("no pages rendered")
	}

	var (
		b       strings.Builder
		sum     float32
		counted int
	)
	for _, img := range matches {
		rec, err := e.engine.Recognize(ctx, img)
		warnings = append(warnings, rec.Warnings...)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n") // keep a clear page break marker
		}
		b.WriteString(rec.Text)
		if rec.Confidence > 0 {
			sum += rec.Confidence
			counted++
		}
	}
	if counted > 0 {
		conf = sum / float32(counted)
	}
	return b.String(), len(matches), warnings, conf, nil
}

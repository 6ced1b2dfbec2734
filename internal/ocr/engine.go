package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Recognition is what an engine read from one image.
type Recognition struct {
	Text       string
	Confidence float32 // mean word confidence 0..1, 0 when unknown
	Warnings   []string
}

// Engine turns one image file into text.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (Recognition, error)
}

// NewEngine picks the engine named by cfg.Engine.
func NewEngine(cfg Config, r Runner) (Engine, error) {
	switch cfg.Engine {
	case "", "tesseract":
		return NewTesseractCLI(cfg, r), nil
	case "gosseract":
		return newGosseractEngine(cfg)
	default:
		return nil, fmt.Errorf("unknown ocr engine %q", cfg.Engine)
	}
}

// TesseractCLI shells out to the tesseract binary.
type TesseractCLI struct {
	cfg    Config
	runner Runner
}

// NewTesseractCLI fills in the binary name and language when cfg leaves them empty.
func NewTesseractCLI(cfg Config, r Runner) *TesseractCLI {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &TesseractCLI{cfg: cfg, runner: r}
}

func (t *TesseractCLI) Name() string { return "tesseract" }

func (t *TesseractCLI) Recognize(ctx context.Context, path string) (Recognition, error) {
	// tesseract <file> stdout -l <lang> [--psm N] [--oem N]
	out, errb, err := t.runner.Run(ctx, t.cfg.Tesseract, t.args(path)...)
	if err != nil {
		return Recognition{Warnings: nonEmpty(string(errb))}, fmt.Errorf("tesseract: %w", err)
	}
	rec := Recognition{Text: string(out)}
	if t.cfg.EnableTSVConfidence {
		conf, err := t.tsvConfidence(ctx, path)
		if err != nil {
			rec.Warnings = append(rec.Warnings, err.Error())
		}
		rec.Confidence = conf
	}
	return rec, nil
}

func (t *TesseractCLI) args(path string) []string {
	args := []string{path, "stdout", "-l", t.cfg.TesseractLang}
	if t.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(t.cfg.PSM))
	}
	if t.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(t.cfg.OEM))
	}
	if t.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", t.cfg.TessdataDir)
	}
	return args
}

// tsvConfidence runs tesseract in TSV mode and returns mean word conf in 0..1.
func (t *TesseractCLI) tsvConfidence(ctx context.Context, path string) (float32, error) {
	out, _, err := t.runner.Run(ctx, t.cfg.Tesseract, append(t.args(path), "tsv")...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}
	return meanTSVConfidence(string(out)), nil
}

// conf column is the last; header line includes "conf"
func meanTSVConfidence(tsv string) float32 {
	var sum, n float64
	for i, ln := range strings.Split(tsv, "\n") {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := strings.TrimSpace(cols[len(cols)-2])
		if strings.TrimSpace(cols[len(cols)-1]) == "" || confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return float32(sum / n / 100.0)
}

func nonEmpty(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return []string{s}
}

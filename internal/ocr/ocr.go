package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/po-tracker/constants"
)

type Config struct {
	Engine    string // "tesseract" (CLI, default) | "gosseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	HeicConverter       string
	EnableTSVConfidence bool
	Grayscale           bool // convert images to upscaled grayscale PNG before OCR

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	ArtifactCacheDir string

	// DropRulerLines removes table ruler lines from the recognised text.
	DropRulerLines bool

	// MinTextLayer is the number of non-space bytes a PDF text layer must hold
	// before rasterizing is skipped. Default 16.
	MinTextLayer int
}

type ExtractionResult struct {
	Text       string
	Pages      int
	SourceType string // constants.PDF | constants.IMAGE | constants.TXT
	Method     string // "pdf-text" | "pdf-ocr" | "image-ocr" | "plain-text"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	engine Engine
	logger *slog.Logger
}

type Option func(*Extractor)

// WithRunner replaces the exec runner used for pdftoppm, HEIC converters and
// the tesseract CLI.
func WithRunner(r Runner) Option { return func(e *Extractor) { e.runner = r } }

// WithEngine replaces the recognition engine chosen from Config.Engine.
func WithEngine(en Engine) Option { return func(e *Extractor) { e.engine = en } }

func NewExtractor(cfg Config, logger *slog.Logger, opts ...Option) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.MinTextLayer <= 0 {
		cfg.MinTextLayer = 16
	}
	e := &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
	for _, o := range opts {
		o(e)
	}
	if e.engine == nil {
		en, err := NewEngine(cfg, e.runner)
		if err != nil {
			return nil, err
		}
		e.engine = en
	}
	return e, nil
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.extract.start", "path", path, "ext", ext, "engine", e.engine.Name())

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.IMAGE:
		res, err = e.extractImageFile(ctx, path, ext)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	e.logger.Debug("ocr.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"text_bytes", len(res.Text),
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (e *Extractor) extractImageFile(ctx context.Context, path, ext string) (ExtractionResult, error) {
	var warns []string
	if constants.IsHEICExt(ext) {
		hashHex, _ := contentHashFromCtx(ctx)
		out, w, cleanup, err := convertHEICtoPNG(ctx, e.runner, e.logger, e.cfg.HeicConverter, path, e.cfg.ArtifactCacheDir, hashHex)
		warns = append(warns, w...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			return ExtractionResult{SourceType: constants.IMAGE, Warnings: warns}, err
		}
		path = out
	}
	res, err := e.extractImage(ctx, path)
	res.Warnings = append(warns, res.Warnings...)
	return res, err
}

func (e *Extractor) extractImage(ctx context.Context, path string) (ExtractionResult, error) {
	var warns []string
	if e.cfg.Grayscale {
		tmpDir, err := os.MkdirTemp("", "po-gray-*")
		if err != nil {
			return ExtractionResult{SourceType: constants.IMAGE}, err
		}
		defer func() { _ = os.RemoveAll(tmpDir) }()
		gray, err := PrepareImage(path, filepath.Join(tmpDir, "gray.png"))
		if err != nil {
			// the engine may still read formats we cannot decode
			warns = append(warns, fmt.Sprintf("grayscale skipped: %v", err))
		} else {
			path = gray
		}
	}

	rec, err := e.engine.Recognize(ctx, path)
	warns = append(warns, rec.Warnings...)
	if err != nil {
		return ExtractionResult{SourceType: constants.IMAGE, Warnings: warns}, err
	}
	txt := e.normalize(rec.Text)
	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.IMAGE,
		Method:     "image-ocr",
		Language:   e.cfg.TesseractLang,
		Warnings:   warns,
		Confidence: blendConfidence(rec.Confidence, heuristicConfidence(txt)),
	}, nil
}

func (e *Extractor) normalize(s string) string {
	s = Normalize(s)
	if e.cfg.DropRulerLines {
		s = DropRulerLines(s)
	}
	return s
}

func (e *Extractor) extractPlain(path string) (ExtractionResult, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{SourceType: constants.TXT}, fmt.Errorf("read text: %w", err)
	}
	txt := e.normalize(string(b))
	return ExtractionResult{
		Text:       txt,
		Pages:      1,
		SourceType: constants.TXT,
		Method:     "plain-text",
		Confidence: heuristicConfidence(txt),
	}, nil
}

// blend: weight engine confidence higher if present
func blendConfidence(engineConf, heurConf float32) float32 {
	conf := heurConf
	if engineConf > 0 {
		conf = 0.7*engineConf + 0.3*heurConf
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return conf
}

//go:build gosseract

package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// GosseractEngine runs Tesseract in-process through its C API.
type GosseractEngine struct {
	cfg Config
}

func newGosseractEngine(cfg Config) (Engine, error) {
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	return &GosseractEngine{cfg: cfg}, nil
}

func (g *GosseractEngine) Name() string { return "gosseract" }

func (g *GosseractEngine) Recognize(ctx context.Context, path string) (Recognition, error) {
	if err := ctx.Err(); err != nil {
		return Recognition{}, err
	}
	c := gosseract.NewClient()
	defer c.Close()

	if g.cfg.TessdataDir != "" {
		if err := c.SetTessdataPrefix(g.cfg.TessdataDir); err != nil {
			return Recognition{}, fmt.Errorf("set tessdata: %w", err)
		}
	}
	if err := c.SetLanguage(g.cfg.TesseractLang); err != nil {
		return Recognition{}, fmt.Errorf("set language: %w", err)
	}
	if g.cfg.PSM > 0 {
		if err := c.SetPageSegMode(gosseract.PageSegMode(g.cfg.PSM)); err != nil {
			return Recognition{}, fmt.Errorf("set psm: %w", err)
		}
	}
	if g.cfg.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(g.cfg.DPI)); err != nil {
			return Recognition{}, fmt.Errorf("set dpi: %w", err)
		}
	}
	if err := c.SetImage(path); err != nil {
		return Recognition{}, fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return Recognition{}, fmt.Errorf("recognize text: %w", err)
	}

	rec := Recognition{Text: text}
	if boxes, err := c.GetBoundingBoxes(gosseract.RIL_WORD); err == nil && len(boxes) > 0 {
		var sum float64
		for _, b := range boxes {
			sum += b.Confidence
		}
		rec.Confidence = float32(sum / float64(len(boxes)) / 100.0)
	}
	return rec, nil
}

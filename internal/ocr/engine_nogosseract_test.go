//go:build !gosseract

package ocr

import "testing"

func TestGosseractNeedsBuildTag(t *testing.T) {
	if _, err := NewEngine(Config{Engine: "gosseract"}, nil); err == nil {
		t.Error("NewEngine(gosseract) error = nil without the build tag")
	}
}

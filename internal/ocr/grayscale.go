package ocr

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

// MinOCRWidth is the width below which scans are upscaled before OCR.
const MinOCRWidth = 1000

// PrepareImage decodes a PNG, JPEG, TIFF or BMP scan, converts it to 8-bit
// grayscale, upscales narrow images to MinOCRWidth and writes a PNG to out.
func PrepareImage(in, out string) (string, error) {
	f, err := os.Open(in)
	if err != nil {
		return "", err
	}
	src, format, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", in, err)
	}

	gray := ToGray(src)

	dst, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if err := png.Encode(dst, gray); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("encode %s as png: %w", format, err)
	}
	return out, dst.Close()
}

// ToGray returns a grayscale copy of src, scaled up with Catmull-Rom when it
// is narrower than MinOCRWidth.
func ToGray(src image.Image) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > 0 && w < MinOCRWidth {
		h = h * MinOCRWidth / w
		w = MinOCRWidth
	}
	gray := image.NewGray(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(gray, gray.Bounds(), src, b.Min, draw.Src)
		return gray
	}
	draw.CatmullRom.Scale(gray, gray.Bounds(), src, b, draw.Src, nil)
	return gray
}

package ingest

import (
	"image"
	"image/color"
	"testing"
)

func TestToUnitFloatWhiteImageIsOne(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	out := ToUnitFloat(img)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if v := out.Get(x, y); v != 1 {
				t.Errorf("pixel (%d,%d) = %v, want 1", x, y, v)
			}
		}
	}
}

func TestToUnitFloatBlackImageIsZero(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, color.Black)
		}
	}
	out := ToUnitFloat(img)
	for _, v := range out.Pix() {
		if v != 0 {
			t.Errorf("expected 0, got %v", v)
		}
	}
}

func TestToUnitFloatDimensionsMatch(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 7, 5))
	out := ToUnitFloat(img)
	if out.Width() != 7 || out.Height() != 5 {
		t.Errorf("dims = %dx%d, want 7x5", out.Width(), out.Height())
	}
}

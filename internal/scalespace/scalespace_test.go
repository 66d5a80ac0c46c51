package scalespace

import (
	"testing"

	"github.com/openakaze/akaze/internal/akimage"
	"github.com/openakaze/akaze/internal/model"
)

func uniformImage(w, h int, v float32) *akimage.Image {
	img := akimage.New(w, h)
	for i := range img.Pix() {
		img.Pix()[i] = v
	}
	return img
}

func TestBuildDimensionsHalveAcrossOctaves(t *testing.T) {
	cfg := model.DefaultConfig()
	img := uniformImage(320, 160, 0.5)
	evolutions := Build(img, cfg)
	if len(evolutions) == 0 {
		t.Fatal("expected evolutions")
	}
	for i := 1; i < len(evolutions); i++ {
		prev, cur := evolutions[i-1], evolutions[i]
		if cur.Octave > prev.Octave {
			if cur.Width() != prev.Width()/2 || cur.Height() != prev.Height()/2 {
				t.Errorf("evolution %d: dims not halved: %dx%d vs %dx%d", i, cur.Width(), cur.Height(), prev.Width(), prev.Height())
			}
		} else if cur.Width() != prev.Width() || cur.Height() != prev.Height() {
			t.Errorf("evolution %d: dims changed within octave", i)
		}
	}
}

func TestBuildScaleMonotonic(t *testing.T) {
	cfg := model.DefaultConfig()
	img := uniformImage(320, 160, 0.5)
	evolutions := Build(img, cfg)
	for i := 1; i < len(evolutions); i++ {
		if evolutions[i].Sigma < evolutions[i-1].Sigma {
			t.Errorf("scale decreased at %d: %v -> %v", i, evolutions[i-1].Sigma, evolutions[i].Sigma)
		}
	}
}

func TestDetectorResponseDegenerateImageIsZero(t *testing.T) {
	cfg := model.DefaultConfig()
	img := uniformImage(80, 40, 0.5)
	evolutions := Build(img, cfg)
	DetectorResponse(evolutions, cfg)
	for _, e := range evolutions {
		for y := 0; y < e.Height(); y++ {
			for x := 0; x < e.Width(); x++ {
				if e.Ldet.Get(x, y) != 0 {
					t.Fatalf("expected zero Ldet on uniform image at evolution octave=%d sub=%d (%d,%d)=%v", e.Octave, e.Sublevel, x, y, e.Ldet.Get(x, y))
				}
			}
		}
	}
}

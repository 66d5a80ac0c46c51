package contrast

import (
	"testing"

	"github.com/openakaze/akaze/internal/akimage"
)

func TestFactorUniformImageReturnsFallback(t *testing.T) {
	img := akimage.New(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Put(x, y, 0.5)
		}
	}
	k := Factor(img, 0.7, 300)
	if k != Fallback {
		t.Errorf("Factor(uniform) = %v, want fallback %v", k, Fallback)
	}
}

func TestFactorNonNegative(t *testing.T) {
	img := akimage.New(64, 64)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if x > 32 {
				img.Put(x, y, 1)
			}
		}
	}
	k := Factor(img, 0.7, 300)
	if k < 0 {
		t.Errorf("Factor returned negative k: %v", k)
	}
}

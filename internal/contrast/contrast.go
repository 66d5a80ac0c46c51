// Package contrast computes the Perona-Malik conductivity parameter k
// from the gradient-magnitude histogram of the base smoothed image.
package contrast

import (
	"math"

	"github.com/openakaze/akaze/internal/akimage"
)

// Fallback is returned when the requested percentile is never reached in
// the histogram.
const Fallback = 0.03

// Factor computes k over the gradient magnitude of smoothed, using
// numBins uniform histogram bins and returning the smallest magnitude
// below which at least percentile of the non-zero gradient mass lies.
func Factor(smoothed *akimage.Image, percentile float64, numBins int) float64 {
	lx := akimage.Scharr(smoothed, true, false, 1)
	ly := akimage.Scharr(smoothed, false, true, 1)

	w, h := smoothed.Width(), smoothed.Height()

	var hmax float32
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := gradMag(lx, ly, x, y)
			if m > hmax {
				hmax = m
			}
		}
	}
	if hmax == 0 {
		return Fallback
	}

	histogram := make([]int, numBins)
	var numPoints int
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			m := gradMag(lx, ly, x, y)
			if m == 0 {
				continue
			}
			bin := int(float64(numBins) * float64(m) / float64(hmax))
			if bin >= numBins {
				bin = numBins - 1
			}
			histogram[bin]++
			numPoints++
		}
	}

	threshold := int(float64(numPoints) * percentile)
	var k, accumulated int
	for k = 0; accumulated < threshold && k < numBins; k++ {
		accumulated += histogram[k]
	}
	if accumulated < threshold {
		return Fallback
	}
	return float64(hmax) * float64(k) / float64(numBins)
}

func gradMag(lx, ly *akimage.Image, x, y int) float32 {
	a, b := lx.Get(x, y), ly.Get(x, y)
	return float32(math.Sqrt(float64(a*a + b*b)))
}

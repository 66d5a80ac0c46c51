// Package descriptor builds the M-LDB binary descriptor for each keypoint:
// a rotated multi-resolution grid of cell-mean comparisons packed into a
// fixed-length byte array.
package descriptor

import (
	"math"

	"github.com/openakaze/akaze/internal/model"
)

// gridDims and cellSizeFactor give the three sampling resolutions: grid
// dimension (lvl+2) per side and the cell size multiplier applied to
// descriptor_pattern_size.
var gridDims = [3]int{2, 3, 4}
var cellSizeFactor = [3]float64{1.0, 2.0 / 3.0, 1.0 / 2.0}

// Extract computes one M-LDB descriptor per keypoint. Evolutions must
// have Lt, Lx and Ly filled (the detector-response stage's own-scale
// derivatives are reused for the magnitude/rotated-gradient channels).
func Extract(evolutions []*model.Evolution, keypoints []model.Keypoint, cfg model.Config) []model.Descriptor {
	out := make([]model.Descriptor, len(keypoints))
	byteLen := model.DescriptorByteLength(cfg.DescriptorChannels)
	for i, kp := range keypoints {
		out[i] = model.Descriptor{Bits: extractOne(evolutions, kp, cfg, byteLen)}
	}
	return out
}

func extractOne(evolutions []*model.Evolution, kp model.Keypoint, cfg model.Config, byteLen int) []byte {
	e := evolutions[kp.ClassID]
	ratio := pow2(e.Octave)
	s := math.Round(kp.Size / ratio)
	if s < 1 {
		s = 1
	}

	ox := (kp.X - 0.5*(ratio-1)) / ratio
	oy := (kp.Y - 0.5*(ratio-1)) / ratio

	sinT, cosT := math.Sincos(kp.Angle)

	bits := make([]byte, byteLen)
	dpos := 0

	for lvl := 0; lvl < 3; lvl++ {
		n := gridDims[lvl]
		cellStep := cellSizeFactor[lvl] * cfg.DescriptorPatternSize * s / float64(n)
		cellRadius := int(math.Round(cellStep / 2))
		if cellRadius < 1 {
			cellRadius = 1
		}

		numCells := n * n
		channelValues := make([][]float64, cfg.DescriptorChannels)
		for c := range channelValues {
			channelValues[c] = make([]float64, numCells)
		}

		for cy := 0; cy < n; cy++ {
			for cx := 0; cx < n; cx++ {
				idx := cy*n + cx
				lx := (float64(cx) - float64(n-1)/2) * cellStep
				ly := (float64(cy) - float64(n-1)/2) * cellStep
				rx := lx*cosT - ly*sinT
				ry := lx*sinT + ly*cosT
				px := ox + rx
				py := oy + ry

				intensity, mag, rrx, rry := cellMeans(e, px, py, cellRadius, sinT, cosT)

				channelValues[0][idx] = intensity
				if cfg.DescriptorChannels >= 2 {
					if cfg.DescriptorChannels == 3 {
						channelValues[1][idx] = rrx
						channelValues[2][idx] = rry
					} else {
						channelValues[1][idx] = mag
					}
				}
			}
		}

		for c := 0; c < cfg.DescriptorChannels; c++ {
			for i := 0; i < numCells; i++ {
				for j := i + 1; j < numCells; j++ {
					if channelValues[c][i] > channelValues[c][j] {
						setBit(bits, dpos)
					}
					dpos++
				}
			}
		}
	}

	return bits
}

// cellMeans averages Lt (always), the gradient magnitude and the
// rotated-derivative pair over a square window of the given radius
// centred at (px,py) in the evolution's own octave-space pixel grid.
// Samples outside image bounds are skipped.
func cellMeans(e *model.Evolution, px, py float64, radius int, sinT, cosT float64) (intensity, mag, rrx, rry float64) {
	cx, cy := int(math.Round(px)), int(math.Round(py))
	w, h := e.Width(), e.Height()

	var sumI, sumM, sumRX, sumRY float64
	var count int
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= w || y < 0 || y >= h {
				continue
			}
			lt := float64(e.Lt.Get(x, y))
			lxv := float64(e.Lx.Get(x, y))
			lyv := float64(e.Ly.Get(x, y))

			sumI += lt
			sumM += math.Sqrt(lxv*lxv + lyv*lyv)
			sumRX += -lxv*sinT + lyv*cosT
			sumRY += lxv*cosT + lyv*sinT
			count++
		}
	}
	if count == 0 {
		return 0, 0, 0, 0
	}
	n := float64(count)
	return sumI / n, sumM / n, sumRX / n, sumRY / n
}

func setBit(bits []byte, pos int) {
	bits[pos/8] |= 1 << uint(pos%8)
}

func pow2(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 2
	}
	return r
}

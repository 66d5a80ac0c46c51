// Package keypoint finds scale-space extrema in the detector response,
// applies cross-scale non-maximum suppression, refines surviving
// candidates to sub-pixel precision and assigns each an orientation.
package keypoint

import (
	"log/slog"
	"math"

	"github.com/openakaze/akaze/internal/model"
)

// smax is the descriptor sample window half-width in units of sigma,
// used to reject candidates whose sample window would fall outside the
// octave image.
const smax = 10.0 * math.Sqrt2

// candidate is an extremum still carrying its octave-space coordinates,
// used internally during the NMS pass before mapping to original-image
// coordinates.
type candidate struct {
	model.Keypoint
	octaveX, octaveY float64
}

// FindExtrema scans every evolution's Ldet for local extrema, applies
// cross-scale NMS across the flat cache and returns keypoints in
// original-image coordinates. Evolutions must already have Ldet filled
// by the detector response stage.
func FindExtrema(evolutions []*model.Evolution, cfg model.Config) []model.Keypoint {
	var cache []candidate

	for classID, e := range evolutions {
		w, h := e.Width(), e.Height()
		ratio := pow2(e.Octave)
		sigmaSize := math.Round(e.Sigma * cfg.DerivativeFactor / ratio)

		for y := 1; y < h-1; y++ {
			for x := 1; x < w-1; x++ {
				v := e.Ldet.Get(x, y)
				av := float32(math.Abs(float64(v)))
				if float64(av) <= cfg.DetectorThreshold {
					continue
				}
				if av <= abs32(e.Ldet.Get(x-1, y)) || av <= abs32(e.Ldet.Get(x+1, y)) ||
					av <= abs32(e.Ldet.Get(x, y-1)) || av <= abs32(e.Ldet.Get(x, y+1)) {
					continue
				}

				size := e.Sigma * cfg.DerivativeFactor
				cand := candidate{
					Keypoint: model.Keypoint{
						Response: float64(av),
						Size:     size,
						Octave:   e.Octave,
						ClassID:  classID,
					},
					octaveX: float64(x),
					octaveY: float64(y),
				}

				repeatedAt, isRepeated, isExtremum := compareWithCache(cache, cand, ratio)
				if !isExtremum {
					continue
				}

				left := math.Round(cand.octaveX-smax*sigmaSize) - 1
				right := math.Round(cand.octaveX+smax*sigmaSize) + 1
				up := math.Round(cand.octaveY-smax*sigmaSize) - 1
				down := math.Round(cand.octaveY+smax*sigmaSize) + 1
				if left < 0 || right >= float64(w) || up < 0 || down >= float64(h) {
					continue
				}

				cand.X = cand.octaveX*ratio + 0.5*(ratio-1)
				cand.Y = cand.octaveY*ratio + 0.5*(ratio-1)

				if isRepeated {
					cache[repeatedAt] = cand
				} else {
					cache = append(cache, cand)
				}
			}
		}
	}

	out := dropCoarserDuplicates(cache)
	slog.Debug("extracted scale space extrema", "count", len(out))
	return out
}

// compareWithCache looks for a prior cache entry in the same or
// immediately-lower class whose original-coordinate distance to cand is
// within cand's size. Returns (index, isRepeated, isExtremum): isExtremum
// is false when a stronger neighbour already occupies that position.
func compareWithCache(cache []candidate, cand candidate, ratio float64) (int, bool, bool) {
	for i, prev := range cache {
		if cand.ClassID != prev.ClassID && cand.ClassID-1 != prev.ClassID {
			continue
		}
		dx := cand.octaveX*ratio - prev.X
		dy := cand.octaveY*ratio - prev.Y
		dist := dx*dx + dy*dy
		if dist <= cand.Size*cand.Size {
			if cand.Response > prev.Response {
				return i, true, true
			}
			return 0, false, false
		}
	}
	return 0, false, true
}

// dropCoarserDuplicates removes any keypoint whose next-coarser-scale
// counterpart (class_id+1) sits within its size radius, keeping only the
// coarser scale's replica when the finer one is redundant.
func dropCoarserDuplicates(cache []candidate) []model.Keypoint {
	out := make([]model.Keypoint, 0, len(cache))
	for i, ci := range cache {
		repeated := false
		for j := i; j < len(cache); j++ {
			cj := cache[j]
			if ci.ClassID+1 != cj.ClassID {
				continue
			}
			dx := ci.X - cj.X
			dy := ci.Y - cj.Y
			if dx*dx+dy*dy <= ci.Size*ci.Size {
				repeated = true
				break
			}
		}
		if !repeated {
			out = append(out, ci.Keypoint)
		}
	}
	return out
}

func pow2(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 2
	}
	return r
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

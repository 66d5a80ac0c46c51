package keypoint

import (
	"math"

	"github.com/openakaze/akaze/internal/model"
)

// orientationGaussianSigma is the standard deviation of the circular
// sample weighting window; the reference implementation tabulates a
// precomputed 7x7 lookup for this same weighting, reproduced here
// analytically since no such table survived in the distilled sources.
const orientationGaussianSigma = 2.5

// windowWidth and windowStep define the sliding angular window used to
// find the dominant gradient direction.
const windowWidth = math.Pi / 3
const windowStep = 0.15

// AssignOrientations computes an orientation angle for each keypoint from
// the gradient samples of its own evolution, over index offsets (i,j)
// with i^2+j^2 < 36 sampled at stride s = round(size/ratio).
func AssignOrientations(evolutions []*model.Evolution, keypoints []model.Keypoint) []model.Keypoint {
	out := make([]model.Keypoint, len(keypoints))
	for i, kp := range keypoints {
		out[i] = kp
		out[i].Angle = assignOne(evolutions, kp)
	}
	return out
}

func assignOne(evolutions []*model.Evolution, kp model.Keypoint) float64 {
	e := evolutions[kp.ClassID]
	ratio := pow2(e.Octave)
	s := math.Round(kp.Size / ratio)

	ox := int(math.Round((kp.X - 0.5*(ratio-1)) / ratio))
	oy := int(math.Round((kp.Y - 0.5*(ratio-1)) / ratio))

	type sample struct {
		x, y, angle float64
	}
	var samples []sample

	const rmax = 6
	for j := -rmax; j <= rmax; j++ {
		for i := -rmax; i <= rmax; i++ {
			if float64(i*i+j*j) >= 36 {
				continue
			}
			px, py := ox+int(float64(i)*s), oy+int(float64(j)*s)
			if px < 0 || px >= e.Width() || py < 0 || py >= e.Height() {
				continue
			}
			w := gaussianWeight(float64(i), float64(j))
			lx := float64(e.Lx.Get(px, py)) * w
			ly := float64(e.Ly.Get(px, py)) * w
			samples = append(samples, sample{x: lx, y: ly, angle: math.Atan2(ly, lx)})
		}
	}

	if len(samples) == 0 {
		return 0
	}

	var bestSumX, bestSumY, bestMag float64
	for start := 0.0; start < 2*math.Pi; start += windowStep {
		var sumX, sumY float64
		for _, sm := range samples {
			a := sm.angle
			if a < 0 {
				a += 2 * math.Pi
			}
			diff := a - start
			for diff < 0 {
				diff += 2 * math.Pi
			}
			for diff >= 2*math.Pi {
				diff -= 2 * math.Pi
			}
			if diff <= windowWidth {
				sumX += sm.x
				sumY += sm.y
			}
		}
		mag := sumX*sumX + sumY*sumY
		if mag > bestMag {
			bestMag = mag
			bestSumX = sumX
			bestSumY = sumY
		}
	}

	return math.Atan2(bestSumX, bestSumY) * math.Pi / 180
}

func gaussianWeight(i, j float64) float64 {
	s := orientationGaussianSigma
	return math.Exp(-(i*i + j*j) / (2 * s * s))
}

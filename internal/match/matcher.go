// Package match implements brute-force Hamming nearest-neighbour matching
// with Lowe's ratio test and RANSAC fundamental-matrix geometric
// verification.
package match

import (
	"math/bits"

	"github.com/openakaze/akaze/internal/model"
)

// DistanceThreshold caps the raw Hamming distance accepted before Lowe's
// ratio is even considered, matching the reference matcher's default.
const DistanceThreshold = 10000

// BruteForce matches every descriptor in set 0 against set 1 using the
// Hamming distance with an early-exit bound, accepting a match only when
// the best distance beats the second-best by lowesRatio (squared, since
// Hamming distance behaves like a squared L2 norm on binary vectors) and
// stays under DistanceThreshold. Matches are emitted in encounter order
// of set 0; there is no reverse-direction cross-check.
func BruteForce(d0, d1 []model.Descriptor, lowesRatio float64) []model.Match {
	var output []model.Match
	ratio2 := lowesRatio * lowesRatio

	for i, a := range d0 {
		minDistance := DistanceThreshold
		secondMin := minDistance
		minJ := 0

		for j, b := range d1 {
			d := hammingDistance(a.Bits, b.Bits, secondMin)
			if d < minDistance {
				secondMin = minDistance
				minDistance = d
				minJ = j
			} else if d < secondMin {
				secondMin = d
			}
		}

		if float64(minDistance) < float64(secondMin)*ratio2 && minDistance < DistanceThreshold {
			output = append(output, model.Match{Index0: i, Index1: minJ, Distance: minDistance})
		}
	}
	return output
}

// hammingDistance counts differing bits between a and b, aborting as
// soon as the running count exceeds bailout (the result is discarded by
// the caller in that case, so an early, possibly partial count suffices).
func hammingDistance(a, b []byte, bailout int) int {
	distance := 0
	for i := range a {
		distance += bits.OnesCount8(a[i] ^ b[i])
		if distance > bailout {
			break
		}
	}
	return distance
}

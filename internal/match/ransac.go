package match

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/openakaze/akaze/internal/linalg"
	"github.com/openakaze/akaze/internal/model"
)

// fundamentalMatrix is a 3x3 row-major matrix.
type fundamentalMatrix [3][3]float64

// RemoveOutliers runs RANSAC against the fundamental-matrix model over
// matches, drawing random minimal 8-point sets from rng. If fewer than 8
// matches are supplied, the input is returned unchanged (not enough
// points to fit a model). The implementation deliberately keeps the
// "best model found so far" without an adaptive trial count: trials
// always runs to completion.
func RemoveOutliers(kp0, kp1 []model.Keypoint, matches []model.Match, trials int, epsilonModel, epsilonInlier float64, rng *rand.Rand) []model.Match {
	if len(matches) < 8 {
		slog.Warn("fewer than 8 candidate matches, skipping RANSAC verification", "matches", len(matches))
		return matches
	}

	var bestModel fundamentalMatrix
	bestInliers := -1

	for t := 0; t < trials; t++ {
		sample := sampleEight(matches, rng)
		fm, ok := estimateFundamentalMatrix(kp0, kp1, sample, epsilonModel)
		if !ok {
			continue
		}
		count := countInliers(kp0, kp1, matches, fm, epsilonInlier)
		if count > bestInliers {
			bestInliers = count
			bestModel = fm
		}
	}

	if bestInliers < 0 {
		return nil
	}

	var inliers []model.Match
	for _, m := range matches {
		if evaluateModel(bestModel, kp0[m.Index0], kp1[m.Index1]) < epsilonInlier {
			inliers = append(inliers, m)
		}
	}
	return inliers
}

func sampleEight(matches []model.Match, rng *rand.Rand) []model.Match {
	seen := make(map[int]bool, 8)
	out := make([]model.Match, 0, 8)
	for len(out) < 8 {
		idx := rng.Intn(len(matches))
		if seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, matches[idx])
	}
	return out
}

// estimateFundamentalMatrix builds the linearised epipolar constraint
// system for exactly 8 correspondences and recovers F as the eigenvector
// of A^T*A belonging to its smallest eigenvalue. Rank is checked via the
// Jacobi eigenvalues of A^T*A: a full-rank (rank 8) system has exactly
// one eigenvalue near zero at tolerance epsilon.
func estimateFundamentalMatrix(kp0, kp1 []model.Keypoint, sample []model.Match, epsilon float64) (fundamentalMatrix, bool) {
	var zero fundamentalMatrix
	a := make([][]float64, 8)
	for i, m := range sample {
		p0 := kp0[m.Index0]
		p1 := kp1[m.Index1]
		a[i] = []float64{
			p0.X * p1.X, p0.X * p1.Y, p0.X,
			p0.Y * p1.X, p0.Y * p1.Y, p0.Y,
			p1.X, p1.Y, 1,
		}
	}

	ata := linalg.AtA(a)
	eigenvalues, q, err := linalg.Eigen(ata, 1e-12, 200)
	if err != nil {
		return zero, false
	}
	if rank(eigenvalues, epsilon) != 8 {
		return zero, false
	}

	minIdx := 0
	for i := 1; i < len(eigenvalues); i++ {
		if math.Abs(eigenvalues[i]) < math.Abs(eigenvalues[minIdx]) {
			minIdx = i
		}
	}
	v := make([]float64, 9)
	for i := 0; i < 9; i++ {
		v[i] = q[i][minIdx]
	}

	var f fundamentalMatrix
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			f[r][c] = v[r*3+c]
		}
	}
	return f, true
}

// rank counts eigenvalues of A^T*A whose square root (the corresponding
// singular value of A) exceeds epsilon.
func rank(eigenvalues []float64, epsilon float64) int {
	n := 0
	for _, ev := range eigenvalues {
		if math.Sqrt(math.Abs(ev)) > epsilon {
			n++
		}
	}
	return n
}

func evaluateModel(f fundamentalMatrix, k0, k1 model.Keypoint) float64 {
	// p1^T * F * p0
	var fx [3]float64
	p0 := [3]float64{k0.X, k0.Y, 1}
	for r := 0; r < 3; r++ {
		fx[r] = f[r][0]*p0[0] + f[r][1]*p0[1] + f[r][2]*p0[2]
	}
	p1 := [3]float64{k1.X, k1.Y, 1}
	var dot float64
	for i := 0; i < 3; i++ {
		dot += p1[i] * fx[i]
	}
	return math.Abs(dot)
}

func countInliers(kp0, kp1 []model.Keypoint, matches []model.Match, f fundamentalMatrix, epsilon float64) int {
	n := 0
	for _, m := range matches {
		if evaluateModel(f, kp0[m.Index0], kp1[m.Index1]) < epsilon {
			n++
		}
	}
	return n
}

// Package akaze implements the AKAZE local feature detector and
// descriptor: nonlinear scale-space construction, multi-scale Hessian
// keypoint detection, M-LDB descriptor extraction and brute-force
// Hamming matching with RANSAC geometric verification.
package akaze

import (
	"fmt"
	"image"
	"log/slog"
	"math/rand"
	"time"

	"github.com/openakaze/akaze/internal/descriptor"
	"github.com/openakaze/akaze/internal/ingest"
	"github.com/openakaze/akaze/internal/keypoint"
	"github.com/openakaze/akaze/internal/match"
	"github.com/openakaze/akaze/internal/model"
	"github.com/openakaze/akaze/internal/scalespace"
)

// Config is the AKAZE parameter set; see DefaultConfig for the values
// validated against the reference test images.
type Config = model.Config

// Evolution is one nonlinear-diffusion scale-space step; see
// internal/model for its fields.
type Evolution = model.Evolution

// Keypoint is a detected interest point in original-image coordinates.
type Keypoint = model.Keypoint

// Descriptor is the fixed-length M-LDB bit-packed descriptor.
type Descriptor = model.Descriptor

// Match pairs a descriptor-0 index with a descriptor-1 index and their
// Hamming distance.
type Match = model.Match

// DefaultConfig returns the AKAZE defaults validated on the reference
// test images.
func DefaultConfig() Config {
	return model.DefaultConfig()
}

// DefaultLowesRatio, DefaultRansacTrials and DefaultEpsilonInlier are the
// match_features defaults validated on the reference test images.
const (
	DefaultLowesRatio    = 0.86
	DefaultRansacTrials  = 1000
	DefaultEpsilonInlier = 3.0
	ransacEpsilonModel   = 0.05
)

// Extract runs the full AKAZE pipeline over img: nonlinear scale-space
// construction, detector response, extrema detection, sub-pixel
// refinement, orientation assignment and descriptor extraction.
// Evolutions are returned alongside keypoints/descriptors for optional
// debug dumping; callers that don't need them may discard the slice.
func Extract(img image.Image, cfg Config) ([]*Evolution, []Keypoint, []Descriptor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	bounds := img.Bounds()
	if err := model.ValidateImageDims(bounds.Dx(), bounds.Dy()); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	start := time.Now()
	floatImage := ingest.ToUnitFloat(img)
	slog.Info("loaded image", "width", floatImage.Width(), "height", floatImage.Height())

	evolutions := scalespace.Build(floatImage, cfg)
	scalespace.DetectorResponse(evolutions, cfg)
	slog.Debug("scale space built", "elapsed", time.Since(start), "evolutions", len(evolutions))

	kpStart := time.Now()
	candidates := keypoint.FindExtrema(evolutions, cfg)
	candidates = keypoint.Refine(evolutions, candidates)
	candidates = keypoint.AssignOrientations(evolutions, candidates)
	slog.Debug("keypoints found", "elapsed", time.Since(kpStart), "count", len(candidates))

	descStart := time.Now()
	descriptors := descriptor.Extract(evolutions, candidates, cfg)
	slog.Info("descriptors computed", "elapsed", time.Since(descStart), "count", len(descriptors))

	return evolutions, candidates, descriptors, nil
}

// MatchFeatures matches two descriptor sets via brute-force Hamming
// distance with Lowe's ratio test, then verifies the result with RANSAC
// fundamental-matrix estimation. rng drives the RANSAC sampling; pass a
// seeded *rand.Rand for deterministic output across runs.
func MatchFeatures(kp0 []Keypoint, d0 []Descriptor, kp1 []Keypoint, d1 []Descriptor, lowesRatio float64, ransacTrials int, epsilonInlier float64, rng *rand.Rand) []Match {
	raw := match.BruteForce(d0, d1, lowesRatio)
	slog.Debug("brute-force matching complete", "matches", len(raw))
	verified := match.RemoveOutliers(kp0, kp1, raw, ransacTrials, ransacEpsilonModel, epsilonInlier, rng)
	slog.Info("ransac verification complete", "inliers", len(verified), "candidates", len(raw))
	return verified
}

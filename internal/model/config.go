// Package model holds the shared domain types used across the pipeline
// stages: configuration, evolution steps, keypoints, descriptors and
// matches. Factoring these out avoids an import cycle between the root
// façade package and the internal algorithm packages.
package model

import "fmt"

// Config is the immutable set of AKAZE pipeline parameters. Validate
// before constructing any evolutions from it.
type Config struct {
	NumSublevels           int     `json:"num_sublevels"`
	MaxOctaveEvolution     int     `json:"max_octave_evolution"`
	BaseScaleOffset        float64 `json:"base_scale_offset"`
	InitialContrast        float64 `json:"initial_contrast"`
	ContrastPercentile     float64 `json:"contrast_percentile"`
	ContrastFactorNumBins  int     `json:"contrast_factor_num_bins"`
	DerivativeFactor       float64 `json:"derivative_factor"`
	DetectorThreshold      float64 `json:"detector_threshold"`
	DescriptorChannels     int     `json:"descriptor_channels"`
	DescriptorPatternSize  float64 `json:"descriptor_pattern_size"`
}

// DefaultConfig returns the reference parameter set.
func DefaultConfig() Config {
	return Config{
		NumSublevels:          4,
		MaxOctaveEvolution:    4,
		BaseScaleOffset:       1.6,
		InitialContrast:       0.001,
		ContrastPercentile:    0.7,
		ContrastFactorNumBins: 300,
		DerivativeFactor:      1.5,
		DetectorThreshold:     0.001,
		DescriptorChannels:    3,
		DescriptorPatternSize: 10,
	}
}

// ValidationError reports a single invalid configuration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "config: " + e.Field + " " + e.Reason
}

// Validate rejects configurations that would make evolution allocation or
// descriptor bit-packing undefined, per the fatal-construction-error
// contract.
func (c Config) Validate() error {
	if c.NumSublevels < 1 {
		return &ValidationError{Field: "NumSublevels", Reason: "must be >= 1"}
	}
	if c.MaxOctaveEvolution < 1 {
		return &ValidationError{Field: "MaxOctaveEvolution", Reason: "must be >= 1"}
	}
	if c.BaseScaleOffset <= 0 {
		return &ValidationError{Field: "BaseScaleOffset", Reason: "must be positive"}
	}
	if c.ContrastFactorNumBins < 1 {
		return &ValidationError{Field: "ContrastFactorNumBins", Reason: "must be >= 1"}
	}
	if c.DerivativeFactor <= 0 {
		return &ValidationError{Field: "DerivativeFactor", Reason: "must be positive"}
	}
	switch c.DescriptorChannels {
	case 1, 2, 3:
	default:
		return &ValidationError{Field: "DescriptorChannels", Reason: "must be 1, 2 or 3"}
	}
	if c.DescriptorPatternSize <= 0 {
		return &ValidationError{Field: "DescriptorPatternSize", Reason: "must be positive"}
	}
	return nil
}

// ValidateImageDims rejects non-positive image dimensions before any work
// starts; kept separate from Validate because the image size is not part
// of Config itself.
func ValidateImageDims(width, height int) error {
	if width <= 0 || height <= 0 {
		return &ValidationError{
			Field:  "image dimensions",
			Reason: fmt.Sprintf("must be positive, got %dx%d", width, height),
		}
	}
	return nil
}

// DescriptorByteLength returns the fixed descriptor length for the
// configured channel count: ceil((6+36+120)*channels/8).
func DescriptorByteLength(channels int) int {
	bits := (6 + 36 + 120) * channels
	return (bits + 7) / 8
}

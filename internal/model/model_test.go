package model

import "testing"

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("DefaultConfig() should validate, got %v", err)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name    string
		breakFn func(c *Config)
	}{
		{"num sublevels", func(c *Config) { c.NumSublevels = 0 }},
		{"max octave", func(c *Config) { c.MaxOctaveEvolution = 0 }},
		{"base scale offset", func(c *Config) { c.BaseScaleOffset = 0 }},
		{"contrast bins", func(c *Config) { c.ContrastFactorNumBins = 0 }},
		{"derivative factor", func(c *Config) { c.DerivativeFactor = 0 }},
		{"descriptor channels", func(c *Config) { c.DescriptorChannels = 4 }},
		{"pattern size", func(c *Config) { c.DescriptorPatternSize = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.breakFn(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestValidateImageDimsRejectsNonPositive(t *testing.T) {
	if err := ValidateImageDims(0, 10); err == nil {
		t.Error("expected error for zero width")
	}
	if err := ValidateImageDims(10, -1); err == nil {
		t.Error("expected error for negative height")
	}
	if err := ValidateImageDims(10, 10); err != nil {
		t.Errorf("unexpected error for valid dims: %v", err)
	}
}

func TestDescriptorByteLength(t *testing.T) {
	cases := map[int]int{1: 21, 2: 41, 3: 61}
	for channels, want := range cases {
		if got := DescriptorByteLength(channels); got != want {
			t.Errorf("DescriptorByteLength(%d) = %d, want %d", channels, got, want)
		}
	}
}

func TestAllocateEvolutionsStopsOctaveGrowthBelowMinimum(t *testing.T) {
	cfg := DefaultConfig()
	evolutions := AllocateEvolutions(80, 40, cfg)
	for _, e := range evolutions {
		if e.Octave != 0 {
			t.Errorf("expected only octave 0 for an 80x40 image, got octave %d", e.Octave)
		}
	}
	if len(evolutions) != cfg.NumSublevels {
		t.Errorf("expected %d evolutions, got %d", cfg.NumSublevels, len(evolutions))
	}
}

func TestAllocateEvolutionsSigmaMonotonic(t *testing.T) {
	cfg := DefaultConfig()
	evolutions := AllocateEvolutions(640, 480, cfg)
	for i := 1; i < len(evolutions); i++ {
		if evolutions[i].Sigma < evolutions[i-1].Sigma {
			t.Errorf("sigma decreased at index %d: %v -> %v", i, evolutions[i-1].Sigma, evolutions[i].Sigma)
		}
	}
}

package model

import (
	"math"

	"github.com/openakaze/akaze/internal/akimage"
)

// Evolution is one entry in the nonlinear scale space, identified by
// (octave, sublevel). Images are allocated lazily by the scale-space
// builder; FEDSteps holds the sub-step schedule integrating this step's
// process-time interval.
type Evolution struct {
	Octave   int
	Sublevel int

	// Sigma is the continuous scale sigma = base_scale_offset * 2^(sublevel/num_sublevels + octave).
	Sigma float64
	// Time is the evolution time t = sigma^2 / 2.
	Time float64

	Lt      *akimage.Image
	Lsmooth *akimage.Image
	Lx      *akimage.Image
	Ly      *akimage.Image
	Lxx     *akimage.Image
	Lyy     *akimage.Image
	Lxy     *akimage.Image
	Lflow   *akimage.Image
	Lstep   *akimage.Image
	Ldet    *akimage.Image

	FEDSteps []float64
}

// Width and Height report the current dimensions of this evolution's
// images (they are constant within an octave, halved across an octave
// boundary).
func (e *Evolution) Width() int  { return e.Lt.Width() }
func (e *Evolution) Height() int { return e.Lt.Height() }

// AllocateEvolutions builds the flat ordered evolution list for an image
// of the given dimensions under cfg, stopping octave growth at the first
// octave whose halved dimensions drop below 80x40. The octave loop runs
// 0..MaxOctaveEvolution-1, matching the reference allocate_evolutions
// bound. Image buffers themselves are not allocated here; the scale-space
// builder fills Lt et al. in sequence.
func AllocateEvolutions(width, height int, cfg Config) []*Evolution {
	var evolutions []*Evolution
	for octave := 0; octave < cfg.MaxOctaveEvolution-1; octave++ {
		w := width >> uint(octave)
		h := height >> uint(octave)
		if octave >= 1 && (w < 80 || h < 40) {
			break
		}
		for sub := 0; sub < cfg.NumSublevels; sub++ {
			sigma := cfg.BaseScaleOffset * math.Pow(2, float64(sub)/float64(cfg.NumSublevels)+float64(octave))
			e := &Evolution{
				Octave:   octave,
				Sublevel: sub,
				Sigma:    sigma,
				Time:     sigma * sigma / 2,
			}
			evolutions = append(evolutions, e)
		}
	}
	return evolutions
}

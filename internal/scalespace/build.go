// Package scalespace orchestrates the nonlinear scale-space construction
// and, once built, the per-evolution detector response fan-out.
package scalespace

import (
	"log/slog"

	"github.com/openakaze/akaze/internal/akimage"
	"github.com/openakaze/akaze/internal/contrast"
	"github.com/openakaze/akaze/internal/diffusion"
	"github.com/openakaze/akaze/internal/fed"
	"github.com/openakaze/akaze/internal/model"
)

const smoothedSigma = 1.0

// Build allocates the evolution list for image under cfg, fills the first
// evolution's Lt/Lsmooth images and every later evolution's
// Lt/Lsmooth/Lx/Ly/Lflow/Lstep images, running the FED diffusion
// sub-steps for each later evolution in sequence. This is a strictly ordered
// dependency chain; it is never parallelised.
func Build(image *akimage.Image, cfg model.Config) []*model.Evolution {
	evolutions := model.AllocateEvolutions(image.Width(), image.Height(), cfg)
	if len(evolutions) == 0 {
		return evolutions
	}

	slog.Debug("creating first evolution")
	evolutions[0].Lt = akimage.GaussianBlur(image, float32(cfg.BaseScaleOffset))
	evolutions[0].Lsmooth = evolutions[0].Lt.Clone()

	k := contrast.Factor(evolutions[0].Lsmooth, cfg.ContrastPercentile, cfg.ContrastFactorNumBins)
	slog.Debug("initial contrast factor", "k", k, "percentile", cfg.ContrastPercentile, "bins", cfg.ContrastFactorNumBins)
	if k <= 0 {
		k = cfg.InitialContrast
	}

	for i := 1; i < len(evolutions); i++ {
		prev := evolutions[i-1]
		cur := evolutions[i]
		slog.Debug("creating evolution", "index", i, "octave", cur.Octave, "sublevel", cur.Sublevel)

		if cur.Octave > prev.Octave {
			cur.Lt = prev.Lt.HalfSize()
			k *= 0.75
			slog.Debug("half-sized", "width", cur.Lt.Width(), "height", cur.Lt.Height(), "k", k)
		} else {
			cur.Lt = prev.Lt.Clone()
		}

		cur.Lsmooth = akimage.GaussianBlur(cur.Lt, smoothedSigma)
		cur.Lx = akimage.Scharr(cur.Lsmooth, true, false, 1)
		cur.Ly = akimage.Scharr(cur.Lsmooth, false, true, 1)
		cur.Lflow = pmG2(cur.Lx, cur.Ly, k)
		cur.Lstep = akimage.New(cur.Lt.Width(), cur.Lt.Height())

		dt := cur.Time - prev.Time
		cur.FEDSteps = fed.Schedule(dt, 0.25, 25, true)
		for _, tau := range cur.FEDSteps {
			diffusion.Step(cur.Lt, cur.Lflow, cur.Lstep, tau)
		}
	}

	return evolutions
}

// pmG2 computes the Perona-Malik conductivity g2 = 1/(1+(Lx^2+Ly^2)/k^2).
func pmG2(lx, ly *akimage.Image, k float64) *akimage.Image {
	out := akimage.New(lx.Width(), lx.Height())
	invK2 := 1.0 / (k * k)
	for y := 0; y < lx.Height(); y++ {
		for x := 0; x < lx.Width(); x++ {
			a := float64(lx.Get(x, y))
			b := float64(ly.Get(x, y))
			out.Put(x, y, float32(1.0/(1.0+invK2*(a*a+b*b))))
		}
	}
	return out
}

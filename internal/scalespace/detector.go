package scalespace

import (
	"log/slog"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"

	"github.com/openakaze/akaze/internal/akimage"
	"github.com/openakaze/akaze/internal/model"
)

var logWorkerCapabilitiesOnce sync.Once

// DetectorResponse fills Lxx, Lyy, Lxy and the scale-normalised Ldet for
// every evolution. Evolutions are independent of one another, so this
// stage fans out across a worker pool sized to the hardware thread
// count; each worker owns one evolution exclusively for the duration of
// its task, matching the single fan-out point in the pipeline.
func DetectorResponse(evolutions []*model.Evolution, cfg model.Config) {
	logWorkerCapabilitiesOnce.Do(logCPUCapabilities)

	workers := runtime.NumCPU()
	if workers > len(evolutions) {
		workers = len(evolutions)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *model.Evolution)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for e := range jobs {
				detectorResponseOne(e, cfg)
			}
		}()
	}
	for _, e := range evolutions {
		jobs <- e
	}
	close(jobs)
	wg.Wait()
}

func logCPUCapabilities() {
	slog.Debug("detector response worker pool",
		"workers", runtime.NumCPU(),
		"avx2", cpu.X86.HasAVX2,
		"neon", cpu.ARM64.HasASIMD,
	)
}

// detectorResponseOne computes the scale-normalised Hessian determinant
// for one evolution: Lx, Ly are recomputed at the evolution's integer
// scale (the transient scale-1 derivatives built during Build are
// discarded here), then Lxx, Lyy, Lxy and Ldet = (Lxx*Lyy - Lxy^2)*sigma^4.
func detectorResponseOne(e *model.Evolution, cfg model.Config) {
	sigmaSize := int(math.Round(e.Sigma * cfg.DerivativeFactor / pow2(e.Octave)))
	if sigmaSize < 1 {
		sigmaSize = 1
	}

	e.Lx = akimage.Scharr(e.Lsmooth, true, false, sigmaSize)
	e.Ly = akimage.Scharr(e.Lsmooth, false, true, sigmaSize)
	e.Lxx = akimage.Scharr(e.Lx, true, false, sigmaSize)
	e.Lyy = akimage.Scharr(e.Ly, false, true, sigmaSize)
	e.Lxy = akimage.Scharr(e.Lx, false, true, sigmaSize)

	sigma4 := float32(sigmaSize * sigmaSize * sigmaSize * sigmaSize)
	e.Ldet = akimage.New(e.Width(), e.Height())
	for y := 0; y < e.Height(); y++ {
		for x := 0; x < e.Width(); x++ {
			lxx := e.Lxx.Get(x, y)
			lyy := e.Lyy.Get(x, y)
			lxy := e.Lxy.Get(x, y)
			e.Ldet.Put(x, y, (lxx*lyy-lxy*lxy)*sigma4)
		}
	}
}

func pow2(n int) float64 {
	r := 1.0
	for i := 0; i < n; i++ {
		r *= 2
	}
	return r
}

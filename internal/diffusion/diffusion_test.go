package diffusion

import (
	"math"
	"testing"

	"github.com/openakaze/akaze/internal/akimage"
)

func TestStepZeroFlowIsNoOp(t *testing.T) {
	lt := akimage.New(8, 8)
	flow := akimage.New(8, 8)
	step := akimage.New(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			lt.Put(x, y, float32(x+y))
		}
	}
	before := lt.Clone()
	Step(lt, flow, step, 0.1)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if math.Abs(float64(lt.Get(x, y)-before.Get(x, y))) > 1e-9 {
				t.Fatalf("pixel (%d,%d) changed with zero conductivity", x, y)
			}
		}
	}
}

func TestStepUniformImageIsNoOp(t *testing.T) {
	lt := akimage.New(6, 6)
	flow := akimage.New(6, 6)
	step := akimage.New(6, 6)
	for i := range flow.Pix() {
		flow.Pix()[i] = 1
	}
	for i := range lt.Pix() {
		lt.Pix()[i] = 0.5
	}
	Step(lt, flow, step, 0.2)
	for _, v := range lt.Pix() {
		if math.Abs(float64(v-0.5)) > 1e-6 {
			t.Fatalf("uniform image diffused: got %v", v)
		}
	}
}

func TestStepCornerDropsMissingTerms(t *testing.T) {
	lt := akimage.New(4, 4)
	flow := akimage.New(4, 4)
	step := akimage.New(4, 4)
	for i := range flow.Pix() {
		flow.Pix()[i] = 1
	}
	lt.Put(0, 0, 1)
	Step(lt, flow, step, 1.0)
	// must not panic and must produce a finite value at the corner
	if v := lt.Get(0, 0); math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		t.Fatalf("corner pixel diverged: %v", v)
	}
}

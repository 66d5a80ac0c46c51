package keypoint

import "github.com/openakaze/akaze/internal/model"

// Refine solves the 3x3 quadratic expansion of Ldet around each
// candidate's octave-space pixel and accepts the refined position when
// the correction stays within one pixel in each axis; candidates whose
// correction overshoots are dropped, matching the reference behaviour
// for a case the original implementation never filled in.
func Refine(evolutions []*model.Evolution, candidates []model.Keypoint) []model.Keypoint {
	out := make([]model.Keypoint, 0, len(candidates))
	for _, kp := range candidates {
		e := evolutions[kp.ClassID]
		ratio := pow2(e.Octave)

		ox := (kp.X - 0.5*(ratio-1)) / ratio
		oy := (kp.Y - 0.5*(ratio-1)) / ratio
		x := int(ox + 0.5)
		y := int(oy + 0.5)

		if x < 1 || x >= e.Width()-1 || y < 1 || y >= e.Height()-1 {
			continue
		}

		dx, dy, ok := solveQuadratic(e, x, y)
		if !ok {
			continue
		}

		refined := kp
		refined.X = (float64(x)+dx)*ratio + 0.5*(ratio-1)
		refined.Y = (float64(y)+dy)*ratio + 0.5*(ratio-1)
		out = append(out, refined)
	}
	return out
}

// solveQuadratic computes the central-difference gradient and Hessian of
// Ldet at (x,y) and solves H*delta = -grad, returning (0,0,false) when
// the Hessian is singular or the correction would exceed one pixel in
// either axis.
func solveQuadratic(e *model.Evolution, x, y int) (float64, float64, bool) {
	det := e.Ldet
	fxx := float64(det.Get(x+1, y) - 2*det.Get(x, y) + det.Get(x-1, y))
	fyy := float64(det.Get(x, y+1) - 2*det.Get(x, y) + det.Get(x, y-1))
	fxy := float64(det.Get(x+1, y+1)-det.Get(x+1, y-1)-det.Get(x-1, y+1)+det.Get(x-1, y-1)) / 4

	fx := float64(det.Get(x+1, y)-det.Get(x-1, y)) / 2
	fy := float64(det.Get(x, y+1)-det.Get(x, y-1)) / 2

	detH := fxx*fyy - fxy*fxy
	if detH == 0 {
		return 0, 0, false
	}

	dx := -(fyy*fx - fxy*fy) / detH
	dy := -(fxx*fy - fxy*fx) / detH

	if dx > 1 || dx < -1 || dy > 1 || dy < -1 {
		return 0, 0, false
	}
	return dx, dy, true
}

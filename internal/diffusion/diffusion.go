// Package diffusion applies one explicit-Euler step of the edge-preserving
// nonlinear diffusion PDE to an evolution's Lt image, given its
// conductivity image Lflow and a FED step size.
package diffusion

import "github.com/openakaze/akaze/internal/akimage"

// Step computes Lstep from lt and flow at the given step size and adds it
// into lt in place. Border pixels (first/last row, first/last column, the
// four corners) drop the neighbour term that would sample outside the
// image, equivalent to zero flux across the missing edge.
func Step(lt, flow, step *akimage.Image, stepSize float64) {
	w, h := lt.Width(), lt.Height()
	tau := float32(0.5 * stepSize)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := flow.Get(x, y)
			l := lt.Get(x, y)
			var xPos, xNeg, yPos, yNeg float32

			if x+1 < w {
				xPos = (c + flow.Get(x+1, y)) * (lt.Get(x+1, y) - l)
			}
			if x-1 >= 0 {
				xNeg = (flow.Get(x-1, y) + c) * (l - lt.Get(x-1, y))
			}
			if y+1 < h {
				yPos = (c + flow.Get(x, y+1)) * (lt.Get(x, y+1) - l)
			}
			if y-1 >= 0 {
				yNeg = (flow.Get(x, y-1) + c) * (l - lt.Get(x, y-1))
			}

			step.Put(x, y, tau*(xPos-xNeg+yPos-yNeg))
		}
	}

	lt.AddInPlace(step)
}

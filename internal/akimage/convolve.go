package akimage

import "math"

// GaussianKernel returns a non-renormalized 1D Gaussian kernel sampled at
// integer offsets -radius..radius, where radius = ceil(sigma*sqrt(2*ln(1000))).
// The kernel follows (sigma*sqrt(2*pi))^-1 * exp(-x^2/(2*sigma^2)) exactly,
// without rescaling the samples to sum to one, matching the reference
// image.rs gaussian_kernel behavior used to build the base evolution.
func GaussianKernel(sigma float32) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}
	s := float64(sigma)
	radius := int(math.Ceil(s * math.Sqrt(2*math.Log(1000))))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float32, 2*radius+1)
	norm := 1.0 / (s * math.Sqrt(2*math.Pi))
	for i := -radius; i <= radius; i++ {
		x := float64(i)
		kernel[i+radius] = float32(norm * math.Exp(-(x*x)/(2*s*s)))
	}
	return kernel
}

// filterHorizontal convolves img row-wise with kernel, using border
// replication for samples that fall outside [0,width).
func filterHorizontal(img *Image, kernel []float32) *Image {
	radius := len(kernel) / 2
	out := New(img.width, img.height)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			var sum float32
			for k := -radius; k <= radius; k++ {
				sx := clampIndex(x+k, img.width)
				sum += img.Get(sx, y) * kernel[k+radius]
			}
			out.Put(x, y, sum)
		}
	}
	return out
}

// filterVertical convolves img column-wise with kernel, using border
// replication for samples that fall outside [0,height).
func filterVertical(img *Image, kernel []float32) *Image {
	radius := len(kernel) / 2
	out := New(img.width, img.height)
	for y := 0; y < img.height; y++ {
		for x := 0; x < img.width; x++ {
			var sum float32
			for k := -radius; k <= radius; k++ {
				sy := clampIndex(y+k, img.height)
				sum += img.Get(x, sy) * kernel[k+radius]
			}
			out.Put(x, y, sum)
		}
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// GaussianBlur applies the separable Gaussian kernel for sigma to img,
// filtering horizontally then vertically.
func GaussianBlur(img *Image, sigma float32) *Image {
	kernel := GaussianKernel(sigma)
	return filterVertical(filterHorizontal(img, kernel), kernel)
}

// scharrX3, scharrD3 are the base 3-tap Scharr smoothing/derivative kernels,
// unnormalized as in the reference derivatives.rs: smoothing [3,10,3],
// derivative [-1,0,1].
var scharrX3 = []float32{3, 10, 3}
var scharrD3 = []float32{-1, 0, 1}

// Scharr computes the horizontal or vertical first derivative of img scaled
// by sigmaSize, applying the basic 3x3 Scharr operator sigmaSize times in
// sequence along the derivative axis (the spec's literal definition of the
// scaled operator, rather than a true dilated-kernel reproduction).
func Scharr(img *Image, xOrder, yOrder bool, sigmaSize int) *Image {
	if sigmaSize < 1 {
		sigmaSize = 1
	}
	cur := img
	for i := 0; i < sigmaSize; i++ {
		var horiz, vert []float32
		if xOrder {
			horiz = scharrD3
		} else {
			horiz = scharrX3
		}
		if yOrder {
			vert = scharrD3
		} else {
			vert = scharrX3
		}
		cur = filterVertical(filterHorizontal(cur, horiz), vert)
	}
	return cur
}

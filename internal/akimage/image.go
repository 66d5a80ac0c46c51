// Package akimage implements the unit-float image buffer and the separable
// convolution kernels (Gaussian blur, Scharr derivatives) the nonlinear
// scale space is built from.
package akimage

// Image is a contiguous single-precision grayscale buffer in row-major
// order. Pixel values produced by ingest lie in [0,1]; shape is immutable
// after construction.
type Image struct {
	buf           []float32
	width, height int
}

// New allocates a zeroed width x height image.
func New(width, height int) *Image {
	return &Image{
		buf:    make([]float32, width*height),
		width:  width,
		height: height,
	}
}

func (img *Image) Width() int  { return img.width }
func (img *Image) Height() int { return img.height }

// Pix exposes the raw contiguous buffer for iterator-based filters.
func (img *Image) Pix() []float32 { return img.buf }

// Get returns the pixel at (x,y). No bounds checks in release builds.
func (img *Image) Get(x, y int) float32 {
	return img.buf[y*img.width+x]
}

// Put stores v at (x,y).
func (img *Image) Put(x, y int, v float32) {
	img.buf[y*img.width+x] = v
}

// Clone returns a deep copy.
func (img *Image) Clone() *Image {
	out := &Image{
		buf:    make([]float32, len(img.buf)),
		width:  img.width,
		height: img.height,
	}
	copy(out.buf, img.buf)
	return out
}

// HalfSize returns an image of floor(w/2) x floor(h/2) where each output
// pixel is the arithmetic mean of the corresponding 2x2 block.
func (img *Image) HalfSize() *Image {
	w, h := img.width/2, img.height/2
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := img.Get(2*x, 2*y) + img.Get(2*x+1, 2*y) +
				img.Get(2*x, 2*y+1) + img.Get(2*x+1, 2*y+1)
			out.Put(x, y, sum/4)
		}
	}
	return out
}

// AddInPlace adds other into img, pixelwise. Dimensions must match.
func (img *Image) AddInPlace(other *Image) {
	for i := range img.buf {
		img.buf[i] += other.buf[i]
	}
}


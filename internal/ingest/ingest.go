// Package ingest converts a decoded raster image into the unit-float
// grayscale buffer the pipeline operates on.
package ingest

import (
	"image"
	"image/color"

	"github.com/openakaze/akaze/internal/akimage"
)

// ToUnitFloat converts img to luminance via the standard ITU-601-style
// weighting (Go's color.GrayModel) and rescales to [0,1] by dividing by
// 255, matching the reference ingest contract.
func ToUnitFloat(img image.Image) *akimage.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := akimage.New(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			out.Put(x, y, float32(gray.Y)/255)
		}
	}
	return out
}

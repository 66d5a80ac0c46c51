// Package debugdump writes evolution-channel PNG snapshots and
// keypoint/match visualisations requested by the CLI's debug flags.
package debugdump

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/openakaze/akaze/internal/akimage"
	"github.com/openakaze/akaze/internal/model"
)

// channel names the eight per-evolution images the reference
// implementation normally writes, in a fixed order for stable file
// naming.
type channel struct {
	name string
	get  func(e *model.Evolution) *akimage.Image
}

var channels = []channel{
	{"Lx", func(e *model.Evolution) *akimage.Image { return e.Lx }},
	{"Ly", func(e *model.Evolution) *akimage.Image { return e.Ly }},
	{"Lxx", func(e *model.Evolution) *akimage.Image { return e.Lxx }},
	{"Lyy", func(e *model.Evolution) *akimage.Image { return e.Lyy }},
	{"Lxy", func(e *model.Evolution) *akimage.Image { return e.Lxy }},
	{"Lflow", func(e *model.Evolution) *akimage.Image { return e.Lflow }},
	{"Lstep", func(e *model.Evolution) *akimage.Image { return e.Lstep }},
	{"Ldet", func(e *model.Evolution) *akimage.Image { return e.Ldet }},
}

// DumpEvolutions writes every evolution's channel images to dir, each
// normalised to [0,1] and saved as 8-bit grayscale, named
// <channel>_<zero-padded index>.png (e.g. "Ldet_0003.png").
func DumpEvolutions(evolutions []*model.Evolution, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("debugdump: create dir %s: %w", dir, err)
	}
	for i, e := range evolutions {
		for _, ch := range channels {
			img := ch.get(e)
			if img == nil {
				continue
			}
			filename := fmt.Sprintf("%s_%04d.png", ch.name, i)
			path := filepath.Join(dir, filename)
			if err := writeGrayPNG(path, img); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeGrayPNG(path string, img *akimage.Image) error {
	gray := image.NewGray(image.Rect(0, 0, img.Width(), img.Height()))
	lo, hi := minMax(img)
	rng := hi - lo
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			v := img.Get(x, y)
			var norm float32
			if rng > 0 {
				norm = (v - lo) / rng
			}
			gray.SetGray(x, y, color.Gray{Y: uint8(norm * 255)})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debugdump: create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, gray); err != nil {
		return fmt.Errorf("debugdump: encode %s: %w", path, err)
	}
	return nil
}

func minMax(img *akimage.Image) (lo, hi float32) {
	lo, hi = math.MaxFloat32, -math.MaxFloat32
	for _, v := range img.Pix() {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return
}

// DrawKeypoints overlays a circle of random colour at each keypoint's
// position and radius onto a copy of base.
func DrawKeypoints(base image.Image, keypoints []model.Keypoint) *image.RGBA {
	bounds := base.Bounds()
	out := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, base.At(x, y))
		}
	}
	rng := rand.New(rand.NewSource(1))
	for _, kp := range keypoints {
		drawCircle(out, kp.X, kp.Y, kp.Size, randomColor(rng))
	}
	return out
}

// DrawMatches places img0 and img1 side by side and draws a line between
// each matched keypoint pair, following the reference map_pixel_in_1
// convention (image 1 is offset by the combined half-width).
func DrawMatches(img0, img1 image.Image, kp0, kp1 []model.Keypoint, matches []model.Match) *image.RGBA {
	b0, b1 := img0.Bounds(), img1.Bounds()
	halfWidth := b0.Dx()
	if b1.Dx() > halfWidth {
		halfWidth = b1.Dx()
	}
	combinedWidth := 2 * halfWidth
	combinedHeight := b0.Dy()
	if b1.Dy() > combinedHeight {
		combinedHeight = b1.Dy()
	}

	out := image.NewRGBA(image.Rect(0, 0, combinedWidth, combinedHeight))
	for y := 0; y < b0.Dy(); y++ {
		for x := 0; x < b0.Dx(); x++ {
			out.Set(x, y, img0.At(b0.Min.X+x, b0.Min.Y+y))
		}
	}
	for y := 0; y < b1.Dy(); y++ {
		for x := 0; x < b1.Dx(); x++ {
			out.Set(x+halfWidth, y, img1.At(b1.Min.X+x, b1.Min.Y+y))
		}
	}

	rng := rand.New(rand.NewSource(1))
	for _, m := range matches {
		p0 := kp0[m.Index0]
		p1 := kp1[m.Index1]
		drawLine(out, p0.X, p0.Y, p1.X+float64(halfWidth), p1.Y, randomColor(rng))
	}
	return out
}

func randomColor(rng *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
}

func drawCircle(img *image.RGBA, cx, cy, radius float64, c color.RGBA) {
	steps := 64
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := int(cx + radius*math.Cos(theta))
		y := int(cy + radius*math.Sin(theta))
		if (image.Point{X: x, Y: y}.In(img.Bounds())) {
			img.Set(x, y, c)
		}
	}
}

func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0)))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(x0 + t*(x1-x0))
		y := int(y0 + t*(y1-y0))
		if (image.Point{X: x, Y: y}.In(img.Bounds())) {
			img.Set(x, y, c)
		}
	}
}

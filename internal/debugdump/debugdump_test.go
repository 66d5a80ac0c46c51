package debugdump

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/openakaze/akaze/internal/akimage"
	"github.com/openakaze/akaze/internal/model"
)

func filledImage(w, h int, v float32) *akimage.Image {
	img := akimage.New(w, h)
	for i := range img.Pix() {
		img.Pix()[i] = v
	}
	return img
}

func sampleEvolution() *model.Evolution {
	return &model.Evolution{
		Lx:    filledImage(4, 4, 0.1),
		Ly:    filledImage(4, 4, 0.2),
		Lxx:   filledImage(4, 4, 0.3),
		Lyy:   filledImage(4, 4, 0.4),
		Lxy:   filledImage(4, 4, 0.5),
		Lflow: filledImage(4, 4, 0.6),
		Lstep: filledImage(4, 4, 0.7),
		Ldet:  filledImage(4, 4, 0.8),
	}
}

func TestDumpEvolutionsWritesOneFilePerChannel(t *testing.T) {
	dir := t.TempDir()
	evolutions := []*model.Evolution{sampleEvolution()}
	if err := DumpEvolutions(evolutions, dir); err != nil {
		t.Fatalf("DumpEvolutions: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != len(channels) {
		t.Fatalf("wrote %d files, want %d", len(entries), len(channels))
	}
	if _, err := os.Stat(filepath.Join(dir, "Ldet_0000.png")); err != nil {
		t.Errorf("expected Ldet_0000.png to exist: %v", err)
	}
}

func TestDrawKeypointsPreservesDimensions(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 20, 10))
	out := DrawKeypoints(base, []model.Keypoint{{X: 5, Y: 5, Size: 3}})
	if out.Bounds() != base.Bounds() {
		t.Errorf("bounds changed: got %v, want %v", out.Bounds(), base.Bounds())
	}
}

func TestDrawMatchesCombinesSideBySide(t *testing.T) {
	img0 := image.NewGray(image.Rect(0, 0, 10, 8))
	img1 := image.NewGray(image.Rect(0, 0, 6, 12))
	kp0 := []model.Keypoint{{X: 1, Y: 1}}
	kp1 := []model.Keypoint{{X: 2, Y: 2}}
	matches := []model.Match{{Index0: 0, Index1: 0, Distance: 0}}
	out := DrawMatches(img0, img1, kp0, kp1, matches)
	if out.Bounds().Dx() != 20 {
		t.Errorf("combined width = %d, want 20 (2*max(10,6))", out.Bounds().Dx())
	}
	if out.Bounds().Dy() != 12 {
		t.Errorf("combined height = %d, want 12 (max(8,12))", out.Bounds().Dy())
	}
	_, _, _, a := out.At(15, 5).RGBA()
	if a == 0 {
		t.Errorf("expected img1's half to be opaque, got transparent pixel at (15,5)")
	}
}

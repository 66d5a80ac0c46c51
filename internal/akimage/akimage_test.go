package akimage

import "testing"

func TestNewIsZeroed(t *testing.T) {
	img := New(4, 3)
	if img.Width() != 4 || img.Height() != 3 {
		t.Fatalf("dims = %dx%d, want 4x3", img.Width(), img.Height())
	}
	for _, v := range img.Pix() {
		if v != 0 {
			t.Fatalf("expected zeroed buffer, got %v", v)
		}
	}
}

func TestGetPutRoundTrip(t *testing.T) {
	img := New(5, 5)
	img.Put(2, 3, 1.5)
	if got := img.Get(2, 3); got != 1.5 {
		t.Errorf("Get(2,3) = %v, want 1.5", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	img := New(2, 2)
	img.Put(0, 0, 1)
	clone := img.Clone()
	clone.Put(0, 0, 2)
	if img.Get(0, 0) != 1 {
		t.Errorf("original mutated by clone write")
	}
	if clone.Get(0, 0) != 2 {
		t.Errorf("clone did not take the write")
	}
}

func TestHalfSizeAverages(t *testing.T) {
	img := New(2, 2)
	img.Put(0, 0, 1)
	img.Put(1, 0, 2)
	img.Put(0, 1, 3)
	img.Put(1, 1, 4)
	half := img.HalfSize()
	if half.Width() != 1 || half.Height() != 1 {
		t.Fatalf("dims = %dx%d, want 1x1", half.Width(), half.Height())
	}
	if got := half.Get(0, 0); got != 2.5 {
		t.Errorf("mean = %v, want 2.5", got)
	}
}

func TestAddInPlace(t *testing.T) {
	a := New(2, 2)
	b := New(2, 2)
	for i := range a.Pix() {
		a.Pix()[i] = 1
		b.Pix()[i] = 2
	}
	a.AddInPlace(b)
	for _, v := range a.Pix() {
		if v != 3 {
			t.Errorf("got %v, want 3", v)
		}
	}
}

func TestGaussianBlurPreservesUniformImage(t *testing.T) {
	img := New(20, 20)
	for i := range img.Pix() {
		img.Pix()[i] = 0.5
	}
	blurred := GaussianBlur(img, 1.6)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if got := blurred.Get(x, y); diff(got, 0.5) > 1e-4 {
				t.Fatalf("blurred(%d,%d) = %v, want ~0.5", x, y, got)
			}
		}
	}
}

func TestScharrZeroOnUniformImage(t *testing.T) {
	img := New(10, 10)
	for i := range img.Pix() {
		img.Pix()[i] = 0.3
	}
	dx := Scharr(img, true, false, 1)
	for _, v := range dx.Pix() {
		if diff(v, 0) > 1e-6 {
			t.Fatalf("expected zero derivative on uniform image, got %v", v)
		}
	}
}

func diff(a, b float32) float32 {
	if a > b {
		return a - b
	}
	return b - a
}

package match

import (
	"math/rand"
	"testing"

	"github.com/openakaze/akaze/internal/model"
)

func descFromBits(byteLen int, setBits ...int) model.Descriptor {
	b := make([]byte, byteLen)
	for _, pos := range setBits {
		b[pos/8] |= 1 << uint(pos%8)
	}
	return model.Descriptor{Bits: b}
}

func TestBruteForceFindsExactMatch(t *testing.T) {
	d0 := []model.Descriptor{descFromBits(4, 1, 2, 3)}
	d1 := []model.Descriptor{
		descFromBits(4, 1, 2, 3),    // exact match
		descFromBits(4, 10, 20, 30), // far away
	}
	matches := BruteForce(d0, d1, 0.86)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Index1 != 0 || matches[0].Distance != 0 {
		t.Errorf("got match %+v, want index1=0 distance=0", matches[0])
	}
}

func TestBruteForceRejectsAmbiguousMatch(t *testing.T) {
	d0 := []model.Descriptor{descFromBits(4, 1, 2, 3)}
	d1 := []model.Descriptor{
		descFromBits(4, 1, 2, 3, 4),
		descFromBits(4, 1, 2, 3, 5),
	}
	matches := BruteForce(d0, d1, 0.5)
	if len(matches) != 0 {
		t.Errorf("expected no match under strict ratio, got %d", len(matches))
	}
}

func TestHammingDistanceBailout(t *testing.T) {
	a := []byte{0xFF, 0xFF}
	b := []byte{0x00, 0x00}
	full := hammingDistance(a, b, 1000)
	bounded := hammingDistance(a, b, 4)
	if full != 16 {
		t.Fatalf("full hamming distance = %d, want 16", full)
	}
	if bounded <= 4 && bounded != full {
		t.Errorf("bounded result %d should equal full result when full <= bound, or exceed bound otherwise", bounded)
	}
}

func TestRemoveOutliersTooFewMatchesReturnsInput(t *testing.T) {
	matches := []model.Match{{Index0: 0, Index1: 0, Distance: 1}}
	kp := []model.Keypoint{{X: 0, Y: 0}}
	out := RemoveOutliers(kp, kp, matches, 100, 0.05, 3.0, rand.New(rand.NewSource(1)))
	if len(out) != len(matches) {
		t.Errorf("expected input returned unchanged, got %d matches", len(out))
	}
}

func TestRemoveOutliersDeterministicWithFixedSeed(t *testing.T) {
	kp0 := make([]model.Keypoint, 20)
	kp1 := make([]model.Keypoint, 20)
	matches := make([]model.Match, 20)
	for i := 0; i < 20; i++ {
		kp0[i] = model.Keypoint{X: float64(i), Y: float64(i * 2)}
		kp1[i] = model.Keypoint{X: float64(i) + 1, Y: float64(i*2) + 1}
		matches[i] = model.Match{Index0: i, Index1: i, Distance: i}
	}
	out1 := RemoveOutliers(kp0, kp1, matches, 50, 0.05, 3.0, rand.New(rand.NewSource(42)))
	out2 := RemoveOutliers(kp0, kp1, matches, 50, 0.05, 3.0, rand.New(rand.NewSource(42)))
	if len(out1) != len(out2) {
		t.Fatalf("non-deterministic inlier count: %d vs %d", len(out1), len(out2))
	}
	for i := range out1 {
		if out1[i] != out2[i] {
			t.Errorf("non-deterministic inlier at %d: %+v vs %+v", i, out1[i], out2[i])
		}
	}
}

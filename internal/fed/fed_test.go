package fed

import "testing"

func TestScheduleSumsToT(t *testing.T) {
	cases := []float64{0.5, 1.28, 3.0, 12.8}
	for _, dt := range cases {
		steps := Schedule(dt, 0.25, 25, true)
		var sum float64
		for _, s := range steps {
			sum += s
		}
		if diff := sum - dt; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Schedule(%v): sum=%v, want %v", dt, sum, dt)
		}
	}
}

func TestScheduleNonPositive(t *testing.T) {
	if steps := Schedule(0, 0.25, 25, true); steps != nil {
		t.Errorf("Schedule(0): got %v, want nil", steps)
	}
	if steps := Schedule(-1, 0.25, 25, true); steps != nil {
		t.Errorf("Schedule(-1): got %v, want nil", steps)
	}
}

func TestScheduleStability(t *testing.T) {
	steps := Schedule(5.0, 0.25, 25, false)
	for _, s := range steps {
		if s <= 0 {
			t.Errorf("non-positive step %v", s)
		}
	}
}

func TestReorderIsPermutation(t *testing.T) {
	plain := Schedule(8.0, 0.25, 25, false)
	reordered := Schedule(8.0, 0.25, 25, true)
	if len(plain) != len(reordered) {
		t.Fatalf("length mismatch: %d vs %d", len(plain), len(reordered))
	}
	var sumPlain, sumReordered float64
	for i := range plain {
		sumPlain += plain[i]
		sumReordered += reordered[i]
	}
	if diff := sumPlain - sumReordered; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("reordering changed sum: %v vs %v", sumPlain, sumReordered)
	}
}

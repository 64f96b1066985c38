package vector

import "testing"

func TestDot(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{4, 5, 6}
	if got, want := Dot(x, y), 32.0; got != want {
		t.Errorf("Dot = %v, want %v", got, want)
	}
}

func TestAXPY(t *testing.T) {
	x := []float64{1, 1, 1}
	y := []float64{1, 2, 3}
	AXPY(2, x, y)
	want := []float64{3, 4, 5}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("y[%d] = %v, want %v", i, y[i], want[i])
		}
	}
}

func TestNorm2(t *testing.T) {
	x := []float64{3, 4}
	if got, want := Norm2(x), 5.0; got != want {
		t.Errorf("Norm2 = %v, want %v", got, want)
	}
}

func TestNormInf(t *testing.T) {
	x := []float64{-1, 5, -3}
	if got, want := NormInf(x), 5.0; got != want {
		t.Errorf("NormInf = %v, want %v", got, want)
	}
}

func TestWorkspaceReusesBuffer(t *testing.T) {
	w := NewWorkspace(3)
	a := w.Get("r")
	a[0] = 7
	b := w.Get("r")
	if &a[0] != &b[0] {
		t.Errorf("Get did not reuse the backing array")
	}
	if b[0] != 0 {
		t.Errorf("Get did not zero the reused buffer, got %v", b[0])
	}
}

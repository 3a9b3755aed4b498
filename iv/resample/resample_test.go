package resample_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-iv/internal/testutil"
	"github.com/cwbudde/algo-iv/iv/resample"
)

func TestNewGrid(t *testing.T) {
	grid, err := resample.NewGrid(0.3, 2.01, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{0.5, 1, 1.5, 2}
	testutil.RequireSliceNearlyEqual(t, grid, want, 1e-12)
}

func TestNewGridOnExactMultiples(t *testing.T) {
	// Bounds already on the grid must be included, not dropped by
	// floating-point jitter.
	grid, err := resample.NewGrid(50, 250, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grid) != 401 {
		t.Fatalf("grid length %d, want 401", len(grid))
	}

	if math.Abs(grid[0]-50) > 1e-9 || math.Abs(grid[len(grid)-1]-250) > 1e-9 {
		t.Fatalf("grid spans [%v, %v], want [50, 250]", grid[0], grid[len(grid)-1])
	}
}

func TestNewGridInvalidStep(t *testing.T) {
	if _, err := resample.NewGrid(0, 10, 0); err == nil {
		t.Fatalf("expected error for zero step")
	}

	if _, err := resample.NewGrid(0, 10, -1); err == nil {
		t.Fatalf("expected error for negative step")
	}
}

func TestNewGridEmpty(t *testing.T) {
	grid, err := resample.NewGrid(10.2, 10.3, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(grid) != 0 {
		t.Fatalf("got %v, want empty grid", grid)
	}
}

func TestResampleIdentityOnOwnGrid(t *testing.T) {
	x := testutil.EnergyAxis(100, 0.5, 40)
	y := testutil.PeakCurve(2, 6, 0.2, []float64{0.5}, 40)

	got, err := resample.Resample(x, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, got, y, 1e-12)
}

func TestResampleRoundTrip(t *testing.T) {
	x := testutil.EnergyAxis(0, 1, 60)
	y := testutil.PeakCurve(1, 5, 0.25, []float64{0.5}, 60)

	fineX, err := resample.NewGrid(x[0], x[len(x)-1], 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fineY, err := resample.Resample(x, fineX, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireFinite(t, fineY)

	back, err := resample.Resample(fineX, x, fineY)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, back, y, 1e-3)
}

func TestResampleDoesNotExtrapolate(t *testing.T) {
	x := testutil.EnergyAxis(10, 1, 20)
	y := testutil.PeakCurve(1, 3, 0.3, []float64{0.5}, 20)

	newX := testutil.EnergyAxis(5, 1, 35) // extends past both ends

	got, err := resample.Resample(x, newX, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for j, xv := range newX {
		outside := xv < x[0]-1e-9 || xv > x[len(x)-1]+1e-9
		if outside && !math.IsNaN(got[j]) {
			t.Fatalf("extrapolated value %v at x=%v", got[j], xv)
		}

		if !outside && math.IsNaN(got[j]) {
			t.Fatalf("missing value at covered x=%v", xv)
		}
	}
}

func TestResamplePreservesGaps(t *testing.T) {
	x := testutil.EnergyAxis(0, 1, 30)
	y := testutil.PeakCurve(1, 4, 0.2, []float64{0.3, 0.8}, 30)
	y = testutil.WithGap(y, 10, 15)

	newX := testutil.EnergyAxis(0, 0.5, 59)

	got, err := resample.Resample(x, newX, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for j, xv := range newX {
		inGap := xv > 9+1e-9 && xv < 15-1e-9
		if inGap && !math.IsNaN(got[j]) {
			t.Fatalf("gap invented value %v at x=%v", got[j], xv)
		}
	}

	// Both flanks keep data.
	if math.IsNaN(got[10]) || math.IsNaN(got[40]) {
		t.Fatalf("valid flank lost: %v / %v", got[10], got[40])
	}
}

func TestResampleSinglePointRange(t *testing.T) {
	x := testutil.EnergyAxis(0, 1, 7)
	y := []float64{math.NaN(), math.NaN(), 5, math.NaN(), 1, 2, 3}

	got, err := resample.Resample(x, x, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.RequireCurvesNearlyEqual(t, got, y, 1e-12)
}

func TestResampleMismatchedLength(t *testing.T) {
	if _, err := resample.Resample([]float64{1, 2}, []float64{1}, []float64{1}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

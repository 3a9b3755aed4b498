package average_test

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-iv/internal/testutil"
	"github.com/cwbudde/algo-iv/iv/average"
)

func nan() float64 { return math.NaN() }

func TestMergePartialCurveIntoFull(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5}
	b := []float64{nan(), nan(), 3, 4, 5}

	got, err := average.Merge([][]float64{a, b}, average.Options{
		MinOverlap:  2,
		BlendLength: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// B agrees with A over the whole overlap, so the merge must return
	// A exactly: identical values cannot produce blending artifacts.
	testutil.RequireCurvesNearlyEqual(t, got, a, 1e-12)
}

func TestMergeSelfIsIdentity(t *testing.T) {
	c := testutil.PeakCurve(2, 8, 0.15, []float64{0.4, 0.8}, 50)
	c = testutil.WithGap(c, 10, 12)

	got, err := average.Merge([][]float64{c, c}, average.Options{MinOverlap: 5, BlendLength: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Weights double but the normalized output is unchanged. The gap is
	// outside the common range, so it is carried over as-is.
	testutil.RequireCurvesNearlyEqual(t, got, c, 1e-12)
}

func TestMergeCorrectsConstantDrift(t *testing.T) {
	const n = 30

	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = 10
		b[i] = 20
	}

	// A covers the left 20 points, B the right 20; they overlap by 10.
	a = testutil.WithGap(a, 20, n)
	b = testutil.WithGap(b, 0, 10)

	got, err := average.Merge([][]float64{a, b}, average.Options{MinOverlap: 5, BlendLength: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The drift correction splits the factor-2 ratio evenly in log
	// space, so the whole merged curve settles at sqrt(10*20).
	want := math.Sqrt(200)
	for i, v := range got {
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("index %d: got %v, want %v", i, v, want)
		}
	}
}

func TestMergeJoinStaysSmooth(t *testing.T) {
	const n = 100

	base := testutil.PeakCurve(5, 10, 0.1, []float64{0.3, 0.6, 0.9}, n)

	a := testutil.WithGap(base, 60, n)
	b := testutil.WithGap(base, 0, 40)

	got, err := average.Merge([][]float64{a, b}, average.Options{MinOverlap: 10, BlendLength: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Both sources are cuts of the same curve; the merge must
	// reconstruct it without artifacts anywhere, including the joins.
	testutil.RequireCurvesNearlyEqual(t, got, base, 1e-9)
}

func TestMergeInsufficientOverlapReturnsBestSingle(t *testing.T) {
	a := []float64{1, 2, 3, nan(), nan(), nan(), nan(), nan()}
	b := []float64{nan(), nan(), nan(), nan(), 5, 6, 7, 8}

	got, err := average.Merge([][]float64{a, b}, average.Options{MinOverlap: 2, BlendLength: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No pair overlaps, so the curve with the longest valid run wins.
	testutil.RequireCurvesNearlyEqual(t, got, b, 0)
}

func TestMergeSkipsCurveBelowMinOverlap(t *testing.T) {
	const n = 40

	base := testutil.PeakCurve(4, 6, 0.2, []float64{0.5}, n)

	a := testutil.WithGap(base, 30, n)
	b := testutil.WithGap(base, 0, 10)
	short := testutil.WithGap(base, 3, n) // only 3 points, below MinOverlap

	got, err := average.Merge([][]float64{a, b, short}, average.Options{MinOverlap: 8, BlendLength: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The short curve is skipped, not fatal; a and b still merge.
	testutil.RequireCurvesNearlyEqual(t, got, base, 1e-9)
}

func TestMergeNoUsableData(t *testing.T) {
	empty := []float64{nan(), nan(), nan()}

	got, err := average.Merge([][]float64{empty, empty}, average.Options{MinOverlap: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != nil {
		t.Fatalf("got %v, want nil", got)
	}

	got, err = average.Merge(nil, average.Options{MinOverlap: 1})
	if err != nil || got != nil {
		t.Fatalf("nil input: got %v, %v", got, err)
	}
}

func TestMergeWindowRestriction(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6}
	b := []float64{1, 2, 3, 4, 5, 6}

	got, err := average.Merge([][]float64{a, b}, average.Options{
		MinOverlap:  2,
		BlendLength: 1,
		Start:       1,
		End:         5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{nan(), 2, 3, 4, 5, nan()}
	testutil.RequireCurvesNearlyEqual(t, got, want, 1e-12)
}

func TestMergeMismatchedLength(t *testing.T) {
	if _, err := average.Merge([][]float64{{1, 2}, {1}}, average.Options{}); err == nil {
		t.Fatalf("expected length mismatch error")
	}
}

func TestMergeIgnoresImplausibleRatio(t *testing.T) {
	const n = 40

	a := make([]float64, n)
	b := make([]float64, n)
	for i := range a {
		a[i] = 10
		b[i] = 10000 // ratio far beyond the sanity bound
	}

	a = testutil.WithGap(a, 30, n)
	b = testutil.WithGap(b, 0, 10)

	got, err := average.Merge([][]float64{a, b}, average.Options{MinOverlap: 5, BlendLength: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The drift estimate is discarded, so the overlap degrades to a
	// plain weighted average instead of a corrected blend.
	for i := 0; i < 10; i++ {
		if math.Abs(got[i]-10) > 1e-9 {
			t.Fatalf("index %d: left segment rescaled: %v", i, got[i])
		}
	}

	for i := 30; i < n; i++ {
		if math.Abs(got[i]-10000) > 1e-9 {
			t.Fatalf("index %d: right segment rescaled: %v", i, got[i])
		}
	}
}

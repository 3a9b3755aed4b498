package average

import (
	"math"

	"github.com/cwbudde/algo-iv/iv/curve"
	"github.com/cwbudde/algo-vecmath"
)

// driftLine is the linear trend of log(new/average) across the common
// range, evaluated per point and clamped to the range boundaries outside
// of it.
type driftLine struct {
	intercept float64
	slope     float64
	lo, hi    int // clamp domain, inclusive
}

func (d driftLine) at(i int) float64 {
	if i < d.lo {
		i = d.lo
	}

	if i > d.hi {
		i = d.hi
	}

	return d.intercept + d.slope*float64(i)
}

// mergeSmoothly folds newCurve into the running (sum, weight) state.
//
// The longest contiguous jointly valid run is the common range. Inside
// it, both contributions are corrected by the drift line (split evenly in
// log space) and combined with per-curve weights that ramp linearly over
// the blend length wherever one curve's data begins or ends at a common
// range boundary while the other continues. Outside the common range,
// stretches covered by only one curve are carried over, scaled by the
// correction factor at the nearest common-range edge.
func mergeSmoothly(st *blendState, newCurve []float64, blendLength int, win curve.Range) {
	avg := st.average()

	common := longestJointRun(avg, newCurve, win)
	if common.Empty() {
		return
	}

	drift := estimateDrift(avg, newCurve, common, blendLength)

	oldFadeL, newFadeL := fades(avg, newCurve, common.Start-1, win.Start-1)
	oldFadeR, newFadeR := fades(avg, newCurve, common.End, win.End)

	for i := common.Start; i < common.End; i++ {
		l := drift.at(i)
		factorOld := math.Exp(0.5 * l)
		factorNew := math.Exp(-0.5 * l)

		weightOld := fadeWeight(i, common, blendLength, oldFadeL, oldFadeR)
		weightNew := fadeWeight(i, common, blendLength, newFadeL, newFadeR)

		st.sum[i] = st.sum[i]*factorOld*weightOld + newCurve[i]*factorNew*weightNew
		st.weight[i] = st.weight[i]*weightOld + weightNew
	}

	spliceOutside(st, newCurve, drift, common, win)
}

// fades reports which of the two curves begins or ends at a common-range
// boundary. edge is the index just outside the boundary; a curve fades
// only if it stops there while the other curve continues. At the window
// edge neither curve fades.
func fades(avg, newCurve []float64, edge, windowEdge int) (oldFades, newFades bool) {
	if edge == windowEdge {
		return false, false
	}

	oldValid := curve.IsValid(avg, edge)
	newValid := curve.IsValid(newCurve, edge)

	return newValid && !oldValid, oldValid && !newValid
}

// fadeWeight ramps a curve's weight linearly from near zero to one over
// the first or last blendLength points of the common range. The ramp
// never reaches exactly zero, so the accumulated weight stays positive.
func fadeWeight(i int, common curve.Range, blendLength int, fadeLeft, fadeRight bool) float64 {
	w := 1.0

	if fadeLeft {
		if d := i - common.Start; d < blendLength {
			w = float64(d+1) / float64(blendLength+1)
		}
	}

	if fadeRight {
		if d := common.End - 1 - i; d < blendLength {
			if r := float64(d+1) / float64(blendLength+1); r < w {
				w = r
			}
		}
	}

	return w
}

// estimateDrift fits log(new/average) across the common range. Long
// overlaps use two sub-windows at the range edges; short overlaps, or
// overlaps where both sub-window estimates fail the sanity bound, fall
// back to a single whole-range estimate. If that fails too, the drift is
// taken as zero and the merge degrades to a plain weighted average.
func estimateDrift(avg, newCurve []float64, common curve.Range, blendLength int) driftLine {
	drift := driftLine{lo: common.Start, hi: common.End - 1}

	window := ratioWindowFactor * blendLength

	var positions, logs []float64

	if common.Len() > shortOverlapFactor*blendLength {
		for _, r := range []curve.Range{
			{Start: common.Start, End: common.Start + window},
			{Start: common.End - window, End: common.End},
		} {
			if l, ok := logRatio(avg, newCurve, r); ok {
				positions = append(positions, 0.5*float64(r.Start+r.End-1))
				logs = append(logs, l)
			}
		}
	}

	if len(logs) == 0 {
		if l, ok := logRatio(avg, newCurve, common); ok {
			positions = append(positions, 0.5*float64(common.Start+common.End-1))
			logs = append(logs, l)
		}
	}

	switch len(logs) {
	case 2:
		drift.slope = (logs[1] - logs[0]) / (positions[1] - positions[0])
		drift.intercept = logs[0] - drift.slope*positions[0]
	case 1:
		drift.intercept = logs[0]
	}

	return drift
}

// logRatio estimates log(sum(new)/sum(avg)) over r. Estimates outside
// the [1/maxRatio, maxRatio] sanity bound are rejected.
func logRatio(avg, newCurve []float64, r curve.Range) (float64, bool) {
	var sumOld, sumNew float64

	for i := r.Start; i < r.End; i++ {
		sumOld += avg[i]
		sumNew += newCurve[i]
	}

	ratio := sumNew / sumOld
	if math.IsNaN(ratio) || ratio < 1/maxRatio || ratio > maxRatio {
		return 0, false
	}

	return math.Log(ratio), true
}

// spliceOutside carries single-curve stretches outside the common range
// into the state, scaled by the boundary correction factor so spliced
// segments stay consistent with the blended overlap.
func spliceOutside(st *blendState, newCurve []float64, drift driftLine, common, win curve.Range) {
	edgeL := drift.at(common.Start)
	edgeR := drift.at(common.End - 1)

	scaleOld(st, win.Start, common.Start, math.Exp(0.5*edgeL))
	scaleOld(st, common.End, win.End, math.Exp(0.5*edgeR))

	copyNew(st, newCurve, win.Start, common.Start, math.Exp(-0.5*edgeL))
	copyNew(st, newCurve, common.End, win.End, math.Exp(-0.5*edgeR))
}

// scaleOld multiplies the accumulated sum over [start, end) by factor.
// Uncovered positions hold zero, so a block scale is safe.
func scaleOld(st *blendState, start, end int, factor float64) {
	if start >= end || factor == 1 {
		return
	}

	vecmath.ScaleBlock(st.sum[start:end], st.sum[start:end], factor)
}

// copyNew adopts positions of newCurve not yet covered by the state,
// scaled by the boundary factor, with weight 1.
func copyNew(st *blendState, newCurve []float64, start, end int, factor float64) {
	for i := start; i < end; i++ {
		if st.weight[i] == 0 && curve.IsValid(newCurve, i) {
			st.sum[i] = newCurve[i] * factor
			st.weight[i] = 1
		}
	}
}

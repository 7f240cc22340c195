// Package copula imposes an approximate Spearman rank-correlation structure
// on independently sampled sequences. Pairwise reordering blends target and
// random ranks; the full-matrix path applies the pairwise step greedily
// against the strongest already-placed partner. The full-matrix algorithm is
// a heuristic approximation of Iman-Conover: with conflicting pairwise
// targets in higher dimensions the achieved matrix can differ materially
// from the target, which is why the Frobenius error is always reported.
package copula

import (
	"math"
	"sort"

	"github.com/sawpanic/scenariorun/internal/rng"
)

// minPairTarget is the |rho| below which a pairwise reordering is skipped.
const minPairTarget = 0.01

// shrinkFactor scales off-diagonal entries during nearest-PD repair.
const shrinkFactor = 0.9

// maxShrinkRounds bounds the repair loop; repeated shrinking converges on a
// strictly diagonally dominant matrix, which always passes the pivot check.
const maxShrinkRounds = 64

// Ranks returns ascending 0-based ranks with ties broken stably by original
// index.
func Ranks(xs []float64) []int {
	idx := make([]int, len(xs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })
	ranks := make([]int, len(xs))
	for r, i := range idx {
		ranks[i] = r
	}
	return ranks
}

// Spearman computes the rank correlation of two equal-length sequences as a
// Pearson correlation on their ranks. Degenerate inputs return 0.
func Spearman(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}
	ra, rb := Ranks(a), Ranks(b)
	mean := float64(n-1) / 2
	var cov, va, vb float64
	for i := 0; i < n; i++ {
		da := float64(ra[i]) - mean
		db := float64(rb[i]) - mean
		cov += da * db
		va += da * da
		vb += db * db
	}
	if va == 0 || vb == 0 {
		return 0
	}
	return cov / math.Sqrt(va*vb)
}

// Impose reorders b to approximate the target Spearman correlation with a,
// returning the reordered sequence and the achieved correlation. Each index
// blends a's rank with a uniformly random rank, weighted by |rho|: the rank
// of a is kept with probability |rho| and a uniform rank is drawn otherwise.
// (A deterministic linear blend of the two ranks overshoots the target, with
// achieved rho near w/sqrt(w²+(1-w)²); the probabilistic blend converges on
// the target itself.) The value at the clamped rank of sorted(b) is
// selected, with the rank inverted for negative targets. Any rho in [-1, 1]
// is tolerated.
func Impose(a, b []float64, rho float64, g *rng.Generator) ([]float64, float64) {
	n := len(a)
	if n == 0 || n != len(b) {
		return append([]float64(nil), b...), 0
	}
	ranksA := Ranks(a)
	sortedB := append([]float64(nil), b...)
	sort.Float64s(sortedB)

	w := math.Abs(rho)
	if w > 1 {
		w = 1
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		var r int
		if g.Next() < w {
			r = ranksA[i]
		} else {
			r = int(g.Next() * float64(n))
		}
		if r < 0 {
			r = 0
		}
		if r > n-1 {
			r = n - 1
		}
		if rho < 0 {
			r = n - 1 - r
		}
		out[i] = sortedB[r]
	}
	return out, Spearman(a, out)
}

// MatrixResult reports the outcome of a full-matrix reordering.
type MatrixResult struct {
	// Achieved is the full Spearman matrix after reordering.
	Achieved [][]float64
	// Frobenius is the distance between Achieved and the (possibly
	// repaired) target.
	Frobenius float64
	// Feasible is false when the original target failed the Cholesky
	// pivot check.
	Feasible bool
	// Repaired is true when a nearest-PD shrink replaced the target.
	Repaired bool
}

// ImposeMatrix reorders samples in place toward the target correlation
// matrix. The first variable is left untouched; each subsequent variable is
// pairwise-reordered against the already-processed variable with the largest
// absolute target correlation, skipping targets below minPairTarget. An
// infeasible target never fails the call: it is either shrink-repaired (when
// allowed) or used as-is, and the discrepancy surfaces in the result.
//
// The target is assumed square, symmetric and of matching dimension; the
// orchestrator validates that before sampling.
func ImposeMatrix(samples [][]float64, target [][]float64, allowNearestPD bool, g *rng.Generator) MatrixResult {
	k := len(samples)
	work := target
	feasible := choleskyFeasible(target)
	repaired := false
	if !feasible && allowNearestPD {
		work = nearestPD(target)
		repaired = true
	}

	for j := 1; j < k; j++ {
		best := -1
		bestAbs := 0.0
		for i := 0; i < j; i++ {
			if abs := math.Abs(work[i][j]); abs > bestAbs {
				bestAbs = abs
				best = i
			}
		}
		if best < 0 || bestAbs < minPairTarget {
			continue
		}
		reordered, _ := Impose(samples[best], samples[j], work[best][j], g)
		samples[j] = reordered
	}

	achieved := make([][]float64, k)
	for i := range achieved {
		achieved[i] = make([]float64, k)
		achieved[i][i] = 1
	}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			rho := Spearman(samples[i], samples[j])
			achieved[i][j] = rho
			achieved[j][i] = rho
		}
	}

	var sq float64
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			d := achieved[i][j] - work[i][j]
			sq += d * d
		}
	}

	return MatrixResult{
		Achieved:  achieved,
		Frobenius: math.Sqrt(sq),
		Feasible:  feasible,
		Repaired:  repaired,
	}
}

// choleskyFeasible runs an iterative elimination and reports whether every
// pivot stays positive.
func choleskyFeasible(m [][]float64) bool {
	n := len(m)
	a := make([][]float64, n)
	for i := range a {
		a[i] = append([]float64(nil), m[i]...)
	}
	for i := 0; i < n; i++ {
		for k := 0; k < i; k++ {
			a[i][i] -= a[i][k] * a[i][k]
		}
		if a[i][i] <= 0 {
			return false
		}
		a[i][i] = math.Sqrt(a[i][i])
		for j := i + 1; j < n; j++ {
			for k := 0; k < i; k++ {
				a[j][i] -= a[j][k] * a[i][k]
			}
			a[j][i] /= a[i][i]
		}
	}
	return true
}

// nearestPD shrinks off-diagonal entries by a fixed factor, forcing a unit
// diagonal, until the matrix passes the feasibility check. A crude projection
// rather than an eigenvalue clip, but the contract only requires a symmetric
// unit-diagonal result that passes the pivot check.
func nearestPD(m [][]float64) [][]float64 {
	n := len(m)
	out := make([][]float64, n)
	for i := range out {
		out[i] = append([]float64(nil), m[i]...)
		out[i][i] = 1
	}
	for round := 0; round < maxShrinkRounds; round++ {
		if choleskyFeasible(out) {
			break
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i != j {
					out[i][j] *= shrinkFactor
				}
			}
		}
	}
	return out
}

// Package risk reduces an outcome vector to its risk and performance
// metrics: expected value, tail measures, economic capital and RAROC, plus
// the optional expected-utility and Total Cost of Risk blocks.
package risk

import (
	"math"
	"sort"

	"github.com/sawpanic/scenariorun/internal/scenario"
)

// Metrics is the core reduction of one outcome vector.
type Metrics struct {
	EV              float64
	VaR95           float64
	CVaR95          float64
	EconomicCapital float64
	RAROC           float64
}

// Reduce computes the core metrics from horizon-scaled outcomes. VaR95 is
// the sorted value at floor(N*0.05); CVaR95 is the mean of the tail at or
// below that index. Economic capital is sized from the annualized tail
// (|CVaR95|/h, floored at 1) and scaled by sqrt(h), so that doubling the
// horizon doubles EV but grows capital by sqrt(2).
func Reduce(outcomes []float64, h float64) Metrics {
	n := len(outcomes)
	if n == 0 {
		return Metrics{}
	}
	sorted := append([]float64(nil), outcomes...)
	sort.Float64s(sorted)

	ev := mean(outcomes)

	varIdx := int(float64(n) * 0.05)
	if varIdx > n-1 {
		varIdx = n - 1
	}
	v := sorted[varIdx]

	cv := v
	if tail := sorted[:varIdx+1]; len(tail) > 0 {
		cv = mean(tail)
	}

	if h <= 0 {
		h = 1
	}
	ec := math.Max(1, math.Abs(cv)/h) * math.Sqrt(h)

	return Metrics{
		EV:              ev,
		VaR95:           v,
		CVaR95:          cv,
		EconomicCapital: ec,
		RAROC:           ev / ec,
	}
}

// TCOR computes the Total Cost of Risk breakdown: expected loss from the
// simulated downside, insurance as a fraction of the option's base cost,
// contingency as a fraction of economic capital, and the option's mitigation
// cost.
func TCOR(outcomes []float64, economicCapital float64, opt scenario.Option, p scenario.TCORParams) scenario.TCORResult {
	var negCount int
	var negSum float64
	for _, x := range outcomes {
		if x < 0 {
			negCount++
			negSum += -x
		}
	}
	pLoss := 0.0
	meanLoss := 0.0
	if len(outcomes) > 0 {
		pLoss = float64(negCount) / float64(len(outcomes))
	}
	if negCount > 0 {
		meanLoss = negSum / float64(negCount)
	}

	res := scenario.TCORResult{
		ExpectedLoss: pLoss * meanLoss,
		Insurance:    p.InsuranceRate * opt.BaseCost,
		Contingency:  p.ContingencyRate * economicCapital,
		Mitigation:   opt.MitigationCost,
	}
	res.Total = res.ExpectedLoss + res.Insurance + res.Contingency + res.Mitigation
	return res
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

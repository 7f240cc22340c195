package risk

import (
	"math"

	"github.com/sawpanic/scenariorun/internal/scenario"
)

// nearZero treats risk-aversion coefficients this close to zero (or CRRA
// gamma this close to one) as their closed-form limit case.
const nearZero = 1e-9

// Utility computes expected utility and the certainty equivalent for the
// configured mode. Outcomes are divided by the scale before the transform
// and the certainty equivalent is reported back in outcome units. Transforms
// that are undefined for part of the distribution (CRRA/Power on
// non-positive outcomes) contribute -Inf per run; averaging propagates that
// and the caller reads a -Inf/NaN certainty equivalent as "undefined under
// this utility".
func Utility(outcomes []float64, p scenario.UtilityParams) scenario.UtilityResult {
	scale := p.OutcomeScale
	if scale == 0 {
		scale = 1
	}
	a := p.RiskAversion

	var sum float64
	for _, x := range outcomes {
		sum += utilityOf(p.Mode, a, x/scale)
	}
	eu := sum / float64(len(outcomes))

	return scenario.UtilityResult{
		Mode:                p.Mode,
		ExpectedUtility:     eu,
		CertaintyEquivalent: certaintyEquivalent(p.Mode, a, eu) * scale,
	}
}

func utilityOf(mode scenario.UtilityMode, a, x float64) float64 {
	switch mode {
	case scenario.UtilityCARA:
		if math.Abs(a) < nearZero {
			return x
		}
		return 1 - math.Exp(-a*x)

	case scenario.UtilityCRRA:
		if x <= 0 {
			return math.Inf(-1)
		}
		gamma := a
		if math.Abs(gamma-1) < nearZero {
			return math.Log(x)
		}
		return math.Pow(x, 1-gamma) / (1 - gamma)

	case scenario.UtilityExponential:
		if math.Abs(a) < nearZero {
			return x
		}
		return -math.Exp(-a * x)

	case scenario.UtilityQuadratic:
		return x - (a/2)*x*x

	case scenario.UtilityPower:
		if x <= 0 {
			return math.Inf(-1)
		}
		alpha := 1 - a
		if math.Abs(alpha) < nearZero {
			return math.Log(x)
		}
		return math.Pow(x, alpha) / alpha
	}
	return x
}

// certaintyEquivalent inverts each mode's transform analytically. Inversions
// of out-of-domain or non-finite expected utilities produce NaN, never a
// panic.
func certaintyEquivalent(mode scenario.UtilityMode, a, eu float64) float64 {
	if math.IsNaN(eu) || math.IsInf(eu, 0) {
		return math.NaN()
	}
	switch mode {
	case scenario.UtilityCARA:
		if math.Abs(a) < nearZero {
			return eu
		}
		return -math.Log(1-eu) / a

	case scenario.UtilityCRRA:
		gamma := a
		if math.Abs(gamma-1) < nearZero {
			return math.Exp(eu)
		}
		return math.Pow((1-gamma)*eu, 1/(1-gamma))

	case scenario.UtilityExponential:
		if math.Abs(a) < nearZero {
			return eu
		}
		return -math.Log(-eu) / a

	case scenario.UtilityQuadratic:
		if math.Abs(a) < nearZero {
			return eu
		}
		disc := 1 - 2*a*eu
		if disc < 0 {
			return math.NaN()
		}
		return (1 - math.Sqrt(disc)) / a

	case scenario.UtilityPower:
		alpha := 1 - a
		if math.Abs(alpha) < nearZero {
			return math.Exp(eu)
		}
		return math.Pow(alpha*eu, 1/alpha)
	}
	return eu
}

package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/scenariorun/internal/scenario"
)

// A riskless outcome must round-trip through every mode: the certainty
// equivalent of a constant is the constant.
func TestUtility_ConstantOutcomeRoundTrip(t *testing.T) {
	constant := []float64{80, 80, 80, 80}

	cases := []scenario.UtilityParams{
		{Mode: scenario.UtilityCARA, RiskAversion: 2, OutcomeScale: 100},
		{Mode: scenario.UtilityCRRA, RiskAversion: 2, OutcomeScale: 100},
		{Mode: scenario.UtilityCRRA, RiskAversion: 1, OutcomeScale: 100}, // log-utility branch
		{Mode: scenario.UtilityExponential, RiskAversion: 1, OutcomeScale: 100},
		{Mode: scenario.UtilityQuadratic, RiskAversion: 0.5, OutcomeScale: 100},
		{Mode: scenario.UtilityPower, RiskAversion: 0.5, OutcomeScale: 100},
	}
	for _, params := range cases {
		res := Utility(constant, params)
		assert.InDelta(t, 80.0, res.CertaintyEquivalent, 1e-9,
			"mode %s should invert its own transform", params.Mode)
	}
}

func TestUtility_RiskAversionDiscountsCE(t *testing.T) {
	risky := []float64{50, 150} // mean 100

	cases := []scenario.UtilityParams{
		{Mode: scenario.UtilityCARA, RiskAversion: 1, OutcomeScale: 100},
		{Mode: scenario.UtilityCRRA, RiskAversion: 2, OutcomeScale: 100},
		{Mode: scenario.UtilityExponential, RiskAversion: 1, OutcomeScale: 100},
		{Mode: scenario.UtilityQuadratic, RiskAversion: 0.5, OutcomeScale: 100},
		{Mode: scenario.UtilityPower, RiskAversion: 0.5, OutcomeScale: 100},
	}
	for _, params := range cases {
		res := Utility(risky, params)
		assert.Less(t, res.CertaintyEquivalent, 100.0,
			"mode %s: a risk averse CE must sit below the mean", params.Mode)
		assert.Greater(t, res.CertaintyEquivalent, 0.0)
	}
}

func TestUtility_NearZeroAversionIsRiskNeutral(t *testing.T) {
	risky := []float64{50, 150}

	res := Utility(risky, scenario.UtilityParams{
		Mode:         scenario.UtilityCARA,
		RiskAversion: 1e-12,
		OutcomeScale: 100,
	})
	assert.InDelta(t, 100.0, res.CertaintyEquivalent, 1e-6)
}

func TestUtility_CRRAUndefinedOnLosses(t *testing.T) {
	outcomes := []float64{-10, 50}

	res := Utility(outcomes, scenario.UtilityParams{
		Mode:         scenario.UtilityCRRA,
		RiskAversion: 2,
		OutcomeScale: 100,
	})
	assert.True(t, math.IsInf(res.ExpectedUtility, -1))
	assert.True(t, math.IsNaN(res.CertaintyEquivalent),
		"undefined utility must surface as NaN, not panic")
}

func TestUtility_PowerUndefinedOnLosses(t *testing.T) {
	outcomes := []float64{-10, 50}

	res := Utility(outcomes, scenario.UtilityParams{
		Mode:         scenario.UtilityPower,
		RiskAversion: 0.5,
		OutcomeScale: 100,
	})
	assert.True(t, math.IsInf(res.ExpectedUtility, -1))
	assert.True(t, math.IsNaN(res.CertaintyEquivalent))
}

func TestUtility_ZeroScaleDefaultsToUnit(t *testing.T) {
	res := Utility([]float64{0.8, 0.8}, scenario.UtilityParams{
		Mode:         scenario.UtilityCARA,
		RiskAversion: 2,
	})
	assert.InDelta(t, 0.8, res.CertaintyEquivalent, 1e-9)
}

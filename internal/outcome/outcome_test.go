package outcome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/scenariorun/internal/rng"
	"github.com/sawpanic/scenariorun/internal/scenario"
)

func fixedSamples(values ...[]float64) [][]float64 {
	return values
}

func TestSynthesize_MultiplicativeFactors(t *testing.T) {
	opt := scenario.Option{BaseReturn: 100, BaseCost: 50}
	vars := []scenario.Variable{
		{ID: "r", AppliesTo: scenario.TargetReturn, Weight: 1},
		{ID: "c", AppliesTo: scenario.TargetCost, Weight: 0.5},
	}
	samples := fixedSamples(
		[]float64{0.1, -0.2},
		[]float64{0.2, 0.4},
	)

	out := Synthesize(opt, vars, samples, 2, nil, "", rng.New(1))
	require.Len(t, out, 2)

	// run 0: return 100*(1+0.1)=110, cost 50*(1+0.5*0.2)=55
	assert.InDelta(t, 110-55, out[0], 1e-12)
	// run 1: return 100*0.8=80, cost 50*1.2=60
	assert.InDelta(t, 80-60, out[1], 1e-12)
}

func TestSynthesize_ClampsSidesNonNegative(t *testing.T) {
	opt := scenario.Option{BaseReturn: 100, BaseCost: 50}
	vars := []scenario.Variable{
		{ID: "crash", AppliesTo: scenario.TargetReturn, Weight: 1},
	}
	samples := fixedSamples([]float64{-5}) // factor 1-5 = -4

	out := Synthesize(opt, vars, samples, 1, nil, "", rng.New(1))
	assert.Equal(t, -50.0, out[0], "return clamps to zero, cost remains")
}

func gameConfig(prob float64) *scenario.GameConfig {
	return &scenario.GameConfig{
		UndercutProbability: prob,
		Multipliers: map[scenario.Strategy]map[scenario.Response]scenario.ResponseMultipliers{
			scenario.StrategyConservative: {
				scenario.ResponseUndercut: {Return: 0.8, Cost: 1.1},
				scenario.ResponseMatch:    {Return: 0.95, Cost: 1.0},
			},
		},
	}
}

func TestSynthesize_GameUndercutAlways(t *testing.T) {
	opt := scenario.Option{BaseReturn: 100, BaseCost: 50}
	vars := []scenario.Variable{{ID: "noop", AppliesTo: scenario.TargetReturn, Weight: 0}}
	samples := fixedSamples([]float64{0, 0, 0})

	out := Synthesize(opt, vars, samples, 3, gameConfig(1), scenario.StrategyConservative, rng.New(1))
	for _, x := range out {
		assert.InDelta(t, 100*0.8-50*1.1, x, 1e-12)
	}
}

func TestSynthesize_GameMatchAlways(t *testing.T) {
	opt := scenario.Option{BaseReturn: 100, BaseCost: 50}
	vars := []scenario.Variable{{ID: "noop", AppliesTo: scenario.TargetReturn, Weight: 0}}
	samples := fixedSamples([]float64{0, 0, 0})

	out := Synthesize(opt, vars, samples, 3, gameConfig(0), scenario.StrategyConservative, rng.New(1))
	for _, x := range out {
		assert.InDelta(t, 100*0.95-50, x, 1e-12)
	}
}

func TestEffectiveHorizon_Precedence(t *testing.T) {
	assert.Equal(t, 6, EffectiveHorizon(scenario.Option{HorizonMonths: 6}, 24))
	assert.Equal(t, 24, EffectiveHorizon(scenario.Option{}, 24))
	assert.Equal(t, 12, EffectiveHorizon(scenario.Option{}, 0))
}

func TestScaleHorizon_ScalesInPlace(t *testing.T) {
	outcomes := []float64{10, -20, 30}

	h := ScaleHorizon(outcomes, 24)
	assert.Equal(t, 2.0, h)
	assert.Equal(t, []float64{20, -40, 60}, outcomes)
}

func TestScaleHorizon_AnnualIsIdentity(t *testing.T) {
	outcomes := []float64{10, -20}

	h := ScaleHorizon(outcomes, 12)
	assert.Equal(t, 1.0, h)
	assert.Equal(t, []float64{10, -20}, outcomes)
}

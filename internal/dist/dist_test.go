package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/scenariorun/internal/rng"
	"github.com/sawpanic/scenariorun/internal/scenario"
)

func normalVar(id string, mean, sd float64) scenario.Variable {
	return scenario.Variable{
		ID:           id,
		AppliesTo:    scenario.TargetReturn,
		Distribution: scenario.DistNormal,
		Params:       map[string]float64{"mean": mean, "sd": sd},
		Weight:       1,
	}
}

func moments(xs []float64) (mean, sd float64) {
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		sd += (x - mean) * (x - mean)
	}
	return mean, math.Sqrt(sd / float64(len(xs)))
}

func TestSample_Normal_MomentRecovery(t *testing.T) {
	g := rng.New(42)
	v := normalVar("growth", 10, 2)

	const n = 100000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(v, nil, g)
	}

	mean, sd := moments(xs)
	assert.InDelta(t, 10.0, mean, 0.05)
	assert.InDelta(t, 2.0, sd, 0.05)
}

func TestSample_Normal_ZeroSpreadIsDeterministic(t *testing.T) {
	g := rng.New(1)
	v := normalVar("flat", 3.5, 0)

	for i := 0; i < 100; i++ {
		assert.Equal(t, 3.5, Sample(v, nil, g))
	}
}

func TestSample_Lognormal_PositiveSupport(t *testing.T) {
	g := rng.New(42)
	v := scenario.Variable{
		ID:           "demand",
		Distribution: scenario.DistLognormal,
		Params:       map[string]float64{"mu": 0, "sigma": 0.25},
	}

	const n = 100000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(v, nil, g)
		assert.Greater(t, xs[i], 0.0)
	}

	mean, _ := moments(xs)
	assert.InDelta(t, math.Exp(0.25*0.25/2), mean, 0.02)
}

func TestSample_Lognormal_ZeroSigmaIsDeterministic(t *testing.T) {
	g := rng.New(1)
	v := scenario.Variable{
		ID:           "fixed",
		Distribution: scenario.DistLognormal,
		Params:       map[string]float64{"mu": 1.5, "sigma": 0},
	}

	assert.Equal(t, math.Exp(1.5), Sample(v, nil, g))
}

func TestSample_Triangular_SupportBounds(t *testing.T) {
	g := rng.New(42)
	v := scenario.Variable{
		ID:           "delay",
		Distribution: scenario.DistTriangular,
		Params:       map[string]float64{"min": 0, "mode": 5, "max": 10},
	}

	const n = 100000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(v, nil, g)
		assert.GreaterOrEqual(t, xs[i], 0.0)
		assert.LessOrEqual(t, xs[i], 10.0)
	}

	mean, _ := moments(xs)
	assert.InDelta(t, 5.0, mean, 0.1)
}

func TestSample_Triangular_CollapsedBounds(t *testing.T) {
	g := rng.New(1)
	v := scenario.Variable{
		ID:           "fixed",
		Distribution: scenario.DistTriangular,
		Params:       map[string]float64{"min": 4, "mode": 4, "max": 4},
	}

	assert.Equal(t, 4.0, Sample(v, nil, g))
}

func TestSample_Uniform_Range(t *testing.T) {
	g := rng.New(42)
	v := scenario.Variable{
		ID:           "share",
		Distribution: scenario.DistUniform,
		Params:       map[string]float64{"min": 0, "max": 1},
	}

	for i := 0; i < 100000; i++ {
		x := Sample(v, nil, g)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestSample_Uniform_EqualBounds(t *testing.T) {
	g := rng.New(1)
	v := scenario.Variable{
		ID:           "fixed",
		Distribution: scenario.DistUniform,
		Params:       map[string]float64{"min": 2, "max": 2},
	}

	assert.Equal(t, 2.0, Sample(v, nil, g))
}

func TestSample_PosteriorOverride_AppliedToTarget(t *testing.T) {
	g := rng.New(42)
	v := normalVar("growth", 10, 2)
	ov := &scenario.PosteriorOverride{VariableID: "growth", Mean: 20, SD: 0.5}

	const n = 50000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(v, ov, g)
	}

	mean, sd := moments(xs)
	assert.InDelta(t, 20.0, mean, 0.05)
	assert.InDelta(t, 0.5, sd, 0.05)
}

func TestSample_PosteriorOverride_IgnoredForOtherVariable(t *testing.T) {
	g := rng.New(42)
	v := normalVar("growth", 10, 2)
	ov := &scenario.PosteriorOverride{VariableID: "other", Mean: 20, SD: 0.5}

	const n = 50000
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = Sample(v, ov, g)
	}

	mean, _ := moments(xs)
	assert.InDelta(t, 10.0, mean, 0.05)
}

func TestSample_PosteriorOverride_IgnoredForUniform(t *testing.T) {
	g := rng.New(42)
	v := scenario.Variable{
		ID:           "share",
		Distribution: scenario.DistUniform,
		Params:       map[string]float64{"min": 0, "max": 1},
	}
	ov := &scenario.PosteriorOverride{VariableID: "share", Mean: 50, SD: 5}

	for i := 0; i < 1000; i++ {
		x := Sample(v, ov, g)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

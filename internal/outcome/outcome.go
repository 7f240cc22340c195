// Package outcome turns per-variable samples into one scalar outcome per
// run: base return and cost adjusted by multiplicative variable factors, an
// optional competitor-response game, and time-horizon scaling.
package outcome

import (
	"math"

	"github.com/sawpanic/scenariorun/internal/rng"
	"github.com/sawpanic/scenariorun/internal/scenario"
)

// Synthesize builds the outcome vector for one option. samples is indexed
// [variable][run]. Each variable contributes a factor 1 + weight*sample to
// its target side, with the side clamped non-negative after every
// application. When game is non-nil, one Bernoulli trial per run selects the
// competitor response and the strategy/response multipliers are applied.
// The per-run outcome is adjusted return minus adjusted cost, annualized.
func Synthesize(opt scenario.Option, vars []scenario.Variable, samples [][]float64,
	runs int, game *scenario.GameConfig, strat scenario.Strategy, g *rng.Generator) []float64 {

	out := make([]float64, runs)
	for r := 0; r < runs; r++ {
		ret := opt.BaseReturn
		cost := opt.BaseCost
		for vi, v := range vars {
			factor := 1 + v.Weight*samples[vi][r]
			if v.AppliesTo == scenario.TargetCost {
				cost = math.Max(0, cost*factor)
			} else {
				ret = math.Max(0, ret*factor)
			}
		}
		if game != nil {
			response := scenario.ResponseMatch
			if g.Next() < game.UndercutProbability {
				response = scenario.ResponseUndercut
			}
			if mult, ok := game.Multipliers[strat][response]; ok {
				ret = math.Max(0, ret*mult.Return)
				cost = math.Max(0, cost*mult.Cost)
			}
		}
		out[r] = ret - cost
	}
	return out
}

// EffectiveHorizon resolves the horizon in months: the option's own horizon
// when set, else the scenario-level horizon, else twelve.
func EffectiveHorizon(opt scenario.Option, globalMonths int) int {
	if opt.HorizonMonths > 0 {
		return opt.HorizonMonths
	}
	if globalMonths > 0 {
		return globalMonths
	}
	return 12
}

// ScaleHorizon scales the annualized outcomes in place by h = months/12 and
// returns h.
func ScaleHorizon(outcomes []float64, months int) float64 {
	h := float64(months) / 12
	for i := range outcomes {
		outcomes[i] *= h
	}
	return h
}

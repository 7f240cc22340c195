// Package dist converts uniform draws into samples from the four supported
// distributions. Degenerate parameters (zero spread, collapsed bounds) fall
// back to deterministic values instead of erroring; the sampler must never
// panic or spin on caller-supplied numbers.
package dist

import (
	"math"

	"github.com/sawpanic/scenariorun/internal/rng"
	"github.com/sawpanic/scenariorun/internal/scenario"
)

// Sample draws one value for the variable. When ov targets this variable and
// the distribution is Normal or Lognormal, the posterior mean/sd replace the
// configured location/scale parameters; other kinds ignore the override.
func Sample(v scenario.Variable, ov *scenario.PosteriorOverride, g *rng.Generator) float64 {
	switch v.Distribution {
	case scenario.DistNormal:
		mean := param(v, "mean", 0)
		sd := param(v, "sd", 0)
		if ov != nil && ov.VariableID == v.ID {
			mean, sd = ov.Mean, ov.SD
		}
		if sd <= 0 {
			return mean
		}
		return mean + sd*standardNormal(g)

	case scenario.DistLognormal:
		mu := param(v, "mu", 0)
		sigma := param(v, "sigma", 0)
		if ov != nil && ov.VariableID == v.ID {
			mu, sigma = ov.Mean, ov.SD
		}
		if sigma <= 0 {
			return math.Exp(mu)
		}
		return math.Exp(mu + sigma*standardNormal(g))

	case scenario.DistTriangular:
		lo := param(v, "min", 0)
		mode := param(v, "mode", 0)
		hi := param(v, "max", 0)
		return triangular(lo, mode, hi, g)

	case scenario.DistUniform:
		lo := param(v, "min", 0)
		hi := param(v, "max", 0)
		if hi <= lo {
			return lo
		}
		return lo + g.Next()*(hi-lo)
	}
	return 0
}

func param(v scenario.Variable, name string, def float64) float64 {
	if p, ok := v.Params[name]; ok {
		return p
	}
	return def
}

// standardNormal is a Box–Muller draw. It consumes two uniforms and resamples
// the first until it is nonzero to keep the logarithm finite.
func standardNormal(g *rng.Generator) float64 {
	u1 := g.Next()
	for u1 == 0 {
		u1 = g.Next()
	}
	u2 := g.Next()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// triangular uses the inverse CDF split at (mode-min)/(max-min). Collapsed
// bounds return the bound itself.
func triangular(lo, mode, hi float64, g *rng.Generator) float64 {
	if hi <= lo {
		return lo
	}
	if mode < lo {
		mode = lo
	}
	if mode > hi {
		mode = hi
	}
	u := g.Next()
	split := (mode - lo) / (hi - lo)
	if u < split {
		return lo + math.Sqrt(u*(hi-lo)*(mode-lo))
	}
	return hi - math.Sqrt((1-u)*(hi-lo)*(hi-mode))
}

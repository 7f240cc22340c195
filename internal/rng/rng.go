// Package rng provides the seeded pseudo-random generator every sampling
// and reordering step draws from. Reproducibility of a whole simulation
// depends only on the seed and the order of Next calls, so the generator
// is always threaded explicitly — there is no package-level stream.
package rng

// Generator is a mulberry32-class 32-bit generator. It is small, fast and
// well mixed; it is not cryptographically secure and does not need to be.
type Generator struct {
	state uint32
}

// New returns a generator seeded with the given value. Two generators with
// the same seed produce identical draw sequences.
func New(seed uint32) *Generator {
	return &Generator{state: seed}
}

// Next advances the state and returns a uniform draw in [0,1).
func (g *Generator) Next() float64 {
	g.state += 0x6D2B79F5
	z := g.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	z ^= z >> 14
	return float64(z) / (1 << 32)
}

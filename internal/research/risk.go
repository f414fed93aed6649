package research

import "math/rand/v2"

// RiskSource produces the stochastic draws compared against a node's
// configured risk probability on completion. Production uses a seeded
// generator; tests script the draws.
type RiskSource interface {
	// Draw returns a value in [0, 1).
	Draw() float64
}

// SeededRisk is a deterministic RiskSource over a seeded PCG generator.
// The same seed replays the same draw sequence.
type SeededRisk struct {
	r *rand.Rand
}

// NewSeededRisk creates a RiskSource from a seed.
func NewSeededRisk(seed int64) *SeededRisk {
	return &SeededRisk{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Draw returns the next value in [0, 1).
func (s *SeededRisk) Draw() float64 {
	return s.r.Float64()
}

// Package testutil provides deterministic test doubles for the
// simulation core: a fixed time source, a scripted risk source, and a
// sequential id generator. Tests that use these produce identical state
// and traces on every run.
package testutil

import (
	"fmt"
	"time"
)

// FixedClock returns a time source pinned to the given epoch-ms instant.
func FixedClock(ms int64) func() time.Time {
	t := time.UnixMilli(ms).UTC()
	return func() time.Time { return t }
}

// ScriptedRisk replays a fixed sequence of draws. It panics when drawn
// past the end of the script: a test that draws more than it scripted is
// asserting on behavior it did not specify.
type ScriptedRisk struct {
	draws []float64
	idx   int
}

// NewScriptedRisk creates a risk source replaying the given draws.
func NewScriptedRisk(draws ...float64) *ScriptedRisk {
	return &ScriptedRisk{draws: draws}
}

// Draw returns the next scripted value.
func (s *ScriptedRisk) Draw() float64 {
	if s.idx >= len(s.draws) {
		panic("ScriptedRisk: no more draws scripted")
	}
	v := s.draws[s.idx]
	s.idx++
	return v
}

// Remaining reports how many scripted draws are left.
func (s *ScriptedRisk) Remaining() int {
	return len(s.draws) - s.idx
}

// SequentialIDs generates "prefix-1", "prefix-2", ... ids.
type SequentialIDs struct {
	prefix string
	n      int
}

// NewSequentialIDs creates a sequential id generator.
func NewSequentialIDs(prefix string) *SequentialIDs {
	return &SequentialIDs{prefix: prefix}
}

// NewID returns the next id in sequence.
func (g *SequentialIDs) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden assembles a game for the scenario, runs it with a
// recorder attached, and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, sc *Scenario, cfg Config) {
	t.Helper()

	g := NewGame(cfg)
	defer g.Close()

	rec := NewRecorder(g.Bus)
	defer rec.Close()

	if err := sc.Run(g); err != nil {
		t.Fatalf("scenario failed: %v", err)
	}

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, sc.Name, []byte(rec.String()))
}

func contextBackground() context.Context {
	return context.Background()
}

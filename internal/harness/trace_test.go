package harness

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/research"
)

func TestFormatEvent_StableLines(t *testing.T) {
	cases := []struct {
		topic   string
		payload any
		want    string
	}{
		{bus.TopicResearchInitialized, research.InitializedEvent{Nodes: 4, Unlocked: 1}, "research:initialized nodes=4 unlocked=1"},
		{bus.TopicResearchStarted, research.StartedEvent{ID: "a", Compute: 62.5}, "research:started id=a compute=62.5"},
		{bus.TopicResearchCancelled, research.CancelledEvent{ID: "a", Progress: 0.4}, "research:cancelled id=a progress=0.4"},
		{bus.TopicResearchProgress, research.ProgressEvent{Turn: 3, Updates: []research.NodeProgress{
			{ID: "a", Progress: 0.5}, {ID: "b", Progress: 1},
		}}, "research:progress turn=3 a=0.5 b=1"},
		{bus.TopicResourceAllocate, game.AllocationRequest{Consumer: "research:a", Amount: 100}, "resource:allocate consumer=research:a amount=100"},
		{bus.TopicResourceEffect, game.EffectEvent{Kind: game.EffectComputeEfficiency, Value: 0.2, Source: "a"}, "resource:effect kind=compute_efficiency value=0.2 source=a"},
		{bus.TopicResourceEffect, game.EffectEvent{Kind: game.EffectInfluenceMultiplier, Channel: game.InfluencePublic, Value: 0.5, Source: "a"}, "resource:effect kind=influence_multiplier channel=public value=0.5 source=a"},
		{bus.TopicGameEvent, game.RiskEvent{Type: game.RiskEventType, NodeID: "a", Severity: "major", Roll: 0.25}, "game:event type=research_risk node=a severity=major roll=0.25"},
		{bus.TopicGameSaved, struct{ Unknown bool }{true}, "game:saved"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, formatEvent(tc.topic, tc.payload))
	}
}

func TestRecorder_RecordsOnlySubscribedTopics(t *testing.T) {
	b := bus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := NewRecorder(b, bus.TopicResearchCompleted)
	defer rec.Close()

	b.Emit(bus.TopicResearchCompleted, research.CompletedEvent{ID: "a", Turn: 1})
	b.Emit(bus.TopicResearchStarted, research.StartedEvent{ID: "b", Compute: 10})

	assert.Equal(t, []string{"research:completed id=a turn=1"}, rec.Lines())
	assert.Equal(t, "research:completed id=a turn=1\n", rec.String())
}

func TestRecorder_EmptyTraceIsEmptyString(t *testing.T) {
	b := bus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := NewRecorder(b)
	defer rec.Close()

	assert.Empty(t, rec.Lines())
	assert.Equal(t, "", rec.String())
}

func TestRecorder_CloseStopsRecording(t *testing.T) {
	b := bus.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	rec := NewRecorder(b, bus.TopicResearchCompleted)

	b.Emit(bus.TopicResearchCompleted, research.CompletedEvent{ID: "a", Turn: 1})
	rec.Close()
	b.Emit(bus.TopicResearchCompleted, research.CompletedEvent{ID: "b", Turn: 2})

	assert.Len(t, rec.Lines(), 1)
}

package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/manager"
	"github.com/oversight-games/ascent/internal/research"
)

// DefaultTopics is the produced-event surface recorded by default.
// stateChanged is excluded: it fires on every transition and would bury
// the domain trace.
var DefaultTopics = []string{
	bus.TopicResearchInitialized,
	bus.TopicResearchStarted,
	bus.TopicResearchCancelled,
	bus.TopicResearchComputeAlloc,
	bus.TopicResearchProgress,
	bus.TopicResearchCompleted,
	bus.TopicResearchStatusesUpdated,
	bus.TopicResearchBoostsUpdated,
	bus.TopicResourceAllocate,
	bus.TopicResourceDeallocate,
	bus.TopicResourceEffect,
	bus.TopicResourceEffectsUpdated,
	bus.TopicDeploymentUnlock,
	bus.TopicDeploymentCapacity,
	bus.TopicResourcesSpent,
	bus.TopicResourceSpendFailed,
	bus.TopicGameEvent,
	bus.TopicGameSaved,
	bus.TopicStateLoaded,
}

// Recorder captures a deterministic textual trace of bus events.
type Recorder struct {
	lines  []string
	unsubs []func()
}

// NewRecorder subscribes a recorder to the given topics (DefaultTopics
// when none are given). Subscribe the recorder before Init so the
// initialization events are part of the trace.
func NewRecorder(b *bus.Bus, topics ...string) *Recorder {
	if len(topics) == 0 {
		topics = DefaultTopics
	}
	r := &Recorder{}
	for _, topic := range topics {
		topic := topic
		r.unsubs = append(r.unsubs, b.Subscribe(topic, func(payload any) {
			r.lines = append(r.lines, formatEvent(topic, payload))
		}))
	}
	return r
}

// Lines returns the recorded trace.
func (r *Recorder) Lines() []string {
	return r.lines
}

// String returns the trace as newline-joined text with a trailing
// newline, the shape golden files store.
func (r *Recorder) String() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}

// Close unsubscribes the recorder.
func (r *Recorder) Close() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}

// formatEvent renders one event as a stable single line. Unknown payload
// shapes fall back to the topic alone so a trace never depends on map
// iteration order or pointer values.
func formatEvent(topic string, payload any) string {
	switch p := payload.(type) {
	case research.InitializedEvent:
		return fmt.Sprintf("%s nodes=%d unlocked=%d", topic, p.Nodes, p.Unlocked)
	case research.StartedEvent:
		return fmt.Sprintf("%s id=%s compute=%s", topic, p.ID, ftoa(p.Compute))
	case research.CancelledEvent:
		return fmt.Sprintf("%s id=%s progress=%s", topic, p.ID, ftoa(p.Progress))
	case research.ComputeAllocatedEvent:
		return fmt.Sprintf("%s id=%s amount=%s total=%s", topic, p.ID, ftoa(p.Amount), ftoa(p.Total))
	case research.ProgressEvent:
		parts := make([]string, 0, len(p.Updates))
		for _, u := range p.Updates {
			parts = append(parts, u.ID+"="+ftoa(u.Progress))
		}
		return fmt.Sprintf("%s turn=%d %s", topic, p.Turn, strings.Join(parts, " "))
	case research.CompletedEvent:
		return fmt.Sprintf("%s id=%s turn=%d", topic, p.ID, p.Turn)
	case research.StatusesEvent:
		parts := make([]string, 0, len(p.Changes))
		for _, c := range p.Changes {
			parts = append(parts, c.ID+"="+string(c.Status))
		}
		return fmt.Sprintf("%s %s", topic, strings.Join(parts, " "))
	case research.BoostsEvent:
		return fmt.Sprintf("%s categories=%d nodes=%d", topic, p.Categories, p.Nodes)
	case game.AllocationRequest:
		return fmt.Sprintf("%s consumer=%s amount=%s", topic, p.Consumer, ftoa(p.Amount))
	case game.DeallocationRequest:
		return fmt.Sprintf("%s consumer=%s", topic, p.Consumer)
	case game.EffectEvent:
		if p.Channel != "" {
			return fmt.Sprintf("%s kind=%s channel=%s value=%s source=%s", topic, p.Kind, p.Channel, ftoa(p.Value), p.Source)
		}
		return fmt.Sprintf("%s kind=%s value=%s source=%s", topic, p.Kind, ftoa(p.Value), p.Source)
	case game.EffectBundle:
		return fmt.Sprintf("%s efficiency=%s funding=%s quality=%s", topic,
			ftoa(p.ComputingEfficiency), ftoa(p.FundingMultiplier), ftoa(p.DataQualityBonus))
	case game.DeploymentUnlockEvent:
		return fmt.Sprintf("%s id=%s source=%s", topic, p.ID, p.Source)
	case game.DeploymentCapacityEvent:
		return fmt.Sprintf("%s id=%s delta=%d source=%s", topic, p.ID, p.Delta, p.Source)
	case game.SpentEvent:
		return fmt.Sprintf("%s audit=%s reason=%s", topic, p.AuditID, p.Reason)
	case game.SpendFailedEvent:
		return fmt.Sprintf("%s reason=%s", topic, p.Reason)
	case game.RiskEvent:
		return fmt.Sprintf("%s type=%s node=%s severity=%s roll=%s", topic, p.Type, p.NodeID, p.Severity, ftoa(p.Roll))
	case manager.SavedEvent:
		return fmt.Sprintf("%s name=%s", topic, p.Name)
	case manager.LoadedEvent:
		return fmt.Sprintf("%s name=%s turn=%d", topic, p.Name, p.State.Meta.Turn)
	default:
		return topic
	}
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

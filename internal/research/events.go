package research

import "github.com/oversight-games/ascent/internal/game"

// InitializedEvent is the payload of research:initialized.
type InitializedEvent struct {
	Nodes    int
	Unlocked int
}

// StartedEvent is the payload of research:started.
type StartedEvent struct {
	ID      string
	Compute float64
}

// CancelledEvent is the payload of research:cancelled. Progress is the
// preserved partial progress.
type CancelledEvent struct {
	ID       string
	Progress float64
}

// ComputeAllocatedEvent is the payload of research:compute_allocated.
// Total is the node's allocation after the increase.
type ComputeAllocatedEvent struct {
	ID     string
	Amount float64
	Total  float64
}

// NodeProgress is one entry of a progress pass, sorted by node id for
// deterministic observation.
type NodeProgress struct {
	ID       string
	Progress float64
	Rate     float64
}

// ProgressEvent is the payload of research:progress.
type ProgressEvent struct {
	Turn    int
	Updates []NodeProgress
}

// CompletedEvent is the payload of research:completed.
type CompletedEvent struct {
	ID   string
	Turn int
}

// StatusChange is one flip from an unlock-propagation pass.
type StatusChange struct {
	ID     string
	Status game.NodeStatus
}

// StatusesEvent is the payload of research:statuses_updated. Changes are
// sorted by node id.
type StatusesEvent struct {
	Changes []StatusChange
}

// BoostsEvent is the payload of research:boosts:updated.
type BoostsEvent struct {
	Categories int
	Nodes      int
}

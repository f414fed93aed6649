package game

import "fmt"

// NodeStatus is the closed status enumeration for research nodes.
//
// The lifecycle is Locked ⇄ Unlocked → InProgress → Completed, with
// InProgress → Unlocked via cancellation. Completed is terminal: no
// action sequence reverts it.
type NodeStatus string

const (
	StatusLocked     NodeStatus = "locked"
	StatusUnlocked   NodeStatus = "unlocked"
	StatusInProgress NodeStatus = "in_progress"
	StatusCompleted  NodeStatus = "completed"
)

// Valid reports whether s is one of the four defined statuses.
func (s NodeStatus) Valid() bool {
	switch s {
	case StatusLocked, StatusUnlocked, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// ParseNodeStatus converts a stored string into a NodeStatus.
// Returns an error for any spelling outside the closed set.
func ParseNodeStatus(s string) (NodeStatus, error) {
	st := NodeStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown node status %q", s)
	}
	return st, nil
}

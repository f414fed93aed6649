package reducer

import "github.com/oversight-games/ascent/internal/game"

// monthsPerYear drives the simple game calendar: one turn is one month,
// quarters derive from the month.
const monthsPerYear = 12

// ReduceMeta is the meta slice reducer.
func ReduceMeta(old *game.Meta, a Action) *game.Meta {
	switch a.Type {
	case ActionAdvanceTurn:
		p, ok := a.Payload.(AdvanceTurnPayload)
		if !ok {
			return old
		}
		next := old.Clone()
		next.Turn++
		if p.Phase != "" {
			next.Phase = p.Phase
		}
		next.Month++
		if next.Month > monthsPerYear {
			next.Month = 1
			next.Year++
		}
		next.Quarter = (next.Month-1)/3 + 1
		next.History = appendTurnRecord(next.History, game.TurnRecord{
			Turn:      next.Turn,
			Phase:     next.Phase,
			Timestamp: p.Timestamp,
		})
		return next

	case ActionTouchSaved:
		p, ok := a.Payload.(TouchSavedPayload)
		if !ok || p.Timestamp == old.SavedAt {
			return old
		}
		next := old.Clone()
		next.SavedAt = p.Timestamp
		return next

	default:
		return old
	}
}

// appendTurnRecord appends to the ring, keeping the last TurnHistoryLimit
// entries.
func appendTurnRecord(history []game.TurnRecord, rec game.TurnRecord) []game.TurnRecord {
	history = append(history, rec)
	if len(history) > game.TurnHistoryLimit {
		history = history[len(history)-game.TurnHistoryLimit:]
	}
	return history
}

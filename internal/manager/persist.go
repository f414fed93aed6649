package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/reducer"
	"github.com/oversight-games/ascent/internal/store"
)

// SaveVersion is the persisted record format version. It is carried on
// every record and checked nowhere: no schema migration is applied on
// load beyond keeping the string.
const SaveVersion = "1"

// ActionTypeReplace is the synthetic action type reported on the
// stateChanged surface for a wholesale snapshot swap.
const ActionTypeReplace reducer.ActionType = "state/replace"

// SaveRecord is the persisted snapshot envelope.
type SaveRecord struct {
	Version   string          `json:"version"`
	GameState *game.GameState `json:"gameState"`
	Timestamp int64           `json:"timestamp"`
	Meta      SaveMeta        `json:"meta"`
}

// SaveMeta is the denormalized meta summary stored alongside the snapshot.
type SaveMeta struct {
	Turn    int `json:"turn"`
	Year    int `json:"year"`
	Quarter int `json:"quarter"`
	Month   int `json:"month"`
	Day     int `json:"day"`
}

// SaveState serializes the full current state under a name-qualified key.
//
// Persistence failures (serialization, storage) are caught here, logged,
// and surfaced as false; they never propagate. On success a meta-timestamp
// update is dispatched and a game:saved bus event is emitted.
func (m *Manager) SaveState(ctx context.Context, name string) bool {
	if m.store == nil {
		m.logger.Warn("save skipped: no store configured", "name", name)
		return false
	}

	state := m.state
	now := m.now().UnixMilli()
	record := SaveRecord{
		Version:   SaveVersion,
		GameState: state,
		Timestamp: now,
		Meta: SaveMeta{
			Turn:    state.Meta.Turn,
			Year:    state.Meta.Year,
			Quarter: state.Meta.Quarter,
			Month:   state.Meta.Month,
			Day:     state.Meta.Day,
		},
	}

	payload, err := json.Marshal(record)
	if err != nil {
		m.logger.Warn("save failed: serialize", "name", name, "error", err)
		return false
	}

	row := store.SaveRow{
		Key:       store.Key(name),
		Name:      name,
		Version:   SaveVersion,
		Payload:   string(payload),
		Digest:    store.Digest(payload),
		CreatedMS: now,
		Turn:      record.Meta.Turn,
		Year:      record.Meta.Year,
		Quarter:   record.Meta.Quarter,
		Month:     record.Meta.Month,
		Day:       record.Meta.Day,
	}
	if err := m.store.WriteSave(ctx, row); err != nil {
		m.logger.Warn("save failed: write", "name", name, "error", err)
		return false
	}

	m.Dispatch(reducer.Action{Type: reducer.ActionTouchSaved, Payload: reducer.TouchSavedPayload{Timestamp: now}})
	m.bus.Emit(bus.TopicGameSaved, SavedEvent{Name: name, Timestamp: now})

	m.logger.Info("state saved", "name", name, "turn", record.Meta.Turn)
	return true
}

// LoadState reads and parses the persisted record under a name-qualified
// key. On any failure (missing key, parse error) it returns false and
// leaves the current state untouched. On success the in-memory state is
// wholesale-replaced and a full-replacement notification is broadcast,
// followed by a stateLoaded bus event.
func (m *Manager) LoadState(ctx context.Context, name string) bool {
	if m.store == nil {
		m.logger.Warn("load skipped: no store configured", "name", name)
		return false
	}

	row, err := m.store.ReadSave(ctx, store.Key(name))
	if errors.Is(err, store.ErrNotFound) {
		m.logger.Warn("load failed: no such save", "name", name)
		return false
	}
	if err != nil {
		m.logger.Warn("load failed: read", "name", name, "error", err)
		return false
	}

	if got := store.Digest([]byte(row.Payload)); got != row.Digest {
		// Corruption in the medium; the parse below is still attempted.
		m.logger.Warn("save digest mismatch", "name", name, "stored", row.Digest, "computed", got)
	}

	var record SaveRecord
	if err := json.Unmarshal([]byte(row.Payload), &record); err != nil {
		m.logger.Warn("load failed: parse", "name", name, "error", err)
		return false
	}
	if err := validateSnapshot(record.GameState); err != nil {
		m.logger.Warn("load failed: invalid snapshot", "name", name, "error", err)
		return false
	}

	old := m.state
	m.state = record.GameState

	change := Change{Action: ActionTypeReplace, Old: old, New: record.GameState, Replaced: true}
	m.notify(change)
	m.bus.Emit(bus.TopicStateChanged, change)
	m.bus.Emit(bus.TopicStateLoaded, LoadedEvent{Name: name, State: record.GameState})

	m.logger.Info("state loaded", "name", name, "turn", record.GameState.Meta.Turn, "version", record.Version)
	return true
}

// validateSnapshot rejects records whose aggregate is structurally broken.
// Every slice pointer must be present; the reducers assume it.
func validateSnapshot(state *game.GameState) error {
	if state == nil {
		return fmt.Errorf("missing game state")
	}
	if state.Meta == nil || state.Resources == nil || state.Research == nil ||
		state.Deployments == nil || state.Competitors == nil || state.World == nil {
		return fmt.Errorf("incomplete game state")
	}
	if state.Resources.Computing == nil || state.Resources.Funding == nil ||
		state.Resources.Influence == nil || state.Resources.Data == nil {
		return fmt.Errorf("incomplete resources slice")
	}
	return nil
}

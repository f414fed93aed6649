// Package game defines the immutable state model of the simulation core.
//
// GameState is the aggregate root. It is replaced wholesale on every
// transition and never mutated in place. Each top-level field is a pointer
// to a disjoint slice of state owned by exactly one reducer; change
// detection throughout the core is identity-based (pointer comparison),
// which is why reducers must return their input pointer unchanged when an
// action does not apply to them.
package game

// GameState is the aggregate root of all simulation state.
//
// INVARIANTS:
//   - Never mutated in place. Reducers deep-clone the slice they change.
//   - A nil slice pointer never appears in a constructed state.
type GameState struct {
	Meta        *Meta        `json:"meta"`
	Resources   *Resources   `json:"resources"`
	Research    *Research    `json:"research"`
	Deployments *Deployments `json:"deployments"`
	Competitors *Competitors `json:"competitors"`
	World       *World       `json:"world"`
}

// TurnHistoryLimit bounds the meta turn-history ring.
const TurnHistoryLimit = 10

// Meta holds the turn counter, phase tag, game-time fields and a bounded
// turn-history ring.
type Meta struct {
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	// SavedAt is the epoch-ms timestamp of the most recent successful save.
	SavedAt int64        `json:"savedAt"`
	History []TurnRecord `json:"history"`
}

// TurnRecord is one entry in the bounded turn-history ring.
type TurnRecord struct {
	Turn      int    `json:"turn"`
	Phase     string `json:"phase"`
	Timestamp int64  `json:"timestamp"`
}

// Clone returns a deep copy of the meta slice.
func (m *Meta) Clone() *Meta {
	out := *m
	out.History = append([]TurnRecord(nil), m.History...)
	return &out
}

// Deployments tracks everything deployment-shaped the core knows about:
// which deployments are unlocked, how much capacity each has been granted,
// and the active records whose effects feed the derived effect bundle.
type Deployments struct {
	Active   map[string]*Deployment `json:"active"`
	Unlocked map[string]bool        `json:"unlocked"`
	Capacity map[string]int         `json:"capacity"`
}

// Deployment is one active deployment record.
type Deployment struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Effects Effects `json:"effects"`
}

// Clone returns a deep copy of the deployments slice.
// Deployment records themselves are treated as immutable once activated,
// so the maps are copied but the records are shared.
func (d *Deployments) Clone() *Deployments {
	out := &Deployments{
		Active:   make(map[string]*Deployment, len(d.Active)),
		Unlocked: make(map[string]bool, len(d.Unlocked)),
		Capacity: make(map[string]int, len(d.Capacity)),
	}
	for k, v := range d.Active {
		out.Active[k] = v
	}
	for k, v := range d.Unlocked {
		out.Unlocked[k] = v
	}
	for k, v := range d.Capacity {
		out.Capacity[k] = v
	}
	return out
}

// Competitors is a simple field container for rival organizations.
type Competitors struct {
	Orgs map[string]*Organization `json:"orgs"`
}

// Organization is one rival organization record. Fields merge trivially.
type Organization struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Fields map[string]float64 `json:"fields"`
}

// Clone returns a deep copy of the competitors slice.
func (c *Competitors) Clone() *Competitors {
	out := &Competitors{Orgs: make(map[string]*Organization, len(c.Orgs))}
	for k, v := range c.Orgs {
		org := *v
		org.Fields = cloneFloatMap(v.Fields)
		out.Orgs[k] = &org
	}
	return out
}

// World is a simple field container for global world state.
type World struct {
	Regions map[string]*Region `json:"regions"`
	Fields  map[string]float64 `json:"fields"`
}

// Region is one world region record.
type Region struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Fields map[string]float64 `json:"fields"`
}

// Clone returns a deep copy of the world slice.
func (w *World) Clone() *World {
	out := &World{
		Regions: make(map[string]*Region, len(w.Regions)),
		Fields:  cloneFloatMap(w.Fields),
	}
	for k, v := range w.Regions {
		r := *v
		r.Fields = cloneFloatMap(v.Fields)
		out.Regions[k] = &r
	}
	return out
}

// NewGameState constructs a fresh aggregate with every slice present and
// zero-valued. Research nodes are installed separately from content
// definitions at game start.
func NewGameState() *GameState {
	return &GameState{
		Meta: &Meta{
			Turn:    0,
			Phase:   "setup",
			Year:    1,
			Quarter: 1,
			Month:   1,
			Day:     1,
		},
		Resources:   NewResources(),
		Research:    NewResearch(),
		Deployments: &Deployments{Active: map[string]*Deployment{}, Unlocked: map[string]bool{}, Capacity: map[string]int{}},
		Competitors: &Competitors{Orgs: map[string]*Organization{}},
		World:       &World{Regions: map[string]*Region{}, Fields: map[string]float64{}},
	}
}

func cloneFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

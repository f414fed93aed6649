package game

// InfluenceChannel identifies one of the five influence channels.
type InfluenceChannel string

const (
	InfluenceAcademic   InfluenceChannel = "academic"
	InfluenceIndustry   InfluenceChannel = "industry"
	InfluenceGovernment InfluenceChannel = "government"
	InfluencePublic     InfluenceChannel = "public"
	InfluenceOpenSource InfluenceChannel = "openSource"
)

// InfluenceChannels lists every channel in canonical order.
// Iteration over influence maps goes through this slice so derived values
// and emitted events are deterministic.
var InfluenceChannels = []InfluenceChannel{
	InfluenceAcademic,
	InfluenceIndustry,
	InfluenceGovernment,
	InfluencePublic,
	InfluenceOpenSource,
}

const (
	// InfluenceMin and InfluenceMax bound every influence channel.
	InfluenceMin = 0.0
	InfluenceMax = 100.0

	// InfluenceHistoryLimit bounds the influence history ring.
	InfluenceHistoryLimit = 10
)

// ClampInfluence clamps a channel value to [InfluenceMin, InfluenceMax].
func ClampInfluence(v float64) float64 {
	if v < InfluenceMin {
		return InfluenceMin
	}
	if v > InfluenceMax {
		return InfluenceMax
	}
	return v
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Resources is the resource slice of the aggregate state.
type Resources struct {
	Computing *Computing     `json:"computing"`
	Funding   *Funding       `json:"funding"`
	Influence *Influence     `json:"influence"`
	Data      *DataResources `json:"data"`
	Audit     []AuditEntry   `json:"audit"`
}

// Computing models the shared finite compute pool.
//
// INVARIANT: the sum of Allocations never exceeds Total. All writes flow
// through the resources reducer; the single-writer dispatch discipline is
// what keeps the pool consistent.
type Computing struct {
	Total       float64            `json:"total"`
	Allocations map[string]float64 `json:"allocations"`
	// Efficiency is the global computing-efficiency multiplier derived
	// from the active effect bundle. 1.0 means no modifier.
	Efficiency float64 `json:"efficiency"`
}

// Allocated returns the sum of all current allocations.
func (c *Computing) Allocated() float64 {
	var sum float64
	for _, v := range c.Allocations {
		sum += v
	}
	return sum
}

// Available returns the unallocated headroom of the pool.
func (c *Computing) Available() float64 {
	return c.Total - c.Allocated()
}

// Funding holds the current funding balance.
type Funding struct {
	Balance float64 `json:"balance"`
}

// Influence holds the five channels and a bounded change-history ring.
type Influence struct {
	Channels map[InfluenceChannel]float64 `json:"channels"`
	History  []InfluenceRecord            `json:"history"`
}

// InfluenceRecord is one entry in the influence history ring: the full
// previous snapshot, per-channel delta, optional reason and timestamp.
type InfluenceRecord struct {
	Turn      int                          `json:"turn"`
	Previous  map[InfluenceChannel]float64 `json:"previous"`
	Deltas    map[InfluenceChannel]float64 `json:"deltas"`
	Reason    string                       `json:"reason,omitempty"`
	Timestamp int64                        `json:"timestamp"`
}

// DataResources tracks data tiers, specialized sets and typed records.
type DataResources struct {
	Tier            int                       `json:"tier"`
	SpecializedSets map[string]bool           `json:"specializedSets"`
	Types           map[string]DataTypeRecord `json:"types"`
}

// DataTypeRecord is a typed amount/quality record.
type DataTypeRecord struct {
	Amount  float64 `json:"amount"`
	Quality float64 `json:"quality"`
}

// AuditEntry records one all-or-nothing resource spend.
type AuditEntry struct {
	ID        string `json:"id"`
	Reason    string `json:"reason"`
	Turn      int    `json:"turn"`
	Recurring bool   `json:"recurring"`
	Timestamp int64  `json:"timestamp"`
}

// NewResources constructs a zero-valued resource slice with all maps
// present and efficiency at the neutral multiplier.
func NewResources() *Resources {
	channels := make(map[InfluenceChannel]float64, len(InfluenceChannels))
	for _, ch := range InfluenceChannels {
		channels[ch] = 0
	}
	return &Resources{
		Computing: &Computing{Total: 0, Allocations: map[string]float64{}, Efficiency: 1.0},
		Funding:   &Funding{Balance: 0},
		Influence: &Influence{Channels: channels},
		Data:      &DataResources{SpecializedSets: map[string]bool{}, Types: map[string]DataTypeRecord{}},
	}
}

// Clone returns a deep copy of the resources slice.
func (r *Resources) Clone() *Resources {
	out := &Resources{
		Computing: &Computing{
			Total:       r.Computing.Total,
			Allocations: cloneFloatMap(r.Computing.Allocations),
			Efficiency:  r.Computing.Efficiency,
		},
		Funding: &Funding{Balance: r.Funding.Balance},
		Influence: &Influence{
			Channels: cloneChannelMap(r.Influence.Channels),
			History:  append([]InfluenceRecord(nil), r.Influence.History...),
		},
		Data: &DataResources{
			Tier:            r.Data.Tier,
			SpecializedSets: make(map[string]bool, len(r.Data.SpecializedSets)),
			Types:           make(map[string]DataTypeRecord, len(r.Data.Types)),
		},
		Audit: append([]AuditEntry(nil), r.Audit...),
	}
	for k, v := range r.Data.SpecializedSets {
		out.Data.SpecializedSets[k] = v
	}
	for k, v := range r.Data.Types {
		out.Data.Types[k] = v
	}
	return out
}

func cloneChannelMap(m map[InfluenceChannel]float64) map[InfluenceChannel]float64 {
	out := make(map[InfluenceChannel]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

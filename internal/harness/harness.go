// Package harness assembles a complete game from its parts and runs
// scripted scenarios against it, recording the bus trace for golden
// comparison. Tests across the repository use it to exercise whole
// dispatch chains instead of single components.
package harness

import (
	"io"
	"log/slog"
	"time"

	"github.com/oversight-games/ascent/internal/bus"
	"github.com/oversight-games/ascent/internal/content"
	"github.com/oversight-games/ascent/internal/economy"
	"github.com/oversight-games/ascent/internal/game"
	"github.com/oversight-games/ascent/internal/manager"
	"github.com/oversight-games/ascent/internal/reducer"
	"github.com/oversight-games/ascent/internal/research"
	"github.com/oversight-games/ascent/internal/store"
)

// Config configures a game assembly. Zero values get deterministic
// defaults, so a bare Config yields a fully reproducible game.
type Config struct {
	Pack   *content.Pack
	Store  *store.Store // may be nil: save/load disabled
	Logger *slog.Logger // defaults to a discard logger
	Risk   research.RiskSource
	IDs    economy.IDGenerator
	Clock  func() time.Time
}

// Game is one assembled simulation core.
type Game struct {
	Bus      *bus.Bus
	Manager  *manager.Manager
	Economy  *economy.Economy
	Research *research.Engine
	Pack     *content.Pack
}

// NewGame wires a game together. Binding order matters: the economy
// binds before the research engine so deployment activations are
// committed to state before boosts are derived from them.
func NewGame(cfg Config) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	risk := cfg.Risk
	if risk == nil {
		risk = research.NewSeededRisk(0)
	}
	ids := cfg.IDs
	if ids == nil {
		ids = economy.UUIDGenerator{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = func() time.Time { return time.UnixMilli(0).UTC() }
	}

	b := bus.New(logger)
	mgr := manager.New(logger, b, cfg.Store, game.NewGameState(), manager.WithClock(clock))
	econ := economy.New(logger, b, mgr, ids, economy.WithClock(clock))
	eng := research.New(logger, b, mgr, risk)

	econ.Bind()
	eng.Bind()

	return &Game{Bus: b, Manager: mgr, Economy: econ, Research: eng, Pack: cfg.Pack}
}

// Init installs the content pack's research nodes and runs the first
// unlock pass.
func (g *Game) Init() {
	if g.Pack != nil {
		g.Research.InitNodes(g.Pack)
	}
}

// BeginTurn advances the turn counter and announces turn:start.
func (g *Game) BeginTurn() {
	g.Manager.Dispatch(reducer.Action{Type: reducer.ActionAdvanceTurn, Payload: reducer.AdvanceTurnPayload{Phase: "playing"}})
	g.Bus.Emit(bus.TopicTurnStart, g.Manager.Current().Meta.Turn)
}

// EndTurn announces turn:ending, driving the research progress pass.
func (g *Game) EndTurn() {
	g.Bus.Emit(bus.TopicTurnEnding, g.Manager.Current().Meta.Turn)
}

// ActivateDeployment emits deployment:active for a deployment defined in
// the pack.
func (g *Game) ActivateDeployment(id string) bool {
	if g.Pack == nil {
		return false
	}
	def, ok := content.DeploymentByID(g.Pack)[id]
	if !ok {
		return false
	}
	g.Bus.Emit(bus.TopicDeploymentActive, &game.Deployment{ID: def.ID, Name: def.Name, Effects: def.Effects})
	return true
}

// Grant seeds starting resources outside the normal economy path.
// Scenario setup only.
func (g *Game) Grant(computeTotal, funding float64, influence map[game.InfluenceChannel]float64) {
	if computeTotal > 0 {
		g.Manager.Dispatch(reducer.Action{Type: reducer.ActionSetComputeTotal, Payload: reducer.SetComputeTotalPayload{Total: computeTotal}})
	}
	if funding != 0 {
		g.Manager.Dispatch(reducer.Action{Type: reducer.ActionGrantFunding, Payload: reducer.GrantFundingPayload{Amount: funding}})
	}
	if len(influence) > 0 {
		g.Manager.Dispatch(reducer.Action{Type: reducer.ActionGrowInfluence, Payload: reducer.GrowInfluencePayload{
			Deltas: influence,
			Reason: "scenario setup",
		}})
	}
}

// Close unsubscribes both systems from the bus.
func (g *Game) Close() {
	g.Research.Close()
	g.Economy.Close()
}

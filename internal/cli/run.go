package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/oversight-games/ascent/internal/content"
	"github.com/oversight-games/ascent/internal/harness"
	"github.com/oversight-games/ascent/internal/research"
	"github.com/oversight-games/ascent/internal/store"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Content  string
	Database string
	Seed     int64
}

// RunResult holds the outcome of a scenario run for JSON output.
type RunResult struct {
	Scenario string   `json:"scenario"`
	Turn     int      `json:"turn"`
	Trace    []string `json:"trace"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scripted scenario against a content pack",
		Long: `Run a scripted scenario and print the resulting event trace.

The scenario file lists setup resources and a sequence of steps (turns,
research actions, deployments, spends, saves). Runs are deterministic
for a given content pack, scenario, and seed.

Example:
  ascent run --content ./content scenario.yaml
  ascent run --content ./content --db saves.db --seed 7 scenario.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Content, "content", "", "path to content pack directory (required)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite save database (optional)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "risk roll seed")
	_ = cmd.MarkFlagRequired("content")

	return cmd
}

func runScenario(opts *RunOptions, scenarioPath string, cmd *cobra.Command) error {
	// Configure logging based on verbose flag
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	pack, err := content.Load(opts.Content)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load content", err)
	}
	logger.Info("content loaded", "nodes", len(pack.Nodes), "deployments", len(pack.Deployments))

	sc, err := harness.LoadScenario(scenarioPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing database", "error", closeErr)
			}
		}()
	}

	g := harness.NewGame(harness.Config{
		Pack:   pack,
		Store:  st,
		Logger: logger,
		Risk:   research.NewSeededRisk(opts.Seed),
	})
	defer g.Close()

	rec := harness.NewRecorder(g.Bus)
	defer rec.Close()

	if err := sc.Run(g); err != nil {
		return WrapExitError(ExitFailure, "scenario failed", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	if formatter.Format == "json" {
		return formatter.Success(RunResult{
			Scenario: sc.Name,
			Turn:     g.Manager.Current().Meta.Turn,
			Trace:    rec.Lines(),
		})
	}

	fmt.Fprint(formatter.Writer, rec.String())
	return nil
}

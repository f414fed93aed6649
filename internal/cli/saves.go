package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/oversight-games/ascent/internal/store"
)

// SavesOptions holds flags for the saves command.
type SavesOptions struct {
	*RootOptions
	Database string
}

// SaveInfo is one save slot in JSON output.
type SaveInfo struct {
	Name    string `json:"name"`
	Key     string `json:"key"`
	Version string `json:"version"`
	Turn    int    `json:"turn"`
	Year    int    `json:"year"`
	Quarter int    `json:"quarter"`
	Created string `json:"created"`
}

// NewSavesCommand creates the saves command.
func NewSavesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SavesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "saves",
		Short: "List save slots in a save database",
		Long: `List the save slots stored in a SQLite save database, newest first.

Example:
  ascent saves --db saves.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSaves(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite save database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSaves(opts *SavesOptions, cmd *cobra.Command) error {
	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	rows, err := st.ListSaves(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list saves", err)
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if formatter.Format == "json" {
		infos := make([]SaveInfo, 0, len(rows))
		for _, row := range rows {
			infos = append(infos, SaveInfo{
				Name:    row.Name,
				Key:     row.Key,
				Version: row.Version,
				Turn:    row.Turn,
				Year:    row.Year,
				Quarter: row.Quarter,
				Created: time.UnixMilli(row.CreatedMS).UTC().Format(time.RFC3339),
			})
		}
		return formatter.Success(infos)
	}

	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "no saves")
		return nil
	}

	w := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTURN\tDATE\tCREATED")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\tY%d Q%d\t%s\n",
			row.Name, row.Turn, row.Year, row.Quarter,
			time.UnixMilli(row.CreatedMS).UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oversight-games/ascent/internal/content"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Nodes       int      `json:"nodes"`
	Deployments int      `json:"deployments"`
	Errors      []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <content-dir>",
		Short: "Validate a content pack without running it",
		Long: `Validate research node and deployment definitions.

Checks YAML syntax, schema conformance, referential integrity of
prerequisites, exclusions and deployment references, and acyclicity of
the prerequisite graph.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	pack, err := content.Load(dir)
	if err != nil {
		return outputValidationErrors(formatter, splitValidationErrors(err))
	}

	formatter.VerboseLog("Loaded %d node(s) and %d deployment(s) from %s",
		len(pack.Nodes), len(pack.Deployments), dir)

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{
			Valid:       true,
			Nodes:       len(pack.Nodes),
			Deployments: len(pack.Deployments),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ Content valid (%d nodes, %d deployments)\n",
		len(pack.Nodes), len(pack.Deployments))
	return nil
}

// splitValidationErrors splits a joined validation error into the
// individual messages for output.
func splitValidationErrors(err error) []string {
	var msgs []string
	for _, line := range strings.Split(err.Error(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			msgs = append(msgs, line)
		}
	}
	return msgs
}

// outputValidationErrors outputs validation errors and returns an
// ExitError so the command exits with the failure code.
func outputValidationErrors(formatter *OutputFormatter, msgs []string) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: msgs}
		if err := formatter.Error("E001", msgs[0], result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(msgs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, msg := range msgs {
		fmt.Fprintf(formatter.Writer, "  %s\n", msg)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(msgs)))
}

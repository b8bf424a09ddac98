package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ValidationResult is the JSON payload of a successful validate.
type ValidationResult struct {
	Valid     bool   `json:"valid"`
	Model     string `json:"model"`
	Types     int    `json:"types"`
	Variables int    `json:"variables"`
}

func (r ValidationResult) String() string {
	return fmt.Sprintf("%s model %s is valid (%d types, %d variables)", markOK, r.Model, r.Types, r.Variables)
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model.cue>",
		Short: "Validate a model without rendering it",
		Long: `Compile a CUE model and check it: identifiers, precision bounds,
rounding and saturation modes, shapes and type references.

Every problem is reported, not only the first.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, err := LoadModel(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded model %s from %s", m.Name, path)

	return formatter.Success(ValidationResult{
		Valid:     true,
		Model:     m.Name,
		Types:     len(m.Types),
		Variables: len(m.Inputs) + len(m.Outputs) + len(m.Tensors) + len(m.Weights),
	})
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/hlsdecl/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	DBPath string
	Hash   string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored render runs",
		Long: `List the runs stored by "render --db", oldest first.

With --hash only runs whose manifest has that content hash are listed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Hash, "hash", "", "only list runs with this manifest hash")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, errExit := openExistingStore(formatter, opts.DBPath)
	if errExit != nil {
		return errExit
	}
	defer st.Close()

	var runs []store.RunSummary
	var err error
	if opts.Hash != "" {
		runs, err = st.FindRunsByHash(cmd.Context(), opts.Hash)
	} else {
		runs, err = st.ListRuns(cmd.Context())
	}
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "no runs")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(formatter.Writer, "%4d  %s  %-16s %s/%s/%s  %3d decls  %s\n",
			r.Seq, r.ID, r.Model, r.Dialect, r.Port, r.IOType, r.Declarations, color.CyanString(shortHash(r.Hash)))
	}
	return nil
}

// openExistingStore opens the database at path. A missing file is an error:
// store.Open would create an empty one.
func openExistingStore(f *OutputFormatter, path string) (*store.Store, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, f.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, f.fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
	}
	return st, nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

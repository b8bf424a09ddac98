package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/hlsdecl/internal/config"
	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/manifest"
	"github.com/roach88/hlsdecl/internal/metrics"
	"github.com/roach88/hlsdecl/internal/store"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	ConfigPath  string
	Dialect     string
	Port        string
	IOType      string
	DBPath      string
	MetricsFile string
	OutputPath  string
	Workers     int
}

// RenderResult is the JSON payload of a successful render.
type RenderResult struct {
	Manifest *manifest.Manifest `json:"manifest"`
	RunID    string             `json:"run_id,omitempty"`
	Seq      int64              `json:"seq,omitempty"`
	Output   string             `json:"output,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <model.cue>",
		Short: "Render typedefs and variable declarations for a model",
		Long: `Compile a CUE model, convert every type to the selected dialect and
render the declaration of every input, output, tensor and weight.

Settings come from --config (YAML) and are overridden by the flags given
on the command line. With --db the result is stored as a run.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML configuration file")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "", "type dialect (ap|ac)")
	cmd.Flags().StringVar(&opts.Port, "port", "", "IO port style (dense|struct)")
	cmd.Flags().StringVar(&opts.IOType, "io-type", "", "IO type (parallel|stream)")
	cmd.Flags().StringVar(&opts.DBPath, "db", "", "SQLite database to store the run in")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "write declarations to this file instead of stdout")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent renderers (0 = GOMAXPROCS)")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())
	logger := opts.logger(cmd)

	cfg, err := opts.loadConfig(cmd)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}
	formatter.VerboseLog("Config: dialect=%s port=%s io_type=%s", cfg.Dialect, cfg.Port, cfg.IOType)

	m, err := LoadModel(path)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	recorder := metrics.NewRecorder()
	builder, err := manifest.NewBuilder(cfg,
		manifest.WithLogger(logger),
		manifest.WithMetrics(recorder),
		manifest.WithWorkers(opts.Workers),
	)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeConfig, err.Error(), nil)
	}

	man, err := builder.Build(cmd.Context(), m)
	if err != nil {
		var details any
		if code := hls.CodeOf(err); code != "" {
			details = map[string]string{"code": string(code)}
		}
		return formatter.fail(ExitFailure, ErrCodeRenderFailed, err.Error(), details)
	}

	result := RenderResult{Manifest: man, Output: opts.OutputPath}

	if opts.DBPath != "" {
		runID, seq, err := storeRun(cmd, opts.DBPath, man)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStore, err.Error(), nil)
		}
		result.RunID, result.Seq = runID, seq
		logger.Info("run stored", "id", runID, "seq", seq)
	}

	if opts.MetricsFile != "" {
		if err := recorder.WriteTextfile(opts.MetricsFile); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeWriteFailed, err.Error(), nil)
		}
		formatter.VerboseLog("Wrote metrics to %s", opts.MetricsFile)
	}

	if opts.OutputPath != "" {
		var buf bytes.Buffer
		if err := man.WriteText(&buf); err != nil {
			return formatter.fail(ExitFailure, ErrCodeWriteFailed, err.Error(), nil)
		}
		if err := os.WriteFile(opts.OutputPath, buf.Bytes(), 0o644); err != nil {
			return formatter.fail(ExitCommandError, ErrCodeWriteFailed,
				fmt.Sprintf("failed to write %s: %v", opts.OutputPath, err), nil)
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return writeRenderText(formatter, result)
}

// loadConfig reads --config (or the defaults) and applies the flags the
// user set explicitly.
func (opts *RenderOptions) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dialect") {
		d, err := hls.ParseDialect(opts.Dialect)
		if err != nil {
			return nil, err
		}
		cfg.Dialect = d
	}
	if flags.Changed("port") {
		cfg.Port = opts.Port
	}
	if flags.Changed("io-type") {
		cfg.IOType = opts.IOType
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func storeRun(cmd *cobra.Command, dbPath string, man *manifest.Manifest) (string, int64, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", 0, err
	}
	defer st.Close()

	run, err := store.NewRun(man)
	if err != nil {
		return "", 0, err
	}
	seq, err := st.WriteRun(cmd.Context(), run)
	if err != nil {
		return "", 0, err
	}
	return run.ID, seq, nil
}

// writeRenderText prints the declarations to stdout unless they went to a
// file, followed by status lines.
func writeRenderText(f *OutputFormatter, r RenderResult) error {
	status := f.Writer
	if r.Output == "" {
		if err := r.Manifest.WriteText(f.Writer); err != nil {
			return WrapExitError(ExitFailure, "write declarations", err)
		}
		// Keep stdout pure C++ when it carries the declarations.
		status = f.ErrWriter
		if status == nil {
			status = io.Discard
		}
	} else {
		fmt.Fprintf(status, "%s wrote %d typedefs and %d declarations to %s\n",
			markOK, len(r.Manifest.Typedefs), len(r.Manifest.Declarations), r.Output)
	}
	if r.RunID != "" {
		fmt.Fprintf(status, "%s stored run %s (seq %d)\n", markOK, r.RunID, r.Seq)
	}
	return nil
}

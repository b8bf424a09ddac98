package manifest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/hlsdecl/internal/config"
	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
	"github.com/roach88/hlsdecl/internal/metrics"
	"github.com/roach88/hlsdecl/internal/variable"
)

// ErrTypedefConflict is returned when two variables use the same type name
// for types that render differently.
var ErrTypedefConflict = errors.New("conflicting typedefs")

// Builder turns models into manifests. It is safe for concurrent use.
type Builder struct {
	cfg     config.Config
	port    variable.Port
	types   *hls.TypeConverter
	logger  *slog.Logger
	metrics *metrics.Recorder
	workers int
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder. The default records nothing.
func WithMetrics(r *metrics.Recorder) Option {
	return func(b *Builder) {
		b.metrics = r
	}
}

// WithWorkers bounds the number of variables rendered concurrently.
// Values below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		b.workers = n
	}
}

// NewBuilder creates a Builder for cfg. The configuration is validated and
// copied.
func NewBuilder(cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	b := &Builder{
		cfg:    *cfg,
		port:   cfg.PortStyle(),
		types:  hls.NewTypeConverter(hls.NewPrecisionConverter(cfg.Dialect)),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.workers < 1 {
		b.workers = runtime.GOMAXPROCS(0)
	}
	return b, nil
}

// job builds one representation.
type job struct {
	role  string
	name  string
	build func() (variable.Declarable, error)
}

// Build renders every variable of m.
//
// Representations are built and rendered concurrently; the manifest keeps
// model order (inputs, outputs, tensors, weights). The first error cancels
// the remaining work and is returned.
func (b *Builder) Build(ctx context.Context, m *ir.Model) (*Manifest, error) {
	if m == nil {
		return nil, fmt.Errorf("build: nil model")
	}
	start := time.Now()
	defer func() { b.metrics.RecordBuild(time.Since(start)) }()

	jobs := b.plan(m)
	reps := make([]variable.Declarable, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep, err := j.build()
			if err != nil {
				b.metrics.RecordError(string(hls.CodeOf(err)))
				return fmt.Errorf("%s %s: %w", j.role, j.name, err)
			}
			reps[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.logger.Error("manifest build failed", "model", m.Name, "error", err)
		return nil, err
	}
	// errgroup ignores the parent context once all jobs are done.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &Manifest{
		Model:        m.Name,
		Dialect:      b.cfg.Dialect,
		Port:         b.port.String(),
		IOType:       b.cfg.IOType,
		Typedefs:     []Typedef{},
		Declarations: make([]Declaration, 0, len(reps)),
	}

	seen := make(map[string]string)
	for i, rep := range reps {
		typ := rep.DeclaredType()
		text := typ.Render()
		if prev, ok := seen[typ.Name]; ok {
			if prev != text {
				b.metrics.RecordError("TYPEDEF_CONFLICT")
				return nil, fmt.Errorf("%w: %s is declared as %q and %q", ErrTypedefConflict, typ.Name, prev, text)
			}
		} else {
			seen[typ.Name] = text
			out.Typedefs = append(out.Typedefs, Typedef{Name: typ.Name, Form: typ.Form.String(), Text: text})
			b.metrics.RecordConversion(string(b.cfg.Dialect), typ.Form.String())
		}

		d := Declaration{
			Role:        jobs[i].role,
			Kind:        rep.Kind(),
			Name:        rep.VarName(),
			Type:        typ.Name,
			Declaration: rep.Render(variable.Mode{Port: b.port, Form: variable.FormDeclaration}),
			Reference:   rep.Render(variable.Mode{Port: b.port, Form: variable.FormReference}),
		}
		out.Declarations = append(out.Declarations, d)
		b.metrics.RecordDeclaration(string(d.Kind))
		b.logger.Debug("declaration", "role", d.Role, "kind", d.Kind, "name", d.Name, "type", d.Type)
	}

	hash, err := out.ComputeHash()
	if err != nil {
		return nil, err
	}
	out.Hash = hash

	b.logger.Info("manifest built",
		"model", m.Name,
		"dialect", b.cfg.Dialect,
		"typedefs", len(out.Typedefs),
		"declarations", len(out.Declarations),
		"hash", hash[:12])
	return out, nil
}

// plan selects a representation for every variable of m, in model order.
func (b *Builder) plan(m *ir.Model) []job {
	jobs := make([]job, 0, len(m.Inputs)+len(m.Outputs)+len(m.Tensors)+len(m.Weights))

	for _, v := range m.Inputs {
		jobs = append(jobs, job{role: RoleInput, name: v.Name, build: b.ioBuilder(v, b.cfg.InputStruct)})
	}
	for _, v := range m.Outputs {
		jobs = append(jobs, job{role: RoleOutput, name: v.Name, build: b.ioBuilder(v, b.cfg.OutputStruct)})
	}
	for _, v := range m.Tensors {
		jobs = append(jobs, job{role: RoleTensor, name: v.Name, build: b.tensorBuilder(v)})
	}
	for _, w := range m.Weights {
		jobs = append(jobs, job{role: RoleWeight, name: w.Name, build: b.weightBuilder(w)})
	}

	return jobs
}

// ioBuilder handles top-level inputs and outputs: struct members under a
// struct port, otherwise the same as internal tensors.
func (b *Builder) ioBuilder(v ir.TensorVariable, structName string) func() (variable.Declarable, error) {
	if b.cfg.IOType == config.IOParallel && b.port == variable.PortStruct {
		return func() (variable.Declarable, error) {
			return variable.NewStructMember(v, b.types, b.cfg.MemberPragma, structName)
		}
	}
	return b.tensorBuilder(v)
}

func (b *Builder) tensorBuilder(v ir.TensorVariable) func() (variable.Declarable, error) {
	if b.cfg.IOType == config.IOStream {
		return func() (variable.Declarable, error) {
			return variable.NewStream(v, b.types, b.cfg.PackFactor, b.cfg.StreamDepth)
		}
	}
	return func() (variable.Declarable, error) {
		return variable.NewArray(v, b.types, b.cfg.ArrayPragma)
	}
}

// weightBuilder stores weights above the BRAM factor in block RAM.
func (b *Builder) weightBuilder(w ir.WeightVariable) func() (variable.Declarable, error) {
	if w.DataLength() > b.cfg.BramFactor {
		return func() (variable.Declarable, error) {
			return variable.NewBramWeight(w, b.types)
		}
	}
	return func() (variable.Declarable, error) {
		return variable.NewStaticWeight(w, b.types)
	}
}

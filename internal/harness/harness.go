package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/hlsdecl/internal/compiler"
	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/manifest"
)

// CodeTypedefConflict is the error code reported for manifest.ErrTypedefConflict.
const CodeTypedefConflict = "TYPEDEF_CONFLICT"

// Run executes a scenario and returns its result.
//
// An error is returned only when the scenario cannot run: the model does
// not compile or validate, the config is invalid, or the build fails
// without the scenario expecting it. Failed expectations and assertions are
// reported in the Result.
func Run(ctx context.Context, s *Scenario, opts ...manifest.Option) (*Result, error) {
	m, err := compiler.LoadModelFile(s.Model)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if errs := compiler.Validate(m); len(errs) > 0 {
		return nil, fmt.Errorf("scenario %s: invalid model: %w", s.Name, errs[0])
	}

	cfg, err := s.BuildConfig()
	if err != nil {
		return nil, err
	}
	builder, err := manifest.NewBuilder(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	result := NewResult()
	man, buildErr := builder.Build(ctx, m)
	if buildErr != nil {
		result.ErrorCode = errorCode(buildErr)
		if s.Expect == nil {
			return nil, fmt.Errorf("scenario %s: %w", s.Name, buildErr)
		}
		if result.ErrorCode != s.Expect.Error {
			result.AddError(fmt.Sprintf("expected error %s, got %s: %v", s.Expect.Error, result.ErrorCode, buildErr))
		}
		return result, nil
	}

	result.Manifest = man
	if s.Expect != nil {
		result.AddError(fmt.Sprintf("expected error %s, build succeeded", s.Expect.Error))
		return result, nil
	}

	for i, a := range s.Assertions {
		if err := evaluateAssertion(man, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return result, nil
}

// errorCode maps a build error to its scenario error code.
func errorCode(err error) string {
	if errors.Is(err, manifest.ErrTypedefConflict) {
		return CodeTypedefConflict
	}
	if code := hls.CodeOf(err); code != "" {
		return string(code)
	}
	if errors.Is(err, context.Canceled) {
		return "CANCELED"
	}
	return "UNKNOWN"
}

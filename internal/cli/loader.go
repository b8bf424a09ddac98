package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue/token"

	"github.com/roach88/hlsdecl/internal/compiler"
	"github.com/roach88/hlsdecl/internal/ir"
)

// LoadError describes why a model could not be loaded.
type LoadError struct {
	Code     string
	Message  string
	ExitCode int
	Details  []compiler.ValidationError
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModel compiles the .cue file at path and validates the model.
// Compile failures are reported as a single validation error carrying the
// source line when CUE knows it.
func LoadModel(path string) (*ir.Model, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &LoadError{
				Code:     ErrCodeNotFound,
				Message:  fmt.Sprintf("model file not found: %s", path),
				ExitCode: ExitCommandError,
			}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), ExitCode: ExitCommandError}
	}

	m, err := compiler.LoadModelFile(path)
	if err != nil {
		var details []compiler.ValidationError
		var cErr *compiler.CompileError
		if errors.As(err, &cErr) {
			details = []compiler.ValidationError{{
				Field:   cErr.Field,
				Message: cErr.Message,
				Code:    ErrCodeBuildFailed,
				Line:    lineOf(cErr.Pos),
			}}
		}
		return nil, &LoadError{
			Code:     ErrCodeBuildFailed,
			Message:  err.Error(),
			ExitCode: ExitFailure,
			Details:  details,
		}
	}

	if errs := compiler.Validate(m); len(errs) > 0 {
		return nil, &LoadError{
			Code:     ErrCodeInvalid,
			Message:  fmt.Sprintf("model %q has %d validation error(s)", m.Name, len(errs)),
			ExitCode: ExitFailure,
			Details:  errs,
		}
	}
	return m, nil
}

func lineOf(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

// reportLoadError prints err through f and converts it to an ExitError.
func reportLoadError(f *OutputFormatter, err error) error {
	var lErr *LoadError
	if !errors.As(err, &lErr) {
		return f.fail(ExitFailure, ErrCodeGeneric, err.Error(), nil)
	}
	var details any
	if len(lErr.Details) > 0 {
		details = lErr.Details
	}
	if f.Format != "json" {
		// Text mode lists every error, not only with --verbose.
		_ = f.Error(lErr.Code, lErr.Message, nil)
		for _, d := range lErr.Details {
			fmt.Fprintf(f.Writer, "  %s\n", d.Error())
		}
		return WrapExitError(lErr.ExitCode, lErr.Error(), nil)
	}
	_ = f.Error(lErr.Code, lErr.Message, details)
	return WrapExitError(lErr.ExitCode, lErr.Error(), nil)
}

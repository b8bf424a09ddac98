package compiler

import (
	"fmt"
	"regexp"

	"github.com/roach88/hlsdecl/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrModelNameEmpty         = "E101" // model name is required
	ErrInvalidIdentifier      = "E102" // type/variable/dimension name is not a C identifier
	ErrDuplicateName          = "E103" // duplicate type or variable name
	ErrInvalidWidth           = "E104" // width must be at least 1
	ErrInvalidIntegerBits     = "E105" // integer bits outside [0, width]
	ErrSaturationBitsNoMode   = "E106" // saturation bits without a saturation mode
	ErrInvalidRoundingMode    = "E107" // unknown rounding mode
	ErrInvalidSaturationMode  = "E108" // unknown saturation mode
	ErrUnknownPrecisionKind   = "E109" // precision kind not recognised
	ErrDimensionMismatch      = "E110" // len(dims) != len(shape)
	ErrUnresolvedType         = "E111" // variable type not declared in the model
	ErrInvalidPackFactor      = "E112" // n_pack / n_elem below 1
	ErrNegativeDimension      = "E113" // negative dimension in shape
	ErrUnsupportedTypeVariant = "E114" // type form not recognised
)

// ValidationError represents a model validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// identPattern matches names usable as C++ identifiers.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks a compiled model.
// Returns all errors found (does not fail-fast).
func Validate(m *ir.Model) []ValidationError {
	var errs []ValidationError

	if m == nil {
		return []ValidationError{{Field: "model", Message: "model is nil", Code: ErrModelNameEmpty}}
	}

	// E101
	if m.Name == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "model name is required and must be non-empty",
			Code:    ErrModelNameEmpty,
		})
	}

	declared := make(map[string]ir.Type)
	for i, t := range m.Types {
		field := fmt.Sprintf("types[%d]", i)
		if t == nil {
			errs = append(errs, ValidationError{Field: field, Message: "nil type", Code: ErrUnsupportedTypeVariant})
			continue
		}
		name := t.TypeName()
		errs = append(errs, validateIdent(field+".name", name)...)
		if _, dup := declared[name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate type name: %q", name),
				Code:    ErrDuplicateName,
			})
		} else {
			declared[name] = t
		}
		errs = append(errs, validateType(field, t)...)
	}

	varNames := make(map[string]bool)
	checkVar := func(field, name string, typ ir.Type) {
		errs = append(errs, validateIdent(field+".name", name)...)
		if varNames[name] {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate variable name: %q", name),
				Code:    ErrDuplicateName,
			})
		}
		varNames[name] = true

		if typ == nil {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("variable %q has no type", name),
				Code:    ErrUnresolvedType,
			})
			return
		}
		if d, ok := declared[typ.TypeName()]; !ok || d != typ {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("type %q of variable %q is not declared in the model", typ.TypeName(), name),
				Code:    ErrUnresolvedType,
			})
		}
	}

	groups := []struct {
		key     string
		tensors []ir.TensorVariable
	}{
		{"inputs", m.Inputs},
		{"outputs", m.Outputs},
		{"tensors", m.Tensors},
	}
	for _, g := range groups {
		for i, tv := range g.tensors {
			field := fmt.Sprintf("%s[%d]", g.key, i)
			checkVar(field, tv.Name, tv.Type)
			errs = append(errs, validateShape(field, tv)...)
		}
	}
	for i, wv := range m.Weights {
		checkVar(fmt.Sprintf("weights[%d]", i), wv.Name, wv.Type)
	}

	return errs
}

func validateIdent(field, name string) []ValidationError {
	if identPattern.MatchString(name) {
		return nil
	}
	return []ValidationError{{
		Field:   field,
		Message: fmt.Sprintf("%q is not a valid identifier", name),
		Code:    ErrInvalidIdentifier,
	}}
}

func validateShape(field string, tv ir.TensorVariable) []ValidationError {
	var errs []ValidationError

	if len(tv.DimNames) != len(tv.Shape) {
		errs = append(errs, ValidationError{
			Field:   field + ".dims",
			Message: fmt.Sprintf("%d dimension names for %d dimensions", len(tv.DimNames), len(tv.Shape)),
			Code:    ErrDimensionMismatch,
		})
	}
	for i, d := range tv.Shape {
		if d < 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.shape[%d]", field, i),
				Message: fmt.Sprintf("negative dimension %d", d),
				Code:    ErrNegativeDimension,
			})
		}
	}
	for i, name := range tv.DimNames {
		errs = append(errs, validateIdent(fmt.Sprintf("%s.dims[%d]", field, i), name)...)
	}

	return errs
}

// validateType checks the precisions of a type and the counts of packed types.
func validateType(field string, t ir.Type) []ValidationError {
	var errs []ValidationError

	switch typ := t.(type) {
	case ir.PackedType:
		return validateType(field, &typ)
	case ir.CompressedType:
		return validateType(field, &typ)
	case ir.ExponentType:
		return validateType(field, &typ)
	case ir.NamedType:
		return validateType(field, &typ)
	case *ir.PackedType:
		errs = append(errs, validatePrecision(field+".precision", typ.Precision)...)
		if typ.NPack < 1 {
			errs = append(errs, ValidationError{
				Field:   field + ".n_pack",
				Message: fmt.Sprintf("pack factor must be at least 1, got %d", typ.NPack),
				Code:    ErrInvalidPackFactor,
			})
		}
		if typ.NElem < 1 {
			errs = append(errs, ValidationError{
				Field:   field + ".n_elem",
				Message: fmt.Sprintf("element count must be at least 1, got %d", typ.NElem),
				Code:    ErrInvalidPackFactor,
			})
		}
	case *ir.CompressedType:
		errs = append(errs, validatePrecision(field+".precision", typ.Precision)...)
		errs = append(errs, validatePrecision(field+".index", typ.IndexPrecision)...)
	case *ir.ExponentType:
		errs = append(errs, validatePrecision(field+".precision", typ.Precision)...)
	case *ir.NamedType:
		errs = append(errs, validatePrecision(field+".precision", typ.Precision)...)
	default:
		errs = append(errs, ValidationError{
			Field:   field,
			Message: fmt.Sprintf("unsupported type variant: %T", t),
			Code:    ErrUnsupportedTypeVariant,
		})
	}

	return errs
}

func validatePrecision(field string, p ir.Precision) []ValidationError {
	var errs []ValidationError

	width := func(w int) {
		if w < 1 {
			errs = append(errs, ValidationError{
				Field:   field + ".width",
				Message: fmt.Sprintf("width must be at least 1, got %d", w),
				Code:    ErrInvalidWidth,
			})
		}
	}

	switch prec := p.(type) {
	case ir.IntegerPrecision:
		width(prec.Width)
	case ir.ExponentPrecision:
		width(prec.Width)
	case ir.XnorPrecision:
	case ir.FixedPrecision:
		width(prec.Width)
		if prec.Integer < 0 || prec.Integer > prec.Width {
			errs = append(errs, ValidationError{
				Field:   field + ".integer",
				Message: fmt.Sprintf("integer bits %d outside [0, %d]", prec.Integer, prec.Width),
				Code:    ErrInvalidIntegerBits,
			})
		}
		if prec.RoundingMode != ir.RoundingUnset && !ir.ValidRoundingModes[prec.RoundingMode] {
			errs = append(errs, ValidationError{
				Field:   field + ".rounding",
				Message: fmt.Sprintf("unknown rounding mode %q", prec.RoundingMode),
				Code:    ErrInvalidRoundingMode,
			})
		}
		if prec.SaturationMode != ir.SaturationUnset && !ir.ValidSaturationModes[prec.SaturationMode] {
			errs = append(errs, ValidationError{
				Field:   field + ".saturation",
				Message: fmt.Sprintf("unknown saturation mode %q", prec.SaturationMode),
				Code:    ErrInvalidSaturationMode,
			})
		}
		if prec.SaturationBits != nil && prec.SaturationMode == ir.SaturationUnset {
			errs = append(errs, ValidationError{
				Field:   field + ".saturation_bits",
				Message: "saturation bits require a saturation mode",
				Code:    ErrSaturationBitsNoMode,
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("unknown precision kind %T", p),
			Code:    ErrUnknownPrecisionKind,
		})
	}

	return errs
}

package compiler

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/hlsdecl/internal/ir"
)

// Type forms accepted in a model description. An absent form means plain.
const (
	FormPlain      = "plain"
	FormCompressed = "compressed"
	FormExponent   = "exponent"
	FormPacked     = "packed"
)

// LoadModelFile compiles a .cue file and returns the model under its
// top-level "model" field.
func LoadModelFile(path string) (*ir.Model, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	v := cuecontext.New().CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	modelVal := v.LookupPath(cue.ParsePath("model"))
	if !modelVal.Exists() {
		return nil, &CompileError{
			Field:   "model",
			Message: "model is required",
			Pos:     v.Pos(),
		}
	}
	return CompileModel(modelVal)
}

// CompileModel parses a CUE value into an ir.Model.
//
// The value should be the model struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`model: { name: "mlp", types: {...}, ... }`)
//	m, err := CompileModel(v.LookupPath(cue.ParsePath("model")))
//
// Types are resolved by name; a variable referring to an undeclared type is
// a CompileError. Declaration order is preserved everywhere.
func CompileModel(v cue.Value) (*ir.Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &ir.Model{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "model name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	m.Name = name

	m.Types, err = parseTypes(v)
	if err != nil {
		return nil, err
	}

	if m.Inputs, err = parseTensors(v, "inputs", m); err != nil {
		return nil, err
	}
	if m.Outputs, err = parseTensors(v, "outputs", m); err != nil {
		return nil, err
	}
	if m.Tensors, err = parseTensors(v, "tensors", m); err != nil {
		return nil, err
	}
	if m.Weights, err = parseWeights(v, m); err != nil {
		return nil, err
	}

	return m, nil
}

// parseTypes extracts the named types in declaration order.
func parseTypes(v cue.Value) ([]ir.Type, error) {
	var types []ir.Type

	typesVal := v.LookupPath(cue.ParsePath("types"))
	if !typesVal.Exists() {
		return types, nil
	}

	iter, err := typesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		typ, err := parseType(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		types = append(types, typ)
	}

	return types, nil
}

func parseType(name string, v cue.Value) (ir.Type, error) {
	field := "types." + name

	form := FormPlain
	if formVal := v.LookupPath(cue.ParsePath("form")); formVal.Exists() {
		s, err := formVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		form = s
	}

	precVal := v.LookupPath(cue.ParsePath("precision"))
	if !precVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".precision",
			Message: "precision is required",
			Pos:     v.Pos(),
		}
	}
	prec, err := parsePrecision(field+".precision", precVal)
	if err != nil {
		return nil, err
	}

	switch form {
	case FormPlain:
		return ir.NewNamedType(name, prec), nil

	case FormCompressed:
		indexVal := v.LookupPath(cue.ParsePath("index"))
		if !indexVal.Exists() {
			return nil, &CompileError{
				Field:   field + ".index",
				Message: "compressed types require an index precision",
				Pos:     v.Pos(),
			}
		}
		index, err := parsePrecision(field+".index", indexVal)
		if err != nil {
			return nil, err
		}
		return ir.NewCompressedType(name, prec, index), nil

	case FormExponent:
		return ir.NewExponentType(name, prec), nil

	case FormPacked:
		nElem, err := requiredInt(v, field, "n_elem")
		if err != nil {
			return nil, err
		}
		nPack, err := requiredInt(v, field, "n_pack")
		if err != nil {
			return nil, err
		}
		unpack, err := optionalBool(v, "unpack", false)
		if err != nil {
			return nil, err
		}
		return ir.NewPackedType(name, prec, nElem, nPack, unpack), nil

	default:
		return nil, &CompileError{
			Field:   field + ".form",
			Message: fmt.Sprintf("unknown form %q, must be one of plain, compressed, exponent, packed", form),
			Pos:     v.Pos(),
		}
	}
}

// parsePrecision converts a precision struct into one of the ir precision
// kinds. signed defaults to true.
func parsePrecision(field string, v cue.Value) (ir.Precision, error) {
	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: "precision kind is required",
			Pos:     v.Pos(),
		}
	}
	kindStr, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	kind := ir.PrecisionKind(kindStr)

	if kind == ir.KindXnor {
		return ir.XnorPrecision{}, nil
	}
	if !ir.ValidPrecisionKinds[kind] {
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("unknown precision kind %q", kindStr),
			Pos:     kindVal.Pos(),
		}
	}

	width, err := requiredInt(v, field, "width")
	if err != nil {
		return nil, err
	}
	signed, err := optionalBool(v, "signed", true)
	if err != nil {
		return nil, err
	}

	switch kind {
	case ir.KindInteger:
		return ir.IntegerPrecision{Width: width, Signed: signed}, nil
	case ir.KindExponent:
		return ir.ExponentPrecision{Width: width, Signed: signed}, nil
	}

	integer, err := requiredInt(v, field, "integer")
	if err != nil {
		return nil, err
	}
	p := ir.FixedPrecision{Width: width, Integer: integer, Signed: signed}

	if rv := v.LookupPath(cue.ParsePath("rounding")); rv.Exists() {
		s, err := rv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.RoundingMode = ir.RoundingMode(strings.ToUpper(s))
	}
	if sv := v.LookupPath(cue.ParsePath("saturation")); sv.Exists() {
		s, err := sv.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.SaturationMode = ir.SaturationMode(strings.ToUpper(s))
	}
	if bv := v.LookupPath(cue.ParsePath("saturation_bits")); bv.Exists() {
		n, err := bv.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p.SaturationBits = ir.Bits(int(n))
	}

	return p, nil
}

// parseTensors extracts the tensor variables under key.
func parseTensors(v cue.Value, key string, m *ir.Model) ([]ir.TensorVariable, error) {
	var tensors []ir.TensorVariable

	val := v.LookupPath(cue.ParsePath(key))
	if !val.Exists() {
		return tensors, nil
	}

	iter, err := val.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		tv := iter.Value()
		field := key + "." + name

		shape, err := intList(tv.LookupPath(cue.ParsePath("shape")), field+".shape")
		if err != nil {
			return nil, err
		}
		dims, err := stringList(tv.LookupPath(cue.ParsePath("dims")), field+".dims")
		if err != nil {
			return nil, err
		}
		typ, err := resolveType(tv, field, m)
		if err != nil {
			return nil, err
		}

		tensors = append(tensors, ir.TensorVariable{
			Shape:    shape,
			DimNames: dims,
			Name:     name,
			Type:     typ,
		})
	}

	return tensors, nil
}

// parseWeights extracts the weight variables.
func parseWeights(v cue.Value, m *ir.Model) ([]ir.WeightVariable, error) {
	var weights []ir.WeightVariable

	val := v.LookupPath(cue.ParsePath("weights"))
	if !val.Exists() {
		return weights, nil
	}

	iter, err := val.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for iter.Next() {
		name := iter.Label()
		wv := iter.Value()
		field := "weights." + name

		typ, err := resolveType(wv, field, m)
		if err != nil {
			return nil, err
		}

		w := ir.WeightVariable{Name: name, Type: typ}

		if dataVal := wv.LookupPath(cue.ParsePath("data")); dataVal.Exists() {
			list, err := dataVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for list.Next() {
				f, err := list.Value().Float64()
				if err != nil {
					return nil, formatCUEError(err)
				}
				w.Data = append(w.Data, f)
			}
		}

		if qv := wv.LookupPath(cue.ParsePath("quantizer")); qv.Exists() {
			qname, err := qv.LookupPath(cue.ParsePath("name")).String()
			if err != nil {
				return nil, formatCUEError(err)
			}
			q := &ir.Quantizer{Name: qname}
			if bv := qv.LookupPath(cue.ParsePath("bits")); bv.Exists() {
				n, err := bv.Int64()
				if err != nil {
					return nil, formatCUEError(err)
				}
				q.Bits = int(n)
			}
			w.Quantizer = q
		}

		weights = append(weights, w)
	}

	return weights, nil
}

func resolveType(v cue.Value, field string, m *ir.Model) (ir.Type, error) {
	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: "type is required",
			Pos:     v.Pos(),
		}
	}
	typeName, err := typeVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	typ, ok := m.LookupType(typeName)
	if !ok {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: fmt.Sprintf("undeclared type %q", typeName),
			Pos:     typeVal.Pos(),
		}
	}
	return typ, nil
}

func requiredInt(v cue.Value, field, key string) (int, error) {
	iv := v.LookupPath(cue.ParsePath(key))
	if !iv.Exists() {
		return 0, &CompileError{
			Field:   field + "." + key,
			Message: key + " is required",
			Pos:     v.Pos(),
		}
	}
	n, err := iv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return int(n), nil
}

func optionalBool(v cue.Value, key string, def bool) (bool, error) {
	bv := v.LookupPath(cue.ParsePath(key))
	if !bv.Exists() {
		return def, nil
	}
	b, err := bv.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

func intList(v cue.Value, field string) ([]int, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: field, Message: field + " is required"}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := []int{}
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, int(n))
	}
	return out, nil
}

func stringList(v cue.Value, field string) ([]string, error) {
	if !v.Exists() {
		return nil, &CompileError{Field: field, Message: field + " is required"}
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	out := []string{}
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out = append(out, s)
	}
	return out, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// First error with a position wins.
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}

package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hlsdecl/internal/ir"
)

func validModel() *ir.Model {
	in := ir.NewNamedType("input_t", ir.FixedPrecision{Width: 16, Integer: 6, Signed: true})
	w := ir.NewCompressedType("w_t", ir.FixedPrecision{Width: 8, Integer: 3, Signed: true}, ir.IntegerPrecision{Width: 10})
	pk := ir.NewPackedType("pk_t", ir.IntegerPrecision{Width: 4}, 32, 4, true)
	return &ir.Model{
		Name:  "mlp",
		Types: []ir.Type{in, w, pk},
		Inputs: []ir.TensorVariable{
			{Shape: []int{16}, DimNames: []string{"N_INPUT_1_1"}, Name: "input_1", Type: in},
		},
		Tensors: []ir.TensorVariable{
			{Shape: []int{4, 8}, DimNames: []string{"A", "B"}, Name: "layer1_out", Type: pk},
		},
		Weights: []ir.WeightVariable{
			{Name: "w2", Type: w, Data: []float64{1, 2}},
		},
	}
}

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidateModelValid(t *testing.T) {
	errs := Validate(validModel())
	assert.Empty(t, errs, "valid model should have no errors")
}

func TestValidateNilModel(t *testing.T) {
	errs := Validate(nil)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrModelNameEmpty, errs[0].Code)
}

func TestValidateModelNameEmpty(t *testing.T) {
	m := validModel()
	m.Name = ""

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrModelNameEmpty, errs[0].Code)
	assert.Equal(t, "name", errs[0].Field)
}

func TestValidatePrecisionErrors(t *testing.T) {
	testCases := []struct {
		name  string
		prec  ir.Precision
		code  string
		field string
	}{
		{
			name:  "zero width integer",
			prec:  ir.IntegerPrecision{Width: 0},
			code:  ErrInvalidWidth,
			field: "types[0].precision.width",
		},
		{
			name:  "negative width exponent",
			prec:  ir.ExponentPrecision{Width: -1},
			code:  ErrInvalidWidth,
			field: "types[0].precision.width",
		},
		{
			name:  "integer bits above width",
			prec:  ir.FixedPrecision{Width: 8, Integer: 9},
			code:  ErrInvalidIntegerBits,
			field: "types[0].precision.integer",
		},
		{
			name:  "negative integer bits",
			prec:  ir.FixedPrecision{Width: 8, Integer: -1},
			code:  ErrInvalidIntegerBits,
			field: "types[0].precision.integer",
		},
		{
			name:  "saturation bits without mode",
			prec:  ir.FixedPrecision{Width: 8, Integer: 4, SaturationBits: ir.Bits(1)},
			code:  ErrSaturationBitsNoMode,
			field: "types[0].precision.saturation_bits",
		},
		{
			name:  "unknown rounding",
			prec:  ir.FixedPrecision{Width: 8, Integer: 4, RoundingMode: "ROUND_HALF"},
			code:  ErrInvalidRoundingMode,
			field: "types[0].precision.rounding",
		},
		{
			name:  "unknown saturation",
			prec:  ir.FixedPrecision{Width: 8, Integer: 4, SaturationMode: "CLAMP"},
			code:  ErrInvalidSaturationMode,
			field: "types[0].precision.saturation",
		},
		{
			name:  "nil precision",
			prec:  nil,
			code:  ErrUnknownPrecisionKind,
			field: "types[0].precision.kind",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			typ := ir.NewNamedType("t", tc.prec)
			m := &ir.Model{Name: "m", Types: []ir.Type{typ}}

			errs := Validate(m)
			require.Len(t, errs, 1, "errors: %v", errs)
			assert.Equal(t, tc.code, errs[0].Code)
			assert.Equal(t, tc.field, errs[0].Field)
		})
	}
}

func TestValidateFixedFullIntegerBitsAllowed(t *testing.T) {
	m := &ir.Model{
		Name: "m",
		Types: []ir.Type{
			ir.NewNamedType("a", ir.FixedPrecision{Width: 8, Integer: 8, SaturationMode: ir.SaturationWrap, SaturationBits: ir.Bits(0)}),
			ir.NewNamedType("b", ir.FixedPrecision{Width: 8, Integer: 0}),
			ir.NewNamedType("c", ir.XnorPrecision{}),
		},
	}
	assert.Empty(t, Validate(m))
}

func TestValidateCompressedIndexChecked(t *testing.T) {
	m := &ir.Model{
		Name: "m",
		Types: []ir.Type{
			ir.NewCompressedType("w_t", ir.IntegerPrecision{Width: 8}, ir.IntegerPrecision{Width: 0}),
		},
	}

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrInvalidWidth, errs[0].Code)
	assert.Equal(t, "types[0].index.width", errs[0].Field)
}

func TestValidatePackFactor(t *testing.T) {
	m := &ir.Model{
		Name: "m",
		Types: []ir.Type{
			ir.NewPackedType("pk_t", ir.IntegerPrecision{Width: 4}, 0, 0, false),
		},
	}

	errs := Validate(m)
	assert.Equal(t, []string{ErrInvalidPackFactor, ErrInvalidPackFactor}, codes(errs))
}

func TestValidateValueTypesAccepted(t *testing.T) {
	m := &ir.Model{
		Name:  "m",
		Types: []ir.Type{ir.NamedType{Name: "t", Precision: ir.IntegerPrecision{Width: 0}}},
	}

	errs := Validate(m)
	assert.Equal(t, []string{ErrInvalidWidth}, codes(errs))
}

func TestValidateDuplicateNames(t *testing.T) {
	m := validModel()
	m.Types = append(m.Types, ir.NewNamedType("input_t", ir.IntegerPrecision{Width: 8}))
	m.Outputs = []ir.TensorVariable{
		{Shape: []int{16}, DimNames: []string{"N"}, Name: "input_1", Type: m.Types[0]},
	}

	errs := Validate(m)
	assert.Equal(t, []string{ErrDuplicateName, ErrDuplicateName}, codes(errs))
	assert.Equal(t, "types[3].name", errs[0].Field)
	assert.Equal(t, "outputs[0].name", errs[1].Field)
}

func TestValidateDimensionMismatch(t *testing.T) {
	m := validModel()
	m.Inputs[0].DimNames = nil

	errs := Validate(m)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDimensionMismatch, errs[0].Code)
	assert.Equal(t, "inputs[0].dims", errs[0].Field)
}

func TestValidateNegativeDimension(t *testing.T) {
	m := validModel()
	m.Tensors[0].Shape = []int{-4, 8}

	errs := Validate(m)
	assert.Equal(t, []string{ErrNegativeDimension}, codes(errs))
}

func TestValidateIdentifiers(t *testing.T) {
	m := validModel()
	m.Inputs[0].Name = "input-1"
	m.Inputs[0].DimNames = []string{"1N"}

	errs := Validate(m)
	assert.Equal(t, []string{ErrInvalidIdentifier, ErrInvalidIdentifier}, codes(errs))
}

func TestValidateUnresolvedTypes(t *testing.T) {
	m := validModel()
	m.Weights = append(m.Weights,
		ir.WeightVariable{Name: "b2", Type: nil},
		ir.WeightVariable{Name: "b3", Type: ir.NewNamedType("stray_t", ir.IntegerPrecision{Width: 8})},
	)

	errs := Validate(m)
	assert.Equal(t, []string{ErrUnresolvedType, ErrUnresolvedType}, codes(errs))
	assert.Contains(t, errs[1].Message, "stray_t")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	m := validModel()
	m.Name = ""
	m.Inputs[0].DimNames = nil
	m.Weights[0].Type = nil

	errs := Validate(m)
	assert.Equal(t, []string{ErrModelNameEmpty, ErrDimensionMismatch, ErrUnresolvedType}, codes(errs))
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "types[0].width", Message: "bad", Code: ErrInvalidWidth}
	assert.Equal(t, "[E104] types[0].width: bad", err.Error())

	err.Line = 3
	assert.Equal(t, "[E104] line 3: types[0].width: bad", err.Error())
}

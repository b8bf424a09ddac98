package variable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
)

func apConverter() *hls.TypeConverter {
	return hls.NewTypeConverter(hls.NewPrecisionConverter(hls.DialectAP))
}

func layerTensor() ir.TensorVariable {
	return ir.TensorVariable{
		Shape:    []int{10, 8},
		DimNames: []string{"OUT_HEIGHT_2", "N_FILT_2"},
		Name:     "layer2_out",
		Type:     ir.NewNamedType("layer2_t", ir.FixedPrecision{Width: 16, Integer: 6, Signed: true}),
	}
}

func TestArray_RenderDensePort(t *testing.T) {
	arr, err := NewArray(layerTensor(), apConverter(), "")
	require.NoError(t, err)

	assert.Equal(t, "layer2_t layer2_out[OUT_HEIGHT_2*N_FILT_2]", arr.Render(Mode{Port: PortDense}))
	assert.Equal(t, "layer2_t layer2_out_cpy1[OUT_HEIGHT_2*N_FILT_2]", arr.Render(Mode{Port: PortDense, Suffix: "_cpy1"}))
	assert.Equal(t, DefaultArrayPragma, arr.Pragma)
	assert.Equal(t, KindArray, arr.Kind())
	assert.Equal(t, "layer2_out", arr.VarName())
}

func TestArray_RenderStructPortAppendsPragma(t *testing.T) {
	arr, err := NewArray(layerTensor(), apConverter(), "hls_register")
	require.NoError(t, err)

	assert.Equal(t, "layer2_t layer2_out[OUT_HEIGHT_2*N_FILT_2] hls_register", arr.Render(Mode{Port: PortStruct}))
	// Form does not change arrays.
	assert.Equal(t,
		arr.Render(Mode{Port: PortStruct, Form: FormDeclaration}),
		arr.Render(Mode{Port: PortStruct, Form: FormReference}))
}

func TestArray_ConvertsTypeOnce(t *testing.T) {
	arr, err := NewArray(layerTensor(), apConverter(), "")
	require.NoError(t, err)

	require.NotNil(t, arr.DeclaredType())
	assert.Equal(t, "typedef ap_fixed<16,6> layer2_t;", arr.DeclaredType().Render())
}

func TestArray_Idempotent(t *testing.T) {
	arr, err := NewArray(layerTensor(), apConverter(), "")
	require.NoError(t, err)

	again, err := NewArray(arr, apConverter(), "other")
	require.NoError(t, err)
	assert.Same(t, arr, again)
}

func TestArray_DimNameMismatch(t *testing.T) {
	v := layerTensor()
	v.DimNames = v.DimNames[:1]

	_, err := NewArray(v, apConverter(), "")
	require.Error(t, err)
	assert.True(t, hls.IsDegenerateShape(err))
}

func TestArray_UnsupportedType(t *testing.T) {
	v := layerTensor()
	v.Type = ir.NewNamedType("bad_t", nil)

	_, err := NewArray(v, apConverter(), "")
	require.Error(t, err)
	assert.True(t, hls.IsUnsupportedPrecisionKind(err))
	assert.Contains(t, err.Error(), "array layer2_out")
}

func TestArray_DoesNotAliasSource(t *testing.T) {
	v := layerTensor()
	arr, err := NewArray(v, apConverter(), "")
	require.NoError(t, err)

	v.Shape[0] = 99
	v.DimNames[0] = "CHANGED"
	assert.Equal(t, []int{10, 8}, arr.Shape)
	assert.Equal(t, "layer2_t layer2_out[OUT_HEIGHT_2*N_FILT_2]", arr.Render(Mode{}))
}

func TestArray_FromStreamUnpacksType(t *testing.T) {
	tc := apConverter()
	stream, err := NewStream(layerTensor(), tc, 2, 0)
	require.NoError(t, err)
	require.Equal(t, hls.FormPacked, stream.Type.Form)

	arr, err := NewArray(stream, tc, "")
	require.NoError(t, err)
	assert.Equal(t, hls.FormPlain, arr.Type.Form)
	assert.Equal(t, "typedef ap_fixed<16,6> layer2_t;", arr.Type.Render())
	assert.Equal(t, "layer2_t layer2_out[OUT_HEIGHT_2*N_FILT_2]", arr.Render(Mode{Port: PortDense, Form: FormDeclaration}))

	member, err := NewStructMember(stream, tc, "", "inputs")
	require.NoError(t, err)
	assert.Equal(t, "typedef ap_fixed<16,6> layer2_t;", member.Type.Render())
}

func TestArray_FromAbstractPackedType(t *testing.T) {
	v := layerTensor()
	v.Type = ir.NewPackedType("layer2_t", ir.FixedPrecision{Width: 16, Integer: 6, Signed: true}, 8, 1, false)

	arr, err := NewArray(v, apConverter(), "")
	require.NoError(t, err)
	assert.Equal(t, "typedef ap_fixed<16,6> layer2_t;", arr.Type.Render())
}

func TestStructMember_Names(t *testing.T) {
	in := ir.TensorVariable{
		Shape:    []int{16},
		DimNames: []string{"N_INPUT_1_1"},
		Name:     "input_1",
		Type:     ir.NewNamedType("input_t", ir.FixedPrecision{Width: 16, Integer: 6, Signed: true}),
	}

	m, err := NewStructMember(in, apConverter(), "", "inputs")
	require.NoError(t, err)

	assert.Equal(t, "inputs.input_1", m.VarName())
	assert.Equal(t, "input_1", m.MemberName())
	assert.Equal(t, DefaultMemberPragma, m.Pragma)
	assert.Equal(t, KindStructMember, m.Kind())
	assert.Equal(t, "input_t input_1[N_INPUT_1_1]", m.Render(Mode{Port: PortStruct}))
	assert.Equal(t, "input_t input_1_local[N_INPUT_1_1]", m.Render(Mode{Port: PortDense, Suffix: "_local"}))
}

func TestStructMember_MissingStructName(t *testing.T) {
	_, err := NewStructMember(layerTensor(), apConverter(), "", "")
	require.Error(t, err)
	assert.True(t, hls.IsMissingContext(err))
	assert.Contains(t, err.Error(), "layer2_out")
}

func TestStructMember_Idempotent(t *testing.T) {
	m, err := NewStructMember(layerTensor(), apConverter(), "", "outputs")
	require.NoError(t, err)

	// Already a struct member: the struct name is not needed again.
	again, err := NewStructMember(m, apConverter(), "", "")
	require.NoError(t, err)
	assert.Same(t, m, again)
}

func TestStructMember_FromArrayRewraps(t *testing.T) {
	arr, err := NewArray(layerTensor(), apConverter(), "")
	require.NoError(t, err)

	m, err := NewStructMember(arr, apConverter(), "", "outputs")
	require.NoError(t, err)
	assert.Same(t, arr.Type, m.Type, "converted type must pass through unchanged")
	assert.Equal(t, "outputs.layer2_out", m.VarName())
}

func TestParsePort(t *testing.T) {
	p, err := ParsePort("Dense")
	require.NoError(t, err)
	assert.Equal(t, PortDense, p)

	p, err = ParsePort("struct")
	require.NoError(t, err)
	assert.Equal(t, PortStruct, p)
	assert.Equal(t, "struct", p.String())

	_, err = ParsePort("axi")
	assert.Error(t, err)
}

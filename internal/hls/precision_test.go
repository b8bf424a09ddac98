package hls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/hlsdecl/internal/ir"
)

func TestConvert_IntegerLiterals(t *testing.T) {
	testCases := []struct {
		name      string
		precision ir.Precision
		ap        string
		ac        string
	}{
		{
			name:      "signed 8 bit",
			precision: ir.IntegerPrecision{Width: 8, Signed: true},
			ap:        "ap_int<8>",
			ac:        "ac_int<8, true>",
		},
		{
			name:      "unsigned 4 bit",
			precision: ir.IntegerPrecision{Width: 4, Signed: false},
			ap:        "ap_uint<4>",
			ac:        "ac_int<4, false>",
		},
		{
			name:      "pointer form",
			precision: &ir.IntegerPrecision{Width: 32, Signed: true},
			ap:        "ap_int<32>",
			ac:        "ac_int<32, true>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ap, err := NewPrecisionConverter(DialectAP).Convert(tc.precision)
			require.NoError(t, err)
			assert.Equal(t, tc.ap, ap.Render())

			ac, err := NewPrecisionConverter(DialectAC).Convert(tc.precision)
			require.NoError(t, err)
			assert.Equal(t, tc.ac, ac.Render())
		})
	}
}

func TestConvert_FixedOptionalArguments(t *testing.T) {
	testCases := []struct {
		name      string
		precision ir.FixedPrecision
		ap        string
		ac        string
	}{
		{
			name:      "no optional arguments",
			precision: ir.FixedPrecision{Width: 16, Integer: 6, Signed: true},
			ap:        "ap_fixed<16,6>",
			ac:        "ac_fixed<16,6,true>",
		},
		{
			name:      "rounding only",
			precision: ir.FixedPrecision{Width: 16, Integer: 6, Signed: true, RoundingMode: ir.RoundingRND},
			ap:        "ap_fixed<16,6,AP_RND>",
			ac:        "ac_fixed<16,6,true,AC_RND>",
		},
		{
			name:      "saturation without rounding",
			precision: ir.FixedPrecision{Width: 16, Integer: 6, Signed: true, SaturationMode: ir.SaturationSat},
			ap:        "ap_fixed<16,6,AP_SAT>",
			ac:        "ac_fixed<16,6,true,AC_SAT>",
		},
		{
			name: "all arguments unsigned",
			precision: ir.FixedPrecision{
				Width:          10,
				Integer:        2,
				Signed:         false,
				RoundingMode:   ir.RoundingRNDConv,
				SaturationMode: ir.SaturationSatSym,
				SaturationBits: ir.Bits(1),
			},
			ap: "ap_ufixed<10,2,AP_RND_CONV,AP_SAT_SYM,1>",
			ac: "ac_fixed<10,2,false,AC_RND_CONV,AC_SAT_SYM,1>",
		},
		{
			name:      "zero saturation bits are rendered",
			precision: ir.FixedPrecision{Width: 8, Integer: 8, Signed: true, SaturationMode: ir.SaturationWrap, SaturationBits: ir.Bits(0)},
			ap:        "ap_fixed<8,8,AP_WRAP,0>",
			ac:        "ac_fixed<8,8,true,AC_WRAP,0>",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ap, err := NewPrecisionConverter(DialectAP).Convert(tc.precision)
			require.NoError(t, err)
			assert.Equal(t, tc.ap, ap.Render())
			assert.NotContains(t, ap.Render(), ",,")

			ac, err := NewPrecisionConverter(DialectAC).Convert(&tc.precision)
			require.NoError(t, err)
			assert.Equal(t, tc.ac, ac.Render())
			assert.NotContains(t, ac.Render(), ",,")
		})
	}
}

func TestConvert_XnorAndExponent(t *testing.T) {
	ap := NewPrecisionConverter(DialectAP)
	ac := NewPrecisionConverter(DialectAC)

	xnorAP, err := ap.Convert(ir.XnorPrecision{})
	require.NoError(t, err)
	assert.Equal(t, "ap_uint<1>", xnorAP.Render())
	assert.Equal(t, ir.KindXnor, xnorAP.Kind)

	xnorAC, err := ac.Convert(&ir.XnorPrecision{})
	require.NoError(t, err)
	assert.Equal(t, "ac_int<1, false>", xnorAC.Render())

	expAP, err := ap.Convert(ir.ExponentPrecision{Width: 4, Signed: true})
	require.NoError(t, err)
	assert.Equal(t, "ap_int<4>", expAP.Render())
	assert.Equal(t, ir.KindExponent, expAP.PrecisionKind())

	expAC, err := ac.Convert(ir.ExponentPrecision{Width: 5, Signed: false})
	require.NoError(t, err)
	assert.Equal(t, "ac_int<5, false>", expAC.Render())
}

func TestConvert_CopiesOnlyKindFields(t *testing.T) {
	p, err := NewPrecisionConverter(DialectAP).Convert(ir.IntegerPrecision{Width: 8, Signed: true})
	require.NoError(t, err)

	assert.Equal(t, 0, p.Integer)
	assert.Empty(t, p.RoundingMode)
	assert.Empty(t, p.SaturationMode)
	assert.Nil(t, p.SaturationBits)
}

func TestConvert_DoesNotAliasSource(t *testing.T) {
	src := ir.FixedPrecision{Width: 8, Integer: 3, Signed: true, SaturationMode: ir.SaturationSat, SaturationBits: ir.Bits(2)}

	p, err := NewPrecisionConverter(DialectAP).Convert(src)
	require.NoError(t, err)

	*p.SaturationBits = 7
	assert.Equal(t, 2, *src.SaturationBits, "source precision must never be mutated through a converted value")
}

func TestConvert_Idempotent(t *testing.T) {
	precisions := []ir.Precision{
		ir.IntegerPrecision{Width: 8, Signed: true},
		ir.FixedPrecision{Width: 16, Integer: 6, Signed: true, RoundingMode: ir.RoundingTRN},
		ir.XnorPrecision{},
		ir.ExponentPrecision{Width: 3, Signed: true},
	}

	for _, d := range ValidDialects {
		pc := NewPrecisionConverter(d)
		for _, src := range precisions {
			once, err := pc.Convert(src)
			require.NoError(t, err)

			twice, err := pc.Convert(once)
			require.NoError(t, err)

			assert.Same(t, once, twice, "already converted precision must be returned unchanged")
			assert.Equal(t, once.Render(), twice.Render())
		}
	}
}

func TestConvert_TaggedValueForm(t *testing.T) {
	pc := NewPrecisionConverter(DialectAC)
	tagged, err := pc.Convert(ir.IntegerPrecision{Width: 6, Signed: false})
	require.NoError(t, err)

	again, err := pc.Convert(*tagged)
	require.NoError(t, err)
	assert.Equal(t, tagged.Render(), again.Render())
}

func TestConvert_OtherDialectRejected(t *testing.T) {
	apValue, err := NewPrecisionConverter(DialectAP).Convert(ir.IntegerPrecision{Width: 8, Signed: true})
	require.NoError(t, err)

	_, err = NewPrecisionConverter(DialectAC).Convert(apValue)
	require.Error(t, err)
	assert.True(t, IsUnsupportedPrecisionKind(err))
	assert.Contains(t, err.Error(), "AC")

	// The rejected value is untouched.
	assert.Equal(t, DialectAP, apValue.Dialect)
	assert.Equal(t, "ap_int<8>", apValue.Render())
}

type futurePrecision struct{}

func (futurePrecision) PrecisionKind() ir.PrecisionKind { return "float" }

func TestConvert_UnsupportedKinds(t *testing.T) {
	testCases := []struct {
		name      string
		precision ir.Precision
	}{
		{name: "nil", precision: nil},
		{name: "future kind", precision: futurePrecision{}},
		{name: "nil pointer", precision: (*ir.FixedPrecision)(nil)},
		{name: "tagged unknown kind", precision: &Precision{Dialect: DialectAP, Kind: "float", Width: 32}},
		{name: "tagged unknown kind value", precision: Precision{Dialect: DialectAP, Kind: "float", Width: 32}},
		{name: "tagged empty kind", precision: &Precision{Dialect: DialectAP}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPrecisionConverter(DialectAP).Convert(tc.precision)
			require.Error(t, err)
			assert.Nil(t, p)
			assert.Equal(t, ErrCodeUnsupportedPrecisionKind, CodeOf(err))
		})
	}
}

func TestNewPrecisionConverter_InvalidDialectPanics(t *testing.T) {
	assert.Panics(t, func() { NewPrecisionConverter(Dialect("vhdl")) })
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect(" AP ")
	require.NoError(t, err)
	assert.Equal(t, DialectAP, d)
	assert.Equal(t, "ap_", d.Prefix())

	d, err = ParseDialect("ac")
	require.NoError(t, err)
	assert.Equal(t, DialectAC, d)
	assert.Equal(t, "AC", d.Upper())

	_, err = ParseDialect("sc")
	assert.Error(t, err)
}

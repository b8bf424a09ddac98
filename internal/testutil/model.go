// Package testutil holds fixtures shared by the tests of several packages.
package testutil

import (
	"io"
	"log/slog"

	"github.com/roach88/hlsdecl/internal/ir"
)

// MLPModelPath is the CUE source of MLPModel, relative to a package
// directory under internal/.
const MLPModelPath = "../compiler/testdata/mlp.cue"

// MLPModel returns a fresh copy of the two-layer model in
// compiler/testdata/mlp.cue. It exercises every type form except packed and
// every precision kind.
func MLPModel() *ir.Model {
	inputT := ir.NewNamedType("input_t", ir.FixedPrecision{Width: 16, Integer: 6, Signed: true})
	layer1T := ir.NewNamedType("layer1_t", ir.FixedPrecision{
		Width: 16, Integer: 6, Signed: true,
		RoundingMode: ir.RoundingRND, SaturationMode: ir.SaturationSat,
	})
	resultT := ir.NewNamedType("result_t", ir.FixedPrecision{
		Width: 10, Integer: 2, Signed: false,
		RoundingMode: ir.RoundingRNDConv, SaturationMode: ir.SaturationSatSym, SaturationBits: ir.Bits(1),
	})
	w2T := ir.NewCompressedType("w2_t", ir.FixedPrecision{Width: 8, Integer: 3, Signed: true}, ir.IntegerPrecision{Width: 10})
	b2T := ir.NewNamedType("b2_t", ir.IntegerPrecision{Width: 8, Signed: true})
	e2T := ir.NewExponentType("e2_t", ir.ExponentPrecision{Width: 4, Signed: true})
	signT := ir.NewNamedType("sign_t", ir.XnorPrecision{})

	return &ir.Model{
		Name:  "mlp",
		Types: []ir.Type{inputT, layer1T, resultT, w2T, b2T, e2T, signT},
		Inputs: []ir.TensorVariable{
			{Shape: []int{16}, DimNames: []string{"N_INPUT_1_1"}, Name: "input_1", Type: inputT},
		},
		Outputs: []ir.TensorVariable{
			{Shape: []int{10, 8}, DimNames: []string{"OUT_HEIGHT_2", "N_FILT_2"}, Name: "layer2_out", Type: resultT},
		},
		Tensors: []ir.TensorVariable{
			{Shape: []int{4, 4}, DimNames: []string{"OUT_HEIGHT_1", "N_FILT_1"}, Name: "layer1_out", Type: layer1T},
		},
		Weights: []ir.WeightVariable{
			{Name: "w2", Type: w2T, Data: []float64{0.5, -0.25, 1, 0, 0.125, -1}, Quantizer: &ir.Quantizer{Name: "quantized_bits", Bits: 8}},
			{Name: "b2", Type: b2T, Data: []float64{1, 2, 3}},
			{Name: "e2", Type: e2T, Data: []float64{0.5, 0.25}},
			{Name: "s2", Type: signT, Data: []float64{1, -1, 1, 1}},
		},
	}
}

// QuietLogger discards everything.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

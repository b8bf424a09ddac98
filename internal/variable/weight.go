package variable

import (
	"fmt"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
)

// StaticWeight is a weight array initialised in the generated source.
// Data is shared with the source variable and must not be modified.
type StaticWeight struct {
	Name string
	Type *hls.Type
	Data []float64
}

// NewStaticWeight builds a StaticWeight from src, converting its type with tc.
// If src already is a *StaticWeight it is returned unchanged.
func NewStaticWeight(src WeightSource, tc *hls.TypeConverter) (*StaticWeight, error) {
	if w, ok := src.(*StaticWeight); ok && w != nil {
		return w, nil
	}
	v, typ, err := convertWeight(src, tc)
	if err != nil {
		return nil, err
	}
	return &StaticWeight{Name: v.Name, Type: typ, Data: v.Data}, nil
}

func convertWeight(src WeightSource, tc *hls.TypeConverter) (ir.WeightVariable, *hls.Type, error) {
	if src == nil {
		return ir.WeightVariable{}, nil, fmt.Errorf("weight: nil weight source")
	}
	v := src.Weight()
	typ, err := tc.Convert(v.Type)
	if err != nil {
		return v, nil, fmt.Errorf("weight %s: %w", v.Name, err)
	}
	return v, typ, nil
}

func (w *StaticWeight) VarName() string         { return w.Name }
func (w *StaticWeight) Kind() Kind              { return KindStaticWeight }
func (w *StaticWeight) DeclaredType() *hls.Type { return w.Type }

// DataLength returns the flattened element count of Data.
func (w *StaticWeight) DataLength() int { return len(w.Data) }

// Weight implements WeightSource.
func (w *StaticWeight) Weight() ir.WeightVariable {
	return ir.WeightVariable{Name: w.Name, Type: w.Type, Data: w.Data}
}

// Render returns "{type} {name}[{data_length}]". The mode is ignored.
func (w *StaticWeight) Render(Mode) string {
	return fmt.Sprintf("%s %s[%d]", w.Type.Name, w.Name, w.DataLength())
}

// BramWeight is a weight mapped to block RAM. It has no declaration text of
// its own: the emission stage uses it to pick a different memory mapping.
type BramWeight struct {
	Name      string
	Type      *hls.Type
	Data      []float64
	Quantizer *ir.Quantizer
}

// NewBramWeight builds a BramWeight from src, converting its type with tc.
// If src already is a *BramWeight it is returned unchanged.
func NewBramWeight(src WeightSource, tc *hls.TypeConverter) (*BramWeight, error) {
	if w, ok := src.(*BramWeight); ok && w != nil {
		return w, nil
	}
	v, typ, err := convertWeight(src, tc)
	if err != nil {
		return nil, err
	}
	return &BramWeight{Name: v.Name, Type: typ, Data: v.Data, Quantizer: v.Quantizer}, nil
}

func (w *BramWeight) VarName() string         { return w.Name }
func (w *BramWeight) Kind() Kind              { return KindBramWeight }
func (w *BramWeight) DeclaredType() *hls.Type { return w.Type }

// DataLength returns the flattened element count of Data.
func (w *BramWeight) DataLength() int { return len(w.Data) }

// Weight implements WeightSource.
func (w *BramWeight) Weight() ir.WeightVariable {
	return ir.WeightVariable{Name: w.Name, Type: w.Type, Data: w.Data, Quantizer: w.Quantizer}
}

// Render returns "".
func (w *BramWeight) Render(Mode) string { return "" }

package variable

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
)

// Stream is a FIFO channel carrying one packed word per transfer. Each word
// packs the last dimension of the tensor.
type Stream struct {
	Shape    []int
	DimNames []string
	Name     string
	Type     *hls.Type // packed wrapper over the tensor's precision
	NPack    int
	Depth    int
}

// NewStream builds a Stream from src.
//
// The element type is a packed wrapper named after the source type, with
// the last dimension as element count and nPack (0 means 1) as pack factor.
// A depth of 0 selects the default product(shape)/shape[-1], i.e. one slot
// per word. Empty shapes, a zero last dimension and a zero default depth fail
// with DEGENERATE_SHAPE. If src already is a *Stream it is returned unchanged.
func NewStream(src TensorSource, tc *hls.TypeConverter, nPack, depth int) (*Stream, error) {
	if s, ok := src.(*Stream); ok && s != nil {
		return s, nil
	}
	if src == nil {
		return nil, fmt.Errorf("stream: nil tensor source")
	}
	v := src.Tensor()
	if err := checkDims(v); err != nil {
		return nil, err
	}
	if len(v.Shape) == 0 {
		return nil, hls.NewDegenerateShapeError(v.Name, "stream needs at least one dimension")
	}
	last := v.Shape[len(v.Shape)-1]
	if last <= 0 {
		return nil, hls.NewDegenerateShapeError(v.Name, fmt.Sprintf("last dimension is %d", last))
	}
	if nPack == 0 {
		nPack = 1
	}
	if depth < 0 {
		return nil, hls.NewDegenerateShapeError(v.Name, fmt.Sprintf("negative depth %d", depth))
	}
	if depth == 0 {
		var ok bool
		depth, ok = DefaultDepth(v.Shape)
		if !ok {
			return nil, hls.NewDegenerateShapeError(v.Name, fmt.Sprintf("shape %v overflows the stream depth", v.Shape))
		}
		if depth <= 0 {
			return nil, hls.NewDegenerateShapeError(v.Name, fmt.Sprintf("shape %v yields depth %d", v.Shape, depth))
		}
	}
	if v.Type == nil {
		return nil, fmt.Errorf("stream %s: %w", v.Name, hls.NewUnsupportedNamedTypeKindError(nil))
	}

	packed := ir.NewPackedType(v.Type.TypeName(), v.Type.TypePrecision(), last, nPack, false)
	typ, err := tc.Convert(packed)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", v.Name, err)
	}

	return &Stream{
		Shape:    slices.Clone(v.Shape),
		DimNames: slices.Clone(v.DimNames),
		Name:     v.Name,
		Type:     typ,
		NPack:    nPack,
		Depth:    depth,
	}, nil
}

// DefaultDepth returns product(shape)/shape[-1]: the number of packed words
// that flow through the stream. It multiplies every dimension but the last,
// so the result equals the quotient without forming the full product.
// Returns 0 for an empty shape or a zero last dimension. ok is false when
// the product does not fit in an int.
func DefaultDepth(shape []int) (depth int, ok bool) {
	if len(shape) == 0 || shape[len(shape)-1] == 0 {
		return 0, true
	}
	ok = true
	depth = lo.Reduce(shape[:len(shape)-1], func(acc, d, _ int) int {
		if !ok || d == 0 {
			return acc * d
		}
		p := acc * d
		// MinInt / -1 wraps back to MinInt, so it needs its own test.
		if p/d != acc || (d == -1 && acc == math.MinInt) {
			ok = false
		}
		return p
	}, 1)
	if !ok {
		return 0, false
	}
	return depth, true
}

func (s *Stream) VarName() string         { return s.Name }
func (s *Stream) Kind() Kind              { return KindStream }
func (s *Stream) DeclaredType() *hls.Type { return s.Type }

// Tensor implements TensorSource. The returned type is the packed wrapper.
func (s *Stream) Tensor() ir.TensorVariable {
	return ir.TensorVariable{
		Shape:    slices.Clone(s.Shape),
		DimNames: slices.Clone(s.DimNames),
		Name:     s.Name,
		Type:     s.Type,
	}
}

// Render returns the reference form "stream<{type}> &{name}{suffix}" or the
// declaration form `stream<{type}> {name}{suffix}("{name}")`.
func (s *Stream) Render(m Mode) string {
	if m.Form == FormReference {
		return fmt.Sprintf("stream<%s> &%s%s", s.Type.Name, s.Name, m.Suffix)
	}
	return fmt.Sprintf("stream<%s> %s%s(\"%s\")", s.Type.Name, s.Name, m.Suffix, s.Name)
}

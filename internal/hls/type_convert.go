package hls

import (
	"fmt"

	"github.com/roach88/hlsdecl/internal/ir"
)

// TypeConverter converts named types to one dialect.
// It holds only its PrecisionConverter and is safe for concurrent use.
type TypeConverter struct {
	precisions PrecisionConverter
}

// NewTypeConverter creates a TypeConverter using pc for every embedded precision.
func NewTypeConverter(pc PrecisionConverter) *TypeConverter {
	return &TypeConverter{precisions: pc}
}

// Dialect returns the target dialect.
func (c *TypeConverter) Dialect() Dialect {
	return c.precisions.Dialect()
}

// Convert returns the dialect wrapper for t.
//
// Dispatch order is significant: composite types embed NamedType and so are
// supersets of the plain shape. Packed is tested first, then Compressed, then
// Exponent, and only then the plain NamedType. An already converted *Type of
// the same dialect is returned unchanged.
func (c *TypeConverter) Convert(t ir.Type) (*Type, error) {
	switch typ := t.(type) {
	case *Type:
		if typ != nil && typ.Precision != nil && typ.Dialect() == c.Dialect() {
			return typ, nil
		}
	case *ir.PackedType:
		if typ != nil {
			return c.packed(*typ)
		}
	case ir.PackedType:
		return c.packed(typ)
	case *ir.CompressedType:
		if typ != nil {
			return c.compressed(*typ)
		}
	case ir.CompressedType:
		return c.compressed(typ)
	case *ir.ExponentType:
		if typ != nil {
			return c.exponent(*typ)
		}
	case ir.ExponentType:
		return c.exponent(typ)
	case *ir.NamedType:
		if typ != nil {
			return c.plain(*typ)
		}
	case ir.NamedType:
		return c.plain(typ)
	}
	return nil, NewUnsupportedNamedTypeKindError(t)
}

func (c *TypeConverter) precision(name string, p ir.Precision) (*Precision, error) {
	out, err := c.precisions.Convert(p)
	if err != nil {
		return nil, fmt.Errorf("type %s: %w", name, err)
	}
	return out, nil
}

func (c *TypeConverter) plain(t ir.NamedType) (*Type, error) {
	p, err := c.precision(t.Name, t.Precision)
	if err != nil {
		return nil, err
	}
	return &Type{Form: FormPlain, Name: t.Name, Precision: p}, nil
}

func (c *TypeConverter) compressed(t ir.CompressedType) (*Type, error) {
	p, err := c.precision(t.Name, t.Precision)
	if err != nil {
		return nil, err
	}
	index, err := c.precision(t.Name, t.IndexPrecision)
	if err != nil {
		return nil, fmt.Errorf("index precision: %w", err)
	}
	return &Type{Form: FormCompressed, Name: t.Name, Precision: p, IndexPrecision: index}, nil
}

func (c *TypeConverter) exponent(t ir.ExponentType) (*Type, error) {
	p, err := c.precision(t.Name, t.Precision)
	if err != nil {
		return nil, err
	}
	return &Type{Form: FormExponent, Name: t.Name, Precision: p, SignPrecision: Xnor(c.precisions)}, nil
}

func (c *TypeConverter) packed(t ir.PackedType) (*Type, error) {
	if t.NPack < 1 {
		return nil, NewDegenerateShapeError(t.Name, fmt.Sprintf("pack factor must be at least 1, got %d", t.NPack))
	}
	if t.NElem < 1 {
		return nil, NewDegenerateShapeError(t.Name, fmt.Sprintf("element count must be at least 1, got %d", t.NElem))
	}
	if t.Unpack && t.NElem%t.NPack != 0 {
		return nil, NewDegenerateShapeError(t.Name,
			fmt.Sprintf("element count %d is not divisible by pack factor %d", t.NElem, t.NPack))
	}
	p, err := c.precision(t.Name, t.Precision)
	if err != nil {
		return nil, err
	}
	return &Type{
		Form:      FormPacked,
		Name:      t.Name,
		Precision: p,
		NElem:     t.NElem,
		NPack:     t.NPack,
		Unpack:    t.Unpack,
	}, nil
}

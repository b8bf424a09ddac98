package hls

import "github.com/roach88/hlsdecl/internal/ir"

// PrecisionConverter maps abstract precisions to one dialect.
type PrecisionConverter interface {
	// Dialect returns the target dialect.
	Dialect() Dialect

	// Convert returns the dialect rendering of p. A value already tagged
	// with the target dialect is returned unchanged.
	Convert(p ir.Precision) (*Precision, error)
}

// dialectConverter is the stateless PrecisionConverter for one dialect.
type dialectConverter struct {
	dialect Dialect
}

// NewPrecisionConverter returns the converter for dialect d.
// Panics if d is not a valid dialect; dialects come from validated config.
func NewPrecisionConverter(d Dialect) PrecisionConverter {
	if !d.Valid() {
		panic("hls: invalid dialect " + string(d))
	}
	return dialectConverter{dialect: d}
}

func (c dialectConverter) Dialect() Dialect {
	return c.dialect
}

// Convert dispatches on the kind of p, copying only the fields that kind
// defines. Tagged values of the other dialect or with an unrecognised Kind,
// nil and unknown kinds fail with ErrCodeUnsupportedPrecisionKind.
func (c dialectConverter) Convert(p ir.Precision) (*Precision, error) {
	switch prec := p.(type) {
	case *Precision:
		if prec != nil && prec.Dialect == c.dialect && ir.ValidPrecisionKinds[prec.Kind] {
			return prec, nil
		}
	case Precision:
		if prec.Dialect == c.dialect && ir.ValidPrecisionKinds[prec.Kind] {
			return &prec, nil
		}
	case ir.IntegerPrecision:
		return c.integer(ir.KindInteger, prec.Width, prec.Signed), nil
	case *ir.IntegerPrecision:
		if prec != nil {
			return c.integer(ir.KindInteger, prec.Width, prec.Signed), nil
		}
	case ir.FixedPrecision:
		return c.fixed(prec), nil
	case *ir.FixedPrecision:
		if prec != nil {
			return c.fixed(*prec), nil
		}
	case ir.XnorPrecision:
		return c.integer(ir.KindXnor, prec.Width(), prec.Signed()), nil
	case *ir.XnorPrecision:
		if prec != nil {
			return c.integer(ir.KindXnor, prec.Width(), prec.Signed()), nil
		}
	case ir.ExponentPrecision:
		return c.integer(ir.KindExponent, prec.Width, prec.Signed), nil
	case *ir.ExponentPrecision:
		if prec != nil {
			return c.integer(ir.KindExponent, prec.Width, prec.Signed), nil
		}
	}
	return nil, NewUnsupportedPrecisionKindError(c.dialect, p)
}

func (c dialectConverter) integer(kind ir.PrecisionKind, width int, signed bool) *Precision {
	return &Precision{
		Dialect: c.dialect,
		Kind:    kind,
		Width:   width,
		Signed:  signed,
	}
}

func (c dialectConverter) fixed(p ir.FixedPrecision) *Precision {
	out := &Precision{
		Dialect:        c.dialect,
		Kind:           ir.KindFixed,
		Width:          p.Width,
		Integer:        p.Integer,
		Signed:         p.Signed,
		RoundingMode:   p.RoundingMode,
		SaturationMode: p.SaturationMode,
	}
	if p.SaturationBits != nil {
		bits := *p.SaturationBits
		out.SaturationBits = &bits
	}
	return out
}

// Xnor returns the single-bit precision of pc's dialect, used for sign fields.
func Xnor(pc PrecisionConverter) *Precision {
	// XnorPrecision always converts.
	p, _ := pc.Convert(ir.XnorPrecision{})
	return p
}

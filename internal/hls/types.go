package hls

import (
	"fmt"

	"github.com/roach88/hlsdecl/internal/ir"
)

// Form identifies the rendering shape of a Type.
type Form int

const (
	// FormPlain renders "typedef <precision> <name>;".
	FormPlain Form = iota
	// FormCompressed renders a (row_index, col_index, weight) struct.
	FormCompressed
	// FormExponent renders a (sign, weight) struct.
	FormExponent
	// FormPacked renders a fixed-width array typedef.
	FormPacked
)

func (f Form) String() string {
	switch f {
	case FormPlain:
		return "plain"
	case FormCompressed:
		return "compressed"
	case FormExponent:
		return "exponent"
	case FormPacked:
		return "packed"
	default:
		return fmt.Sprintf("form(%d)", int(f))
	}
}

// Type is a named type whose precisions have been converted to one dialect.
//
// It is a closed tagged union over Form. Fields not used by Form are zero:
//   - FormCompressed: IndexPrecision
//   - FormExponent:   SignPrecision (always the dialect's xnor bit)
//   - FormPacked:     NElem, NPack, Unpack
//
// All precision fields are converted by construction, so Render never
// converts anything itself.
type Type struct {
	Form      Form
	Name      string
	Precision *Precision

	IndexPrecision *Precision
	SignPrecision  *Precision

	NElem  int
	NPack  int
	Unpack bool
}

// TypeName implements ir.Type.
func (t *Type) TypeName() string { return t.Name }

// TypePrecision implements ir.Type.
func (t *Type) TypePrecision() ir.Precision { return t.Precision }

// Dialect returns the dialect the type was converted to.
func (t *Type) Dialect() Dialect { return t.Precision.Dialect }

// ElementCount returns the rendered array length of a packed type:
// NElem/NPack when unpacking, NElem*NPack otherwise. Zero for other forms.
func (t *Type) ElementCount() int {
	if t.Form != FormPacked || t.NPack == 0 {
		return 0
	}
	if t.Unpack {
		return t.NElem / t.NPack
	}
	return t.NElem * t.NPack
}

// Render returns the full type declaration.
func (t *Type) Render() string {
	switch t.Form {
	case FormCompressed:
		return fmt.Sprintf("typedef struct %s {%s row_index;%s col_index;%s weight; } %s;",
			t.Name, t.IndexPrecision.Render(), t.IndexPrecision.Render(), t.Precision.Render(), t.Name)
	case FormExponent:
		return fmt.Sprintf("typedef struct %s {%s sign;%s weight; } %s;",
			t.Name, t.SignPrecision.Render(), t.Precision.Render(), t.Name)
	case FormPacked:
		return fmt.Sprintf("typedef array<%s, %d> %s;", t.Precision.Render(), t.ElementCount(), t.Name)
	default:
		return fmt.Sprintf("typedef %s %s;", t.Precision.Render(), t.Name)
	}
}

package hls

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/hlsdecl/internal/ir"
)

// Precision is a precision rendered for one dialect.
//
// It is a closed tagged union: Dialect and Kind select one of eight leaf
// renderings, and only the fields defined by Kind are populated
// (Width/Signed for integer, xnor and exponent; all fields for fixed).
// Values are created by a PrecisionConverter and never mutated afterwards.
type Precision struct {
	Dialect Dialect
	Kind    ir.PrecisionKind

	Width          int
	Integer        int
	Signed         bool
	RoundingMode   ir.RoundingMode
	SaturationMode ir.SaturationMode
	SaturationBits *int
}

// PrecisionKind implements ir.Precision.
func (p Precision) PrecisionKind() ir.PrecisionKind { return p.Kind }

// Render returns the dialect declaration fragment, e.g. "ap_fixed<16,6>".
func (p *Precision) Render() string {
	switch p.Kind {
	case ir.KindInteger, ir.KindXnor, ir.KindExponent:
		return p.renderInteger()
	case ir.KindFixed:
		return p.renderFixed()
	default:
		// Unreachable for converter-built values.
		return fmt.Sprintf("/* unsupported precision kind %q */", p.Kind)
	}
}

// String implements fmt.Stringer.
func (p *Precision) String() string {
	return p.Render()
}

// renderInteger renders the integer leaf, shared by xnor and exponent.
func (p *Precision) renderInteger() string {
	switch p.Dialect {
	case DialectAC:
		return fmt.Sprintf("ac_int<%d, %s>", p.Width, strconv.FormatBool(p.Signed))
	default:
		return fmt.Sprintf("ap_%sint<%d>", unsignedPrefix(p.Signed), p.Width)
	}
}

// renderFixed renders the fixed-point leaf. Unset optional arguments are
// dropped, never emitted as empty placeholders.
func (p *Precision) renderFixed() string {
	args := []string{strconv.Itoa(p.Width), strconv.Itoa(p.Integer)}
	if p.Dialect == DialectAC {
		args = append(args, strconv.FormatBool(p.Signed))
	}
	if tok := p.Dialect.modeToken(string(p.RoundingMode)); tok != "" {
		args = append(args, tok)
	}
	if tok := p.Dialect.modeToken(string(p.SaturationMode)); tok != "" {
		args = append(args, tok)
	}
	if p.SaturationBits != nil {
		args = append(args, strconv.Itoa(*p.SaturationBits))
	}

	switch p.Dialect {
	case DialectAC:
		return "ac_fixed<" + strings.Join(args, ",") + ">"
	default:
		return "ap_" + unsignedPrefix(p.Signed) + "fixed<" + strings.Join(args, ",") + ">"
	}
}

func unsignedPrefix(signed bool) string {
	if signed {
		return ""
	}
	return "u"
}

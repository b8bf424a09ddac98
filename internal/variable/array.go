package variable

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
)

// Default pragmas for arrays and struct members.
const (
	DefaultArrayPragma  = "partition"
	DefaultMemberPragma = "hls_register"
)

// Array is a contiguous array declaration.
type Array struct {
	Shape    []int
	DimNames []string
	Name     string
	Type     *hls.Type
	Pragma   string
}

// NewArray builds an Array from src, converting its type with tc. A packed
// source type, such as a Stream's word type, is declared as the plain named
// type over the same precision. An empty pragma selects DefaultArrayPragma. If src already is an *Array it
// is returned unchanged.
func NewArray(src TensorSource, tc *hls.TypeConverter, pragma string) (*Array, error) {
	if a, ok := src.(*Array); ok && a != nil {
		return a, nil
	}
	if pragma == "" {
		pragma = DefaultArrayPragma
	}
	return newArray(src, tc, pragma)
}

func newArray(src TensorSource, tc *hls.TypeConverter, pragma string) (*Array, error) {
	if src == nil {
		return nil, fmt.Errorf("array: nil tensor source")
	}
	v := src.Tensor()
	if err := checkDims(v); err != nil {
		return nil, err
	}
	typ, err := tc.Convert(elementType(v.Type))
	if err != nil {
		return nil, fmt.Errorf("array %s: %w", v.Name, err)
	}
	return &Array{
		Shape:    slices.Clone(v.Shape),
		DimNames: slices.Clone(v.DimNames),
		Name:     v.Name,
		Type:     typ,
		Pragma:   pragma,
	}, nil
}

// elementType strips a packed wrapper, so an array built from a stream
// declares one element per slot rather than one packed word.
func elementType(t ir.Type) ir.Type {
	switch pt := t.(type) {
	case *hls.Type:
		if pt != nil && pt.Form == hls.FormPacked {
			return ir.NewNamedType(pt.Name, pt.TypePrecision())
		}
	case *ir.PackedType:
		if pt != nil {
			return ir.NewNamedType(pt.Name, pt.Precision)
		}
	case ir.PackedType:
		return ir.NewNamedType(pt.Name, pt.Precision)
	}
	return t
}

// checkDims enforces len(DimNames) == len(Shape).
func checkDims(v ir.TensorVariable) error {
	if len(v.DimNames) != len(v.Shape) {
		return hls.NewDegenerateShapeError(v.Name,
			fmt.Sprintf("%d dimension names for %d dimensions", len(v.DimNames), len(v.Shape)))
	}
	return nil
}

func (a *Array) VarName() string         { return a.Name }
func (a *Array) Kind() Kind              { return KindArray }
func (a *Array) DeclaredType() *hls.Type { return a.Type }

// Tensor implements TensorSource.
func (a *Array) Tensor() ir.TensorVariable {
	return ir.TensorVariable{
		Shape:    slices.Clone(a.Shape),
		DimNames: slices.Clone(a.DimNames),
		Name:     a.Name,
		Type:     a.Type,
	}
}

// SizeExpr returns the symbolic element count, e.g. "N_IN*N_OUT".
func (a *Array) SizeExpr() string {
	return strings.Join(a.DimNames, "*")
}

// Render returns "{type} {name}{suffix}[{size}]", followed by " {pragma}"
// when m.Port is PortStruct.
func (a *Array) Render(m Mode) string {
	decl := fmt.Sprintf("%s %s%s[%s]", a.Type.Name, a.Name, m.Suffix, a.SizeExpr())
	if m.Port == PortStruct {
		decl += " " + a.Pragma
	}
	return decl
}

// StructMember is an array that lives inside a named struct, such as the
// inputs/outputs struct of a struct-port top function. Other code refers to
// it as "{struct}.{member}"; inside the struct it is declared by its bare
// member name.
type StructMember struct {
	Array
	StructName string
}

// NewStructMember builds a StructMember of structName from src.
// An empty pragma selects DefaultMemberPragma. Fails with MISSING_CONTEXT
// when structName is empty. If src already is a *StructMember it is returned
// unchanged.
func NewStructMember(src TensorSource, tc *hls.TypeConverter, pragma, structName string) (*StructMember, error) {
	if m, ok := src.(*StructMember); ok && m != nil {
		return m, nil
	}
	if structName == "" {
		name := ""
		if src != nil {
			name = src.Tensor().Name
		}
		return nil, hls.NewMissingContextError(name, "struct name")
	}
	if pragma == "" {
		pragma = DefaultMemberPragma
	}
	arr, err := newArray(src, tc, pragma)
	if err != nil {
		return nil, err
	}
	return &StructMember{Array: *arr, StructName: structName}, nil
}

// MemberName is the bare name inside the struct.
func (m *StructMember) MemberName() string { return m.Name }

// VarName returns "{struct}.{member}".
func (m *StructMember) VarName() string { return m.StructName + "." + m.Name }

func (m *StructMember) Kind() Kind { return KindStructMember }

// Render returns "{type} {member}{suffix}[{size}]". The port never adds a
// pragma: member placement is decided by the enclosing struct.
func (m *StructMember) Render(mode Mode) string {
	return fmt.Sprintf("%s %s%s[%s]", m.Type.Name, m.Name, mode.Suffix, m.SizeExpr())
}

package ir

// Type is a named type as produced by the upstream model compiler.
//
// Implementations: NamedType, CompressedType, ExponentType, PackedType (value
// or pointer). Composite types embed NamedType, so every composite also
// satisfies the plain contract; consumers must test composites first.
type Type interface {
	TypeName() string
	TypePrecision() Precision
}

// NamedType is a plain alias of a precision.
type NamedType struct {
	Name      string    `json:"name"`
	Precision Precision `json:"precision"`
}

func (t NamedType) TypeName() string         { return t.Name }
func (t NamedType) TypePrecision() Precision { return t.Precision }

// CompressedType stores sparse weights as (row, col, weight) triples.
// IndexPrecision types both coordinate fields.
type CompressedType struct {
	NamedType
	IndexPrecision Precision `json:"index_precision"`
}

// ExponentType stores a weight as a sign bit and a magnitude.
type ExponentType struct {
	NamedType
}

// PackedType packs NPack elements per word along a dimension of NElem
// elements. When Unpack is set the rendered length is NElem/NPack,
// otherwise NElem*NPack.
type PackedType struct {
	NamedType
	NElem  int  `json:"n_elem"`
	NPack  int  `json:"n_pack"`
	Unpack bool `json:"unpack,omitempty"`
}

// NewNamedType creates a plain NamedType.
func NewNamedType(name string, p Precision) *NamedType {
	return &NamedType{Name: name, Precision: p}
}

// NewCompressedType creates a CompressedType.
func NewCompressedType(name string, p, index Precision) *CompressedType {
	return &CompressedType{NamedType: NamedType{Name: name, Precision: p}, IndexPrecision: index}
}

// NewExponentType creates an ExponentType.
func NewExponentType(name string, p Precision) *ExponentType {
	return &ExponentType{NamedType: NamedType{Name: name, Precision: p}}
}

// NewPackedType creates a PackedType.
func NewPackedType(name string, p Precision, nElem, nPack int, unpack bool) *PackedType {
	return &PackedType{
		NamedType: NamedType{Name: name, Precision: p},
		NElem:     nElem,
		NPack:     nPack,
		Unpack:    unpack,
	}
}

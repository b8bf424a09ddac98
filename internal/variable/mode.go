package variable

import (
	"fmt"
	"strings"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/ir"
)

// Port selects the platform code-emission style.
type Port int

const (
	// PortDense emits plain dense arrays.
	PortDense Port = iota
	// PortStruct emits arrays annotated with a placement pragma.
	PortStruct
)

func (p Port) String() string {
	switch p {
	case PortDense:
		return "dense"
	case PortStruct:
		return "struct"
	default:
		return fmt.Sprintf("port(%d)", int(p))
	}
}

// ParsePort parses "dense" or "struct".
func ParsePort(s string) (Port, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dense":
		return PortDense, nil
	case "struct":
		return PortStruct, nil
	default:
		return 0, fmt.Errorf("invalid port %q: must be one of [dense struct]", s)
	}
}

// Form selects between a declaration and a reference (function parameter).
type Form int

const (
	FormDeclaration Form = iota
	FormReference
)

func (f Form) String() string {
	if f == FormReference {
		return "reference"
	}
	return "declaration"
}

// Mode is everything Render needs besides the representation itself.
// Representations ignore the parts of Mode that do not apply to them.
type Mode struct {
	Port   Port
	Form   Form
	Suffix string // appended to the variable name
}

// Kind identifies a representation.
type Kind string

const (
	KindArray        Kind = "array"
	KindStructMember Kind = "struct_member"
	KindStream       Kind = "stream"
	KindStaticWeight Kind = "static_weight"
	KindBramWeight   Kind = "bram_weight"
)

// Declarable is implemented by every representation.
type Declarable interface {
	// VarName is the name other code uses to refer to the variable.
	VarName() string

	// Kind identifies the representation.
	Kind() Kind

	// DeclaredType is the converted type of the variable.
	DeclaredType() *hls.Type

	// Render returns the declaration text for m. BramWeight returns "".
	Render(m Mode) string
}

// TensorSource is anything a tensor representation can be built from:
// ir.TensorVariable itself or another tensor representation.
type TensorSource interface {
	Tensor() ir.TensorVariable
}

// WeightSource is anything a weight representation can be built from.
type WeightSource interface {
	Weight() ir.WeightVariable
}

// Package variable turns IR tensors and weights into declaration sites.
//
// Each representation is built once per declaration site by a smart
// constructor that converts the variable's type exactly once and caches the
// result. After construction a representation is read-only: Render is a pure
// function of the stored state plus the requested Mode, so many
// representations (or the same one) can be rendered from several goroutines
// without locking.
//
// Constructors are idempotent: passing a value that already is the target
// representation returns it unchanged.
//
// Representations:
//
//	Array         {type} {name}{suffix}[{dims}]            (+ " {pragma}" on PortStruct)
//	StructMember  {type} {member}{suffix}[{dims}]          referenced as {struct}.{member}
//	Stream        stream<{type}> &{name}{suffix}           (FormReference)
//	              stream<{type}> {name}{suffix}("{name}")  (FormDeclaration)
//	StaticWeight  {type} {name}[{data_length}]
//	BramWeight    no declaration of its own
package variable

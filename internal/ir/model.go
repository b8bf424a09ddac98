package ir

// Model is the part of a compiled network the declaration backend needs:
// its named types and every storage location that must be declared.
type Model struct {
	Name    string           `json:"name"`
	Types   []Type           `json:"types"`   // declaration order
	Inputs  []TensorVariable `json:"inputs"`  // top-level function inputs
	Outputs []TensorVariable `json:"outputs"` // top-level function outputs
	Tensors []TensorVariable `json:"tensors"` // intermediate layer results
	Weights []WeightVariable `json:"weights"`
}

// LookupType returns the type with the given name.
func (m *Model) LookupType(name string) (Type, bool) {
	for _, t := range m.Types {
		if t.TypeName() == name {
			return t, true
		}
	}
	return nil, false
}

package ir

// TensorVariable is an activation tensor: an input, output or intermediate
// result of a layer.
type TensorVariable struct {
	Shape    []int    `json:"shape"`
	DimNames []string `json:"dim_names"` // symbolic size per dimension, same length as Shape
	Name     string   `json:"name"`
	Type     Type     `json:"type"`
}

// Tensor returns the variable itself. It lets plain IR values and backend
// representations be passed interchangeably to representation constructors.
func (v TensorVariable) Tensor() TensorVariable {
	return v
}

// Size returns the product of Shape (1 for a scalar).
func (v TensorVariable) Size() int {
	size := 1
	for _, d := range v.Shape {
		size *= d
	}
	return size
}

// WeightVariable is a constant (weights or biases) of a layer.
// Data is flattened and never interpreted by the backend.
type WeightVariable struct {
	Name      string     `json:"name"`
	Type      Type       `json:"type"`
	Data      []float64  `json:"data"`
	Quantizer *Quantizer `json:"quantizer,omitempty"`
}

// Weight returns the variable itself. See TensorVariable.Tensor.
func (v WeightVariable) Weight() WeightVariable {
	return v
}

// DataLength returns the flattened element count of Data.
func (v WeightVariable) DataLength() int {
	return len(v.Data)
}

// Quantizer is opaque quantizer metadata attached to a weight by the
// upstream training framework.
type Quantizer struct {
	Name string `json:"name"`
	Bits int    `json:"bits,omitempty"`
}

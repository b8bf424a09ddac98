// Package manifest builds the complete declaration set of a model: one
// typedef per named type in first-use order, followed by one declaration per
// variable in model order.
package manifest

import (
	"bufio"
	"fmt"
	"io"

	"github.com/roach88/hlsdecl/internal/hls"
	"github.com/roach88/hlsdecl/internal/variable"
)

// Variable roles, in the order they appear in a manifest.
const (
	RoleInput  = "input"
	RoleOutput = "output"
	RoleTensor = "tensor"
	RoleWeight = "weight"
)

// Typedef is one rendered type declaration.
type Typedef struct {
	Name string `json:"name"`
	Form string `json:"form"`
	Text string `json:"text"`
}

// Declaration is one rendered variable.
type Declaration struct {
	Role        string        `json:"role"`
	Kind        variable.Kind `json:"kind"`
	Name        string        `json:"name"` // name other code refers to
	Type        string        `json:"type"`
	Declaration string        `json:"declaration"` // empty for BRAM weights
	Reference   string        `json:"reference"`
}

// Manifest is the result of a build.
type Manifest struct {
	Model        string        `json:"model"`
	Dialect      hls.Dialect   `json:"dialect"`
	Port         string        `json:"port"`
	IOType       string        `json:"io_type"`
	Typedefs     []Typedef     `json:"typedefs"`
	Declarations []Declaration `json:"declarations"`
	Hash         string        `json:"hash"`
}

// canonicalMap is the hashed view of m. The hash itself is excluded.
func (m *Manifest) canonicalMap() map[string]any {
	typedefs := make([]any, len(m.Typedefs))
	for i, td := range m.Typedefs {
		typedefs[i] = map[string]any{
			"name": td.Name,
			"form": td.Form,
			"text": td.Text,
		}
	}
	decls := make([]any, len(m.Declarations))
	for i, d := range m.Declarations {
		decls[i] = map[string]any{
			"role":        d.Role,
			"kind":        string(d.Kind),
			"name":        d.Name,
			"type":        d.Type,
			"declaration": d.Declaration,
			"reference":   d.Reference,
		}
	}
	return map[string]any{
		"model":        m.Model,
		"dialect":      string(m.Dialect),
		"port":         m.Port,
		"io_type":      m.IOType,
		"typedefs":     typedefs,
		"declarations": decls,
	}
}

// ComputeHash returns the content hash of m. Two manifests with the same
// typedefs and declarations hash identically regardless of how they were
// built.
func (m *Manifest) ComputeHash() (string, error) {
	data, err := marshalCanonical(m.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("manifest hash: %w", err)
	}
	return hashWithDomain(DomainManifest, data), nil
}

// WriteText prints a header comment, the typedefs and the declarations, one
// per line. Declarations with no text (BRAM weights) are listed as comments.
func (m *Manifest) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "// model %s (%s, %s, %s)\n", m.Model, m.Dialect, m.Port, m.IOType)
	if len(m.Typedefs) > 0 {
		bw.WriteString("\n")
	}
	for _, td := range m.Typedefs {
		fmt.Fprintln(bw, td.Text)
	}
	if len(m.Declarations) > 0 {
		bw.WriteString("\n")
	}
	for _, d := range m.Declarations {
		if d.Declaration == "" {
			fmt.Fprintf(bw, "// %s %s: block RAM\n", d.Kind, d.Name)
			continue
		}
		fmt.Fprintf(bw, "%s;\n", d.Declaration)
	}

	return bw.Flush()
}

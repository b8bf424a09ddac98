package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/hlsdecl/internal/manifest"
	"github.com/roach88/hlsdecl/internal/variable"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type         string                 // Assertion type for categorization
	Expected     string                 // Human-readable expected outcome
	Actual       string                 // Human-readable actual outcome
	Declarations []manifest.Declaration // All declarations for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Declarations) > 0 {
		fmt.Fprintf(&buf, "\nDeclarations:\n")
		for i, d := range e.Declarations {
			fmt.Fprintf(&buf, "  [%d] %s %s %q\n", i+1, d.Kind, d.Name, d.Declaration)
		}
	}

	return buf.String()
}

// evaluateAssertion dispatches a to its checker.
func evaluateAssertion(m *manifest.Manifest, a Assertion) error {
	switch a.Type {
	case AssertTypedef:
		return assertTypedef(m, a)
	case AssertDeclaration:
		return assertDeclaration(m, a)
	case AssertKindCount:
		return assertKindCount(m, a)
	case AssertDeclarationOrder:
		return assertDeclarationOrder(m, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertTypedef checks that a typedef named a.Name exists and, when a.Text
// is set, renders as a.Text.
func assertTypedef(m *manifest.Manifest, a Assertion) error {
	i := slices.IndexFunc(m.Typedefs, func(td manifest.Typedef) bool { return td.Name == a.Name })
	if i < 0 {
		return &AssertionError{
			Type:     AssertTypedef,
			Expected: fmt.Sprintf("typedef %s", a.Name),
			Actual:   "not found in manifest",
		}
	}
	if a.Text != "" && m.Typedefs[i].Text != a.Text {
		return &AssertionError{
			Type:     AssertTypedef,
			Expected: a.Text,
			Actual:   m.Typedefs[i].Text,
		}
	}
	return nil
}

// assertDeclaration checks the declaration named a.Name. Only the fields set
// in a are compared.
func assertDeclaration(m *manifest.Manifest, a Assertion) error {
	i := slices.IndexFunc(m.Declarations, func(d manifest.Declaration) bool { return d.Name == a.Name })
	if i < 0 {
		return &AssertionError{
			Type:         AssertDeclaration,
			Expected:     fmt.Sprintf("declaration %s", a.Name),
			Actual:       "not found in manifest",
			Declarations: m.Declarations,
		}
	}
	d := m.Declarations[i]

	var mismatches []string
	if a.Kind != "" && string(d.Kind) != a.Kind {
		mismatches = append(mismatches, fmt.Sprintf("kind %s, want %s", d.Kind, a.Kind))
	}
	if a.TypeName != "" && d.Type != a.TypeName {
		mismatches = append(mismatches, fmt.Sprintf("type %s, want %s", d.Type, a.TypeName))
	}
	if a.Declaration != nil && d.Declaration != *a.Declaration {
		mismatches = append(mismatches, fmt.Sprintf("declaration %q, want %q", d.Declaration, *a.Declaration))
	}
	if a.Reference != nil && d.Reference != *a.Reference {
		mismatches = append(mismatches, fmt.Sprintf("reference %q, want %q", d.Reference, *a.Reference))
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertDeclaration,
			Expected: fmt.Sprintf("declaration %s as specified", a.Name),
			Actual:   strings.Join(mismatches, "; "),
		}
	}
	return nil
}

// assertKindCount checks that exactly a.Count declarations have kind a.Kind.
func assertKindCount(m *manifest.Manifest, a Assertion) error {
	count := 0
	for _, d := range m.Declarations {
		if d.Kind == variable.Kind(a.Kind) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:         AssertKindCount,
			Expected:     fmt.Sprintf("%d %s declaration(s)", a.Count, a.Kind),
			Actual:       fmt.Sprintf("%d", count),
			Declarations: m.Declarations,
		}
	}
	return nil
}

// assertDeclarationOrder checks that the named declarations appear in the
// given order. Other declarations may appear in between.
func assertDeclarationOrder(m *manifest.Manifest, a Assertion) error {
	prev := -1
	for _, name := range a.Names {
		pos := slices.IndexFunc(m.Declarations, func(d manifest.Declaration) bool { return d.Name == name })
		if pos < 0 {
			return &AssertionError{
				Type:         AssertDeclarationOrder,
				Expected:     fmt.Sprintf("all declarations present: %v", a.Names),
				Actual:       fmt.Sprintf("missing declaration: %s", name),
				Declarations: m.Declarations,
			}
		}
		if pos <= prev {
			return &AssertionError{
				Type:         AssertDeclarationOrder,
				Expected:     fmt.Sprintf("declarations in order: %v", a.Names),
				Actual:       fmt.Sprintf("%s (pos %d) is not after %s (pos %d)", name, pos+1, m.Declarations[prev].Name, prev+1),
				Declarations: m.Declarations,
			}
		}
		prev = pos
	}
	return nil
}

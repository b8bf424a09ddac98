package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/hlsdecl/internal/config"
	"github.com/roach88/hlsdecl/internal/variable"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Model is the path to the CUE model. LoadScenario resolves it relative
	// to the scenario file.
	Model string `yaml:"model"`

	// Config holds config file keys. Absent keys keep their defaults.
	Config map[string]any `yaml:"config,omitempty"`

	// Expect, when set, requires the build to fail.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate the manifest of a successful build.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ExpectClause specifies an expected build failure.
type ExpectClause struct {
	// Error is the expected error code, e.g. "DEGENERATE_SHAPE" or
	// "TYPEDEF_CONFLICT".
	Error string `yaml:"error"`
}

// Assertion validates a manifest.
type Assertion struct {
	// Type specifies the assertion type: typedef, declaration, kind_count or
	// declaration_order.
	Type string `yaml:"type"`

	// Name is the typedef or declaration name.
	Name string `yaml:"name,omitempty"`

	// Text is the expected typedef text (typedef).
	Text string `yaml:"text,omitempty"`

	// Kind is the expected representation kind (declaration, kind_count).
	Kind string `yaml:"kind,omitempty"`

	// TypeName is the expected type name of a declaration.
	TypeName string `yaml:"type_name,omitempty"`

	// Declaration and Reference are the expected rendered forms. nil skips
	// the check; an empty string expects no text (BRAM weights).
	Declaration *string `yaml:"declaration,omitempty"`
	Reference   *string `yaml:"reference,omitempty"`

	// Count is the expected number of declarations (kind_count).
	Count int `yaml:"count,omitempty"`

	// Names is the expected declaration order (declaration_order).
	Names []string `yaml:"names,omitempty"`
}

// Assertion type constants.
const (
	AssertTypedef          = "typedef"
	AssertDeclaration      = "declaration"
	AssertKindCount        = "kind_count"
	AssertDeclarationOrder = "declaration_order"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the model path BEFORE validation so existence is checked.
	if scenario.Model != "" && !filepath.IsAbs(scenario.Model) {
		scenario.Model = filepath.Join(filepath.Dir(path), scenario.Model)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// BuildConfig returns the scenario's config applied over the defaults.
func (s *Scenario) BuildConfig() (*config.Config, error) {
	if len(s.Config) == 0 {
		return config.Default(), nil
	}
	data, err := yaml.Marshal(s.Config)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: config: %w", s.Name, err)
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	return cfg, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Model == "" {
		return fmt.Errorf("model is required")
	}
	if _, err := os.Stat(s.Model); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.Model)
	}

	if s.Expect != nil {
		if s.Expect.Error == "" {
			return fmt.Errorf("expect: error is required")
		}
		if len(s.Assertions) > 0 {
			return fmt.Errorf("assertions cannot be combined with an expected error")
		}
		return nil
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTypedef, AssertDeclaration:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for %s", index, a.Type)
		}
	case AssertKindCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for kind_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for kind_count", index)
		}
	case AssertDeclarationOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for declaration_order", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	if a.Kind != "" && !validKinds[variable.Kind(a.Kind)] {
		return fmt.Errorf("assertions[%d]: unknown kind %q", index, a.Kind)
	}
	return nil
}

var validKinds = map[variable.Kind]bool{
	variable.KindArray:        true,
	variable.KindStructMember: true,
	variable.KindStream:       true,
	variable.KindStaticWeight: true,
	variable.KindBramWeight:   true,
}

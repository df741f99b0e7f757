package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Store selects the store variant: ephemeral (default), ontology or
	// persistent.
	Store string `yaml:"store,omitempty"`

	// Setup contains actions run before the flow. They must succeed.
	Setup []ActionStep `yaml:"setup,omitempty"`

	// Flow contains the steps under test with their expected outcomes.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final store.
	Assertions []Assertion `yaml:"assertions"`

	// BaseDir is the directory file arguments resolve against. Set by
	// LoadScenario to the scenario's directory.
	BaseDir string `yaml:"-"`
}

// ActionStep is a setup action.
type ActionStep struct {
	Action string         `yaml:"action"`
	Args   map[string]any `yaml:"args"`
}

// FlowStep is one step of the flow.
type FlowStep struct {
	// Invoke names the action: import, query, size, serialize or results.
	Invoke string `yaml:"invoke"`

	Args map[string]any `yaml:"args"`

	// Expect specifies the expected outcome. If nil the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected step outcomes. Only set fields are checked.
type ExpectClause struct {
	// Error is the expected error code, such as UNSUPPORTED_FORMAT.
	Error string `yaml:"error,omitempty"`

	// Contains lists substrings of the error message or serialized output.
	Contains []string `yaml:"contains,omitempty"`

	Size    *int64     `yaml:"size,omitempty"`
	Rows    *int       `yaml:"rows,omitempty"`
	Columns []string   `yaml:"columns,omitempty"`
	Table   [][]string `yaml:"table,omitempty"`
}

// Assertion validates the final store.
type Assertion struct {
	// Type is size, row_count, table or roundtrip.
	Type string `yaml:"type"`

	// Query is the query text (row_count, table).
	Query string `yaml:"query,omitempty"`

	// Count is the expected size or row count.
	Count int `yaml:"count,omitempty"`

	// Table is the expected result (table).
	Table [][]string `yaml:"table,omitempty"`

	// Format is the serialization format (roundtrip).
	Format string `yaml:"format,omitempty"`
}

// Action names.
const (
	ActionImport    = "import"
	ActionQuery     = "query"
	ActionSize      = "size"
	ActionSerialize = "serialize"
	ActionResults   = "results"
)

// Assertion type constants.
const (
	AssertSize      = "size"
	AssertRowCount  = "row_count"
	AssertTable     = "table"
	AssertRoundTrip = "roundtrip"
)

// Store kinds.
const (
	StoreEphemeral  = "ephemeral"
	StoreOntology   = "ontology"
	StorePersistent = "persistent"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	scenario.BaseDir = filepath.Dir(path)
	return scenario, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Store {
	case "", StoreEphemeral, StoreOntology, StorePersistent:
	default:
		return fmt.Errorf("unknown store %q", s.Store)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateAction(step.Action, step.Args); err != nil {
			return fmt.Errorf("setup[%d]: %w", i, err)
		}
	}
	for i, step := range s.Flow {
		if err := validateAction(step.Invoke, step.Args); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateAction(action string, args map[string]any) error {
	switch action {
	case "":
		return fmt.Errorf("action is required")
	case ActionImport:
		if !hasArg(args, "content") && !hasArg(args, "file") {
			return fmt.Errorf("import needs content or file")
		}
	case ActionQuery:
		if !hasArg(args, "query") {
			return fmt.Errorf("query needs query")
		}
	case ActionSerialize:
		if !hasArg(args, "format") {
			return fmt.Errorf("serialize needs format")
		}
	case ActionResults:
		if !hasArg(args, "document") && !hasArg(args, "file") {
			return fmt.Errorf("results needs document or file")
		}
	case ActionSize:
	default:
		return fmt.Errorf("unknown action %q", action)
	}
	return nil
}

func hasArg(args map[string]any, key string) bool {
	_, ok := args[key]
	return ok
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertSize:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for size", index)
		}
	case AssertRowCount:
		if a.Query == "" {
			return fmt.Errorf("assertions[%d]: query is required for row_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertTable:
		if a.Query == "" {
			return fmt.Errorf("assertions[%d]: query is required for table", index)
		}
	case AssertRoundTrip:
		if a.Format == "" {
			return fmt.Errorf("assertions[%d]: format is required for roundtrip", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

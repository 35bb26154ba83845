package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/rewind/pkg/domain"
	"github.com/aretw0/rewind/pkg/enhancer"
	"gopkg.in/yaml.v3"
)

// ErrExpectation is returned when a replayed scenario does not end in the
// expected state.
var ErrExpectation = errors.New("scenario expectation failed")

// Scenario is a named sequence of actions with an optional expected outcome.
type Scenario struct {
	Name           string         `yaml:"name" json:"name"`
	InitialMessage string         `yaml:"initial_message" json:"initial_message"`
	Options        map[string]any `yaml:"options" json:"options"`
	Steps          []Step         `yaml:"steps" json:"steps"`
	Expect         *Expectation   `yaml:"expect" json:"expect"`
}

// Step is one action of a scenario.
type Step struct {
	Action  string `yaml:"action" json:"action"`
	Payload any    `yaml:"payload" json:"payload"`
	// ExpectError names the rejection reason the step must fail with
	// ("out_of_range", "invalid_payload"). Empty means the step must succeed.
	ExpectError string `yaml:"expect_error" json:"expect_error"`
}

// Expectation describes the state a scenario must end in.
// Nil fields are not checked.
type Expectation struct {
	Head  *int `yaml:"head" json:"head"`
	Len   *int `yaml:"len" json:"len"`
	State any  `yaml:"state" json:"state"`
}

// ToAction converts the step into a domain action.
func (s Step) ToAction() domain.Action {
	return domain.Action{Type: domain.ParseKind(s.Action), Payload: s.Payload}
}

// EnhancerOptions returns the enhancer options the scenario asks for.
// Explicit InitialMessage wins over the loose Options map.
func (sc Scenario) EnhancerOptions() []enhancer.Option {
	var opts []enhancer.Option
	if len(sc.Options) > 0 {
		opts = append(opts, enhancer.WithOptions(sc.Options))
	}
	if sc.InitialMessage != "" {
		opts = append(opts, enhancer.WithInitialMessage(sc.InitialMessage))
	}
	return opts
}

// Load reads a scenario file. Files ending in .json are decoded as JSON,
// everything else as YAML.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	sc, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// Parse decodes a scenario. ext selects the format (".json" or YAML otherwise).
func Parse(data []byte, ext string) (*Scenario, error) {
	var sc Scenario
	if strings.EqualFold(ext, ".json") {
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.UseNumber()
		if err := dec.Decode(&sc); err != nil {
			return nil, fmt.Errorf("failed to parse scenario json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &sc); err != nil {
			return nil, fmt.Errorf("failed to parse scenario yaml: %w", err)
		}
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks that every step names an action.
func (sc Scenario) Validate() error {
	for i, step := range sc.Steps {
		if strings.TrimSpace(step.Action) == "" {
			return fmt.Errorf("step %d: missing action", i+1)
		}
		switch step.ExpectError {
		case "", "out_of_range", "invalid_payload":
		default:
			return fmt.Errorf("step %d: unknown expect_error %q", i+1, step.ExpectError)
		}
	}
	return nil
}

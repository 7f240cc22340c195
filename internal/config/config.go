// Package config loads scenario definitions from YAML files. The schema
// mirrors the scenario types one-to-one; business meaning is not checked
// here, only the structural validation the engine requires.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/scenariorun/internal/scenario"
)

// Load reads and validates a scenario file.
func Load(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML scenario bytes and validates them.
func Parse(data []byte) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

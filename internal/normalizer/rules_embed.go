package normalizer

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed data/street_rules.yaml
var streetRulesYAML []byte

// StreetType is one street-type bucket ("Aleja", "Osiedle", ...)
type StreetType struct {
	Name          string   `yaml:"name"`
	LongForm      string   `yaml:"long_form"`
	Abbreviations []string `yaml:"abbreviations"`
	Words         []string `yaml:"words"`
}

// StreetRules holds the canonicalization data for street names
type StreetRules struct {
	Types    []StreetType `yaml:"types"`
	Acronyms []string     `yaml:"acronyms"`
}

// DefaultStreetRules loads the rules embedded in the binary.
func DefaultStreetRules() (*StreetRules, error) {
	return parseStreetRules(streetRulesYAML)
}

// LoadStreetRules loads rules from a YAML file, falling back to the embedded ones when path is empty.
func LoadStreetRules(path string) (*StreetRules, error) {
	if path == "" {
		return DefaultStreetRules()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read street rules: %w", err)
	}
	return parseStreetRules(b)
}

func parseStreetRules(b []byte) (*StreetRules, error) {
	rules := &StreetRules{}
	if err := yaml.Unmarshal(b, rules); err != nil {
		return nil, fmt.Errorf("parse street rules: %w", err)
	}
	for _, t := range rules.Types {
		if t.LongForm == "" {
			return nil, errors.New("street rules: type " + t.Name + " has no long_form")
		}
	}
	return rules, nil
}

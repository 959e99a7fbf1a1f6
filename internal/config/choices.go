package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadChoices reads optional enum choice overrides, a YAML map of rule name
// to option list:
//
//	hajj done before:
//	  - "no"
//	  - "1"
//	  - "2"
//	  - "3"
//	  - more
func LoadChoices(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read choices file: %w", err)
	}
	var overrides map[string][]string
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return nil, fmt.Errorf("parse choices file: %w", err)
	}
	return overrides, nil
}

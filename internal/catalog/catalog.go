// Package catalog holds the built-in example analyses.
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	goresidue "github.com/njchilds90/goresidue"
)

//go:embed examples.yaml
var examplesYAML []byte

type Example struct {
	Name              string `yaml:"name"`
	Note              string `yaml:"note"`
	goresidue.Request `yaml:",inline"`
}

type file struct {
	Examples []Example `yaml:"examples"`
}

// Parse decodes a catalog document.
func Parse(b []byte) ([]Example, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	for i, ex := range f.Examples {
		if ex.Function == "" {
			return nil, fmt.Errorf("catalog: examples[%d].function is required", i)
		}
	}
	return f.Examples, nil
}

// All returns the built-in examples in display order.
func All() []Example {
	out, err := Parse(examplesYAML)
	if err != nil {
		panic(err)
	}
	return out
}

// Get returns the n-th example, counting from 1.
func Get(n int) (Example, error) {
	all := All()
	if n < 1 || n > len(all) {
		return Example{}, fmt.Errorf("catalog: example %d out of range 1..%d", n, len(all))
	}
	return all[n-1], nil
}

// Package catalog holds the built-in action catalog seeded into an empty database.
package catalog

import (
	_ "embed"
	"fmt"

	"mizan/internal/domain"
	"mizan/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed actions.yaml
var defaultCatalog []byte

type entry struct {
	Type     string `yaml:"type"`
	Category string `yaml:"category"`
	Icon     string `yaml:"icon"`
	Weight   *int   `yaml:"weight"`
	Ar       string `yaml:"ar"`
	Fr       string `yaml:"fr"`
	En       string `yaml:"en"`
}

type file struct {
	Actions []entry `yaml:"actions"`
}

// Default returns the embedded catalog.
func Default() ([]models.Action, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a YAML catalog. Every entry must carry a GOOD/BAD type, a
// non-negative weight (omitted means 1) and a name in each language.
func Parse(data []byte) ([]models.Action, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	out := make([]models.Action, 0, len(f.Actions))
	for i, e := range f.Actions {
		if !domain.IsActionType(e.Type) {
			return nil, fmt.Errorf("catalog: entry %d: invalid type %q", i, e.Type)
		}
		if e.Ar == "" || e.Fr == "" || e.En == "" {
			return nil, fmt.Errorf("catalog: entry %d: missing name", i)
		}
		weight := domain.DefaultActionWeight
		if e.Weight != nil {
			weight = *e.Weight
		}
		if weight < 0 {
			return nil, fmt.Errorf("catalog: entry %d: negative weight %d", i, weight)
		}
		out = append(out, models.Action{
			NameAr:   e.Ar,
			NameFr:   e.Fr,
			NameEn:   e.En,
			Type:     e.Type,
			Weight:   weight,
			Category: e.Category,
			Icon:     e.Icon,
			Active:   true,
		})
	}
	return out, nil
}

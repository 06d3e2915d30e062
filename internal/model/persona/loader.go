package persona

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the on-disk persona file shape.
type Catalog struct {
	Personas []Persona `yaml:"personas"`
}

// LoadFile reads a YAML persona catalog. Interests are lowercased on load
// and engagement is clamped into [0, 1]; entries without an id or name are
// rejected.
func LoadFile(path string) ([]Persona, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("persona catalog %s: %w", path, err)
	}
	if len(c.Personas) == 0 {
		return nil, fmt.Errorf("persona catalog %s: no personas defined", path)
	}
	for i := range c.Personas {
		p := &c.Personas[i]
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("persona catalog %s: entry %d is missing id or name", path, i)
		}
		for j, interest := range p.Interests {
			p.Interests[j] = strings.ToLower(strings.TrimSpace(interest))
		}
		if p.Engagement < 0 {
			p.Engagement = 0
		}
		if p.Engagement > 1 {
			p.Engagement = 1
		}
	}
	return c.Personas, nil
}

// Package catalog ships the reference data every deployment starts with.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/idea-observation-api/internal/models"
)

//go:embed catalog.yaml
var rawCatalog []byte

// Catalog holds the IDEA disability categories and default behavior categories.
type Catalog struct {
	IdeaCategories     []models.IdeaCategory     `yaml:"idea_categories"`
	BehaviorCategories []models.BehaviorCategory `yaml:"behavior_categories"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(rawCatalog)
}

// Parse decodes a catalog document and rejects duplicate keys.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	codes := make(map[string]struct{}, len(c.IdeaCategories))
	for i, cat := range c.IdeaCategories {
		code := strings.TrimSpace(cat.Code)
		if code == "" || strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("idea category %d: code and name are required", i)
		}
		if _, dup := codes[code]; dup {
			return fmt.Errorf("idea category %q listed twice", code)
		}
		codes[code] = struct{}{}
	}
	names := make(map[string]struct{}, len(c.BehaviorCategories))
	for i, cat := range c.BehaviorCategories {
		key := strings.ToLower(strings.TrimSpace(cat.Name))
		if key == "" || strings.TrimSpace(cat.Domain) == "" {
			return fmt.Errorf("behavior category %d: name and domain are required", i)
		}
		if _, dup := names[key]; dup {
			return fmt.Errorf("behavior category %q listed twice", cat.Name)
		}
		names[key] = struct{}{}
	}
	return nil
}

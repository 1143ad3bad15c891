package config

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Category is a post category option offered by the board.
type Category struct {
	Value string `yaml:"value" json:"value"`
	Name  string `yaml:"name" json:"name"`
}

// ReactionKind is a reaction option offered on posts. The server-held list
// is the sole authority: any kind outside it is rejected before mutation.
type ReactionKind struct {
	Value string `yaml:"value" json:"value"`
	Name  string `yaml:"name" json:"name"`
	Emoji string `yaml:"emoji" json:"emoji"`
}

// Catalog bundles the static category and reaction enumerations.
type Catalog struct {
	Categories []Category     `yaml:"categories"`
	Reactions  []ReactionKind `yaml:"reactions"`
}

//go:embed catalog.yml
var catalogYAML []byte

// LoadCatalog parses the embedded catalog document.
func LoadCatalog() (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(catalogYAML, &cat); err != nil {
		return nil, fmt.Errorf("failed to parse embedded catalog: %w", err)
	}
	if len(cat.Categories) == 0 || len(cat.Reactions) == 0 {
		return nil, fmt.Errorf("embedded catalog is incomplete")
	}
	return &cat, nil
}

// ValidCategory reports whether value is a configured category.
func (c *Catalog) ValidCategory(value string) bool {
	for _, cat := range c.Categories {
		if cat.Value == value {
			return true
		}
	}
	return false
}

// ValidReaction reports whether value is a configured reaction kind.
func (c *Catalog) ValidReaction(value string) bool {
	for _, r := range c.Reactions {
		if r.Value == value {
			return true
		}
	}
	return false
}

// CategoryValues returns the configured categories in catalog order.
func (c *Catalog) CategoryValues() []string {
	values := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		values = append(values, cat.Value)
	}
	return values
}

// ReactionValues returns the configured reaction kinds in catalog order.
func (c *Catalog) ReactionValues() []string {
	values := make([]string, 0, len(c.Reactions))
	for _, r := range c.Reactions {
		values = append(values, r.Value)
	}
	return values
}

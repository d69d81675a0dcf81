// Package catalog holds the seed data handed to new users: the default task
// templates and the suggested spending categories.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/config"
)

//go:embed default.yaml
var defaultYAML []byte

type TemplateSeed struct {
	Name      string `yaml:"name"`
	Icon      string `yaml:"icon"`
	SortOrder int    `yaml:"sort_order"`
}

type file struct {
	DefaultTemplates   []TemplateSeed `yaml:"default_templates"`
	SpendingCategories []string       `yaml:"spending_categories"`
}

type Catalog struct {
	templates  []TemplateSeed
	categories []string
}

// Default returns the embedded catalog.
func Default() *Catalog {
	c, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads the embedded catalog and, when path is set, overlays the YAML
// file at path on top of it. Lists in the file replace the defaults.
func Load(path string) (*Catalog, error) {
	opts := []config.YAMLOption{
		config.Source(bytes.NewReader(defaultYAML)),
		config.Expand(os.LookupEnv),
	}
	if path != "" {
		opts = append(opts, config.File(path))
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var f file
	if err := provider.Get(config.Root).Populate(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := validate(&f); err != nil {
		return nil, err
	}

	return &Catalog{
		templates:  f.DefaultTemplates,
		categories: f.SpendingCategories,
	}, nil
}

func validate(f *file) error {
	if len(f.DefaultTemplates) == 0 {
		return errors.New("catalog: at least one default template is required")
	}
	seen := make(map[string]bool, len(f.DefaultTemplates))
	for i, t := range f.DefaultTemplates {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return fmt.Errorf("catalog: default template %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("catalog: duplicate default template %q", name)
		}
		seen[name] = true
		f.DefaultTemplates[i].Name = name
	}
	return nil
}

func (c *Catalog) DefaultTemplates() []TemplateSeed {
	out := make([]TemplateSeed, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) SpendingCategories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

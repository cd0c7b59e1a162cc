package core

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Catalog is the static content rendered around the sign-in flow.
type Catalog struct {
	Brand     string        `yaml:"brand"`
	Menus     []MegaMenu    `yaml:"menus"`
	Carousels []Carousel    `yaml:"carousels"`
	Footer    []LinkSection `yaml:"footer"`
}

// MegaMenu is one top-level navigation entry and its dropdown columns.
type MegaMenu struct {
	ID      string        `yaml:"id"`
	Label   string        `yaml:"label"`
	Columns []LinkSection `yaml:"columns"`
}

type LinkSection struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type Carousel struct {
	Title    string    `yaml:"title"`
	Products []Product `yaml:"products"`
}

type Product struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Price    string `yaml:"price"`
	Image    string `yaml:"image"`
}

// LoadCatalog reads the YAML catalog at path, or the embedded default when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := defaultCatalogYAML
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		data = b
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if strings.TrimSpace(cat.Brand) == "" {
		return nil, errors.New("catalog: brand is required")
	}
	seen := map[string]struct{}{}
	for _, m := range cat.Menus {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog: menu %q has no id", m.Label)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("catalog: duplicate menu id %q", id)
		}
		seen[id] = struct{}{}
	}
	return &cat, nil
}

// Menu returns the mega-menu with the given id, or nil.
func (c *Catalog) Menu(id string) *MegaMenu {
	for i := range c.Menus {
		if c.Menus[i].ID == id {
			return &c.Menus[i]
		}
	}
	return nil
}

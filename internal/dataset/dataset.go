// Package dataset holds the static menu data the seeder pushes to the remote
// project, plus its load-time validation.
package dataset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

//go:embed data/menu.json
var builtin []byte

// Category groups menu items on the storefront.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Customization is an add-on a customer can attach to a menu item.
type Customization struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

// MenuItem is one orderable dish. CategoryName and Customizations reference
// categories and customizations by their dataset names; they are resolved to
// remote IDs during seeding.
type MenuItem struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	ImageURL       string   `json:"image_url"`
	Price          float64  `json:"price"`
	Rating         float64  `json:"rating"`
	Calories       int      `json:"calories"`
	Protein        int      `json:"protein"`
	CategoryName   string   `json:"category_name"`
	Customizations []string `json:"customizations"`
}

// Dataset is the full static table the seeder replays into the remote project.
type Dataset struct {
	Categories     []Category      `json:"categories"`
	Customizations []Customization `json:"customizations"`
	MenuItems      []MenuItem      `json:"menu_items"`
}

// Load returns the built-in dataset.
func Load() (*Dataset, error) {
	return Parse(bytes.NewReader(builtin))
}

// LoadFile reads and validates a dataset from an alternate JSON file.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a dataset and validates it.
func Parse(r io.Reader) (*Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Validate rejects datasets the seeder cannot replay deterministically:
// duplicate category or customization names would make the name→ID lookups
// ambiguous, so they fail here instead of silently overwriting each other.
// References to unknown names are allowed; they surface as missing references
// at seed time.
func (d *Dataset) Validate() error {
	categories := make(map[string]struct{}, len(d.Categories))
	for _, c := range d.Categories {
		if c.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if _, ok := categories[c.Name]; ok {
			return fmt.Errorf("duplicate category name %q", c.Name)
		}
		categories[c.Name] = struct{}{}
	}

	customizations := make(map[string]struct{}, len(d.Customizations))
	for _, c := range d.Customizations {
		if c.Name == "" {
			return fmt.Errorf("customization with empty name")
		}
		if _, ok := customizations[c.Name]; ok {
			return fmt.Errorf("duplicate customization name %q", c.Name)
		}
		if c.Price < 0 {
			return fmt.Errorf("customization %q has negative price", c.Name)
		}
		customizations[c.Name] = struct{}{}
	}

	for i, item := range d.MenuItems {
		if item.Name == "" {
			return fmt.Errorf("menu item at index %d has empty name", i)
		}
		if item.ImageURL == "" {
			return fmt.Errorf("menu item %q has no image URL", item.Name)
		}
	}
	return nil
}

// Package config handles configuration loading for the map viewer.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"statemap/internal/selection"
)

// DefaultURL is the public US states dataset.
const DefaultURL = "https://raw.githubusercontent.com/PublicaMundi/MappingAPI/master/data/geojson/us-states.json"

// Config represents the root configuration file structure.
type Config struct {
	Dataset Dataset          `yaml:"dataset"`
	View    View             `yaml:"view"`
	Styles  selection.Styles `yaml:"styles"`
	Label   Label            `yaml:"label"`
}

// Dataset describes where state boundaries come from.
type Dataset struct {
	URL     string        `yaml:"url"`
	Cache   string        `yaml:"cache,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// View is the initial map extent in degrees. A zero view fits the dataset;
// in the file that is a bare or null "view:" key.
type View struct {
	MinLon float64 `yaml:"min_lon"`
	MinLat float64 `yaml:"min_lat"`
	MaxLon float64 `yaml:"max_lon"`
	MaxLat float64 `yaml:"max_lat"`
}

// Label is the look of the state name label.
type Label struct {
	Foreground string `yaml:"foreground"`
	Background string `yaml:"background"`
}

// IsZero reports whether no view was configured.
func (v View) IsZero() bool { return v == View{} }

// Default returns the built-in configuration: contiguous US in view.
func Default() *Config {
	return &Config{
		Dataset: Dataset{
			URL:     DefaultURL,
			Cache:   "us-states.json",
			Timeout: 15 * time.Second,
		},
		View:   View{MinLon: -125, MinLat: 24, MaxLon: -66, MaxLat: 50},
		Styles: selection.DefaultStyles(),
		Label:  Label{Foreground: "#FFFFFF", Background: "#2A2A2A"},
	}
}

// Load reads the YAML file at path over the defaults. A missing file yields
// the defaults. Without a view key the default extent stays; an empty one
// clears it.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	// yaml leaves a struct untouched on null, a pointer is reset to nil
	raw := struct {
		View *View `yaml:"view"`
	}{View: &View{}}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if raw.View == nil {
		cfg.View = View{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks colours, opacities and extents.
func (c *Config) Validate() error {
	if c.Dataset.URL == "" {
		return errors.New("dataset.url is empty")
	}
	if c.Dataset.Timeout <= 0 {
		return errors.New("dataset.timeout must be positive")
	}
	if !c.View.IsZero() && (c.View.MaxLon <= c.View.MinLon || c.View.MaxLat <= c.View.MinLat) {
		return errors.New("view: max must be greater than min")
	}
	styles := map[string]selection.StyleSpec{
		"default":   c.Styles.Default,
		"hover":     c.Styles.Hover,
		"highlight": c.Styles.Highlight,
	}
	for name, s := range styles {
		if err := validateStyle(s); err != nil {
			return fmt.Errorf("styles.%s: %w", name, err)
		}
	}
	for name, col := range map[string]string{"foreground": c.Label.Foreground, "background": c.Label.Background} {
		if _, err := colorful.Hex(col); err != nil {
			return fmt.Errorf("label.%s: invalid colour %q", name, col)
		}
	}
	return nil
}

func validateStyle(s selection.StyleSpec) error {
	if _, err := colorful.Hex(s.FillColor); err != nil {
		return fmt.Errorf("invalid fill colour %q", s.FillColor)
	}
	if _, err := colorful.Hex(s.StrokeColor); err != nil {
		return fmt.Errorf("invalid stroke colour %q", s.StrokeColor)
	}
	if s.FillOpacity < 0 || s.FillOpacity > 1 {
		return fmt.Errorf("opacity %.2f out of [0,1]", s.FillOpacity)
	}
	if s.StrokeWidth < 0 {
		return fmt.Errorf("negative width %.2f", s.StrokeWidth)
	}
	return nil
}

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed presets.yaml
var defaultPresets []byte

// Preset is a titled track with its bar color.
type Preset struct {
	Title string `yaml:"title"`
	File  string `yaml:"file"`
	Color string `yaml:"color"`
}

type catalog struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresets returns the built-in soundtrack menu.
func DefaultPresets() []Preset {
	presets, err := decodePresets(bytes.NewReader(defaultPresets))
	if err != nil {
		panic(fmt.Sprintf("config: embedded presets: %v", err))
	}
	return presets
}

// LoadPresets reads a preset catalog from path. An empty path yields the
// built-in catalog. Relative track paths resolve against the catalog's
// directory.
func LoadPresets(path string) ([]Preset, error) {
	if path == "" {
		return DefaultPresets(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening presets: %w", err)
	}
	defer f.Close()

	presets, err := decodePresets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range presets {
		if !filepath.IsAbs(presets[i].File) {
			presets[i].File = filepath.Join(dir, presets[i].File)
		}
	}
	return presets, nil
}

func decodePresets(r io.Reader) ([]Preset, error) {
	var c catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty preset catalog")
		}
		return nil, fmt.Errorf("decoding presets: %w", err)
	}
	if len(c.Presets) == 0 {
		return nil, errors.New("empty preset catalog")
	}
	for i, p := range c.Presets {
		if p.Title == "" || p.File == "" {
			return nil, fmt.Errorf("preset %d: title and file are required", i+1)
		}
		if _, err := ParseColor(p.Color); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Title, err)
		}
	}
	return c.Presets, nil
}

// Package catalog reads and writes recipe catalog files. A catalog is a
// JSON or YAML document with a top-level "recipes" list, used to seed the
// database and to run discovery offline from the command line.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pageza/recipeverse/backend/internal/discovery"
)

// Format is a catalog serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for output formats other than json and yaml.
var ErrUnknownFormat = errors.New("unknown format")

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath picks the format from the file extension, case-insensitive.
// Anything that is not .yaml or .yml is read as JSON.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// Catalog is the on-disk document.
type Catalog struct {
	Recipes []discovery.Recipe `json:"recipes" yaml:"recipes"`
}

// Load reads the catalog at path.
func Load(path string) ([]discovery.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	recipes, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return recipes, nil
}

// Read decodes a catalog document from r. Recipes without an ID get their
// position in the list, starting at 1.
func Read(r io.Reader, format Format) ([]discovery.Recipe, error) {
	var c Catalog
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&c); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	for i := range c.Recipes {
		if c.Recipes[i].ID == "" {
			c.Recipes[i].ID = fmt.Sprintf("%d", i+1)
		}
	}
	return c.Recipes, nil
}

// Write encodes v to w. JSON output is indented.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// internal/catalog/loader.go
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

var hundred = decimal.NewFromInt(100)

// Parse decodes and validates a YAML catalog document.
func Parse(raw []byte) (*Catalog, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(data)
}

// LoadDefault returns the catalog compiled into the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog from path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		c, err := LoadDefault()
		if err != nil {
			return nil, err
		}
		logrus.WithField("products", len(c.data.Products)).Info("Loaded built-in catalog")
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog file %s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":        path,
		"products":    len(c.data.Products),
		"accessories": len(c.data.Accessories),
		"bundles":     len(c.data.Bundles),
	}).Info("Loaded catalog")
	return c, nil
}

package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

//go:embed data/cities.json
var embeddedCities []byte

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Load(bytes.NewReader(embeddedCities))
})

// Default returns the process-wide catalog built from the embedded dataset.
// It is loaded on first use and shared afterwards.
func Default() (*Catalog, error) {
	return defaultCatalog()
}

// Load decodes a JSON array of city records and builds a Catalog from it.
func Load(r io.Reader) (*Catalog, error) {
	var records []CityRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode city records: %w", err)
	}
	return New(records)
}

// LoadFile reads a dataset from disk.
func LoadFile(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open city dataset: %w", err)
	}
	defer file.Close()

	c, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	log.Debugf("Loaded %d cities from %s", c.Len(), path)
	return c, nil
}

// Open returns the dataset at path, or the embedded one when path is empty.
func Open(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

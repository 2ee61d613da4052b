package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	ErrMissingID         = errors.New("product without id")
	ErrDuplicateID       = errors.New("duplicate product id")
)

// Load reads a catalog snapshot, picking the decoder from the file extension.
func Load(path string) (*Catalog, error) {
	start := time.Now()

	format, err := DetectFileFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	c, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", path, err)
	}
	c.Path = path

	log.Debugf("Loaded %d products from %s in %v", c.Len(), path, time.Since(start))
	return c, nil
}

// Decode parses raw catalog bytes in the given format and validates product ids.
func Decode(data []byte, format FileFormat) (*Catalog, error) {
	c := &Catalog{}

	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, c)
	case FormatTOML:
		_, err = toml.Decode(string(data), c)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, c)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Format = format
	return c, nil
}

// Encode serializes the catalog in the given format.
func Encode(c *Catalog, format FileFormat) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(c, "", "  ")
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatMsgpack:
		return msgpack.Marshal(c)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
}

// Save writes the catalog to path in the format implied by its extension.
func Save(c *Catalog, path string) error {
	format := FormatForPath(path)
	data, err := Encode(c, format)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that every product has a unique, non-empty id.
func (c *Catalog) Validate() error {
	seen := make(map[string]int, len(c.Products))
	for i, p := range c.Products {
		if p.ID == "" {
			return fmt.Errorf("%w at index %d (%q)", ErrMissingID, i, p.Name)
		}
		if prev, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w %q at index %d and %d", ErrDuplicateID, p.ID, prev, i)
		}
		seen[p.ID] = i
	}
	return nil
}

// Package catalog loads product snapshots that the search engine indexes.
package catalog

import "strings"

// Product is one catalog entry. It satisfies search.Record.
type Product struct {
	ID          string            `json:"id" toml:"id" msgpack:"id"`
	SKU         string            `json:"sku,omitempty" toml:"sku,omitempty" msgpack:"sku,omitempty"`
	Name        string            `json:"name" toml:"name" msgpack:"name"`
	Description string            `json:"description,omitempty" toml:"description,omitempty" msgpack:"description,omitempty"`
	Category    string            `json:"category,omitempty" toml:"category,omitempty" msgpack:"category,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty" toml:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

// Field resolves a search field by name. Unknown names fall through to Attributes.
// Empty built-in fields count as absent.
func (p Product) Field(name string) (string, bool) {
	var v string
	switch strings.ToLower(name) {
	case "id":
		v = p.ID
	case "sku":
		v = p.SKU
	case "name":
		v = p.Name
	case "description":
		v = p.Description
	case "category":
		v = p.Category
	default:
		attr, ok := p.Attributes[name]
		return attr, ok
	}
	return v, v != ""
}

// Catalog is a loaded product snapshot.
type Catalog struct {
	Products []Product `json:"products" toml:"products" msgpack:"products"`

	// Path and Format describe where the snapshot came from. Not serialized.
	Path   string     `json:"-" toml:"-" msgpack:"-"`
	Format FileFormat `json:"-" toml:"-" msgpack:"-"`
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Products)
}

// ByID returns the product with the given id.
func (c *Catalog) ByID(id string) (Product, bool) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

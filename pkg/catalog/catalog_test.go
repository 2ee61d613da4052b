package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleCatalog() *Catalog {
	return &Catalog{Products: []Product{
		{
			ID:          "bpc-157-5",
			SKU:         "PEP-001",
			Name:        "BPC-157 5 мг",
			Description: "Лиофилизированный пептид",
			Category:    "Пептиды",
		},
		{
			ID:       "semax-01",
			Name:     "Семакс 0.1% 3 мл",
			Category: "Пептиды",
			Attributes: map[string]string{
				"form": "спрей назальный",
			},
		},
		{ID: "water-10", Name: "Бактериостатическая вода 10 мл"},
	}}
}

func TestRoundTrip(t *testing.T) {
	for _, ext := range []string{".json", ".toml", ".msgpack", ".mpk"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalog"+ext)
			want := sampleCatalog()

			if err := Save(want, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}

			if !reflect.DeepEqual(got.Products, want.Products) {
				t.Errorf("products differ:\n got  %+v\n want %+v", got.Products, want.Products)
			}
			if got.Path != path {
				t.Errorf("Path = %q, want %q", got.Path, path)
			}
			if got.Format != FormatForPath(path) {
				t.Errorf("Format = %v, want %v", got.Format, FormatForPath(path))
			}
		})
	}
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"Missing id", `{"products":[{"name":"x"}]}`, ErrMissingID},
		{"Duplicate id", `{"products":[{"id":"a","name":"x"},{"id":"a","name":"y"}]}`, ErrDuplicateID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), FormatJSON)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Decode([]byte(`{"products":[]}`), FormatJSON); err != nil {
		t.Errorf("empty catalog should decode, got %v", err)
	}
	if _, err := Decode([]byte(`{`), FormatJSON); err == nil {
		t.Error("malformed JSON decoded without error")
	}
}

func TestDecodeTOMLTables(t *testing.T) {
	data := `
[[products]]
id = "tb-500"
name = "TB-500 2 мг"

[products.attributes]
purity = "99%"
`
	c, err := Decode([]byte(data), FormatTOML)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	p, ok := c.ByID("tb-500")
	if !ok {
		t.Fatal("product tb-500 not found")
	}
	if v, ok := p.Field("purity"); !ok || v != "99%" {
		t.Errorf("attribute purity = %q, %v", v, ok)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	unsupported := filepath.Join(dir, "catalog.csv")
	if err := os.WriteFile(unsupported, []byte("id,name"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(unsupported); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(csv) error = %v, want ErrUnsupportedFormat", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want not-exist", err)
	}

	tiny := filepath.Join(dir, "tiny.json")
	if err := os.WriteFile(tiny, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tiny); err == nil {
		t.Error("Load(tiny) succeeded")
	}

	dup := filepath.Join(dir, "dup.json")
	if err := os.WriteFile(dup, []byte(`{"products":[{"id":"a"},{"id":"a"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dup); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Load(dup) error = %v, want ErrDuplicateID", err)
	}
}

func TestEncodeUnsupported(t *testing.T) {
	if _, err := Encode(sampleCatalog(), FormatUnknown); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Encode(unknown) error = %v", err)
	}
	if err := Save(sampleCatalog(), filepath.Join(t.TempDir(), "catalog.xml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(xml) error = %v", err)
	}
}

func TestProductField(t *testing.T) {
	p := sampleCatalog().Products[1]

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"name", "Семакс 0.1% 3 мл", true},
		{"Name", "Семакс 0.1% 3 мл", true},
		{"category", "Пептиды", true},
		{"description", "", false},
		{"sku", "", false},
		{"form", "спрей назальный", true},
		{"color", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := p.Field(tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Field(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatForPath(t *testing.T) {
	tests := map[string]FileFormat{
		"a/catalog.json":  FormatJSON,
		"CATALOG.JSON":    FormatJSON,
		"catalog.toml":    FormatTOML,
		"catalog.msgpack": FormatMsgpack,
		"catalog.mpk":     FormatMsgpack,
		"catalog.yaml":    FormatUnknown,
		"catalog":         FormatUnknown,
	}
	for path, want := range tests {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %v, want %v", path, got, want)
		}
	}
}

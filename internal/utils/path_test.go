package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestGetCatalogPath(t *testing.T) {
	root := t.TempDir()
	execDir := filepath.Join(root, "bin")
	configDir := filepath.Join(root, "config")
	pr := newPathResolverAt(filepath.Join(execDir, "catserve"), root, configDir)

	if _, err := pr.GetCatalogPath(""); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error with no catalogs, got %v", err)
	}

	configCatalog := filepath.Join(configDir, "catalog.toml")
	writeFile(t, configCatalog, "[[products]]\nid = \"1\"\n")
	if got, err := pr.GetCatalogPath(""); err != nil || got != configCatalog {
		t.Errorf("GetCatalogPath(\"\") = %q, %v; want %q", got, err, configCatalog)
	}

	dataCatalog := filepath.Join(execDir, "data", "catalog.json")
	writeFile(t, dataCatalog, `{"products":[]}`)
	if got, err := pr.GetCatalogPath(""); err != nil || got != dataCatalog {
		t.Errorf("data/ should win over config dir, got %q, %v", got, err)
	}

	explicit := filepath.Join(root, "elsewhere", "snapshot.mpk")
	writeFile(t, explicit, "\x80")
	if got, err := pr.GetCatalogPath(explicit); err != nil || got != explicit {
		t.Errorf("explicit path = %q, %v; want %q", got, err, explicit)
	}
}

func TestGetCatalogPathSkipsInvalidFiles(t *testing.T) {
	root := t.TempDir()
	execDir := filepath.Join(root, "bin")
	pr := newPathResolverAt(filepath.Join(execDir, "catserve"), root, filepath.Join(root, "config"))

	writeFile(t, filepath.Join(execDir, "data", "catalog.json"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "hello")
	if err := os.MkdirAll(filepath.Join(execDir, "data", "catalog.toml"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got, err := pr.GetCatalogPath(filepath.Join(root, "notes.txt")); err == nil {
		t.Errorf("expected no catalog, got %q", got)
	}
}

func TestSaveTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	in := map[string]any{"search": map[string]any{"threshold": 0.5}}

	if err := SaveTOMLFile(in, path); err != nil {
		t.Fatalf("SaveTOMLFile: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("file not written")
	}

	var out map[string]any
	if _, err := toml.DecodeFile(path, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	section, ok := ExtractSection(out, "search")
	if !ok {
		t.Fatal("missing search section")
	}
	if v, ok := ExtractFloat(section, "threshold"); !ok || v != 0.5 {
		t.Errorf("threshold = %v, %v", v, ok)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	res := CheckDirStatus(dir)
	if res.Error != nil || !res.Exists || !res.Writable {
		t.Errorf("CheckDirStatus(%s) = %+v", dir, res)
	}
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{
		"i":   int64(7),
		"f":   1.5,
		"b":   true,
		"s":   "x",
		"arr": []any{"a", int64(1), "b"},
	}

	if v, ok := ExtractInt64(data, "i"); !ok || v != 7 {
		t.Errorf("ExtractInt64 = %v, %v", v, ok)
	}
	if v, ok := ExtractFloat(data, "i"); !ok || v != 7 {
		t.Errorf("ExtractFloat(int) = %v, %v", v, ok)
	}
	if v, ok := ExtractFloat(data, "f"); !ok || v != 1.5 {
		t.Errorf("ExtractFloat = %v, %v", v, ok)
	}
	if _, ok := ExtractFloat(data, "s"); ok {
		t.Error("ExtractFloat accepted a string")
	}
	if v, ok := ExtractBool(data, "b"); !ok || !v {
		t.Errorf("ExtractBool = %v, %v", v, ok)
	}
	if v, ok := ExtractString(data, "s"); !ok || v != "x" {
		t.Errorf("ExtractString = %v, %v", v, ok)
	}
	if v, ok := ExtractStringSlice(data, "arr"); !ok || len(v) != 2 || v[0] != "a" || v[1] != "b" {
		t.Errorf("ExtractStringSlice = %v, %v", v, ok)
	}
	if _, ok := ExtractStringSlice(data, "missing"); ok {
		t.Error("ExtractStringSlice found a missing key")
	}
}

func TestGetConfigPath(t *testing.T) {
	root := t.TempDir()
	execPath := filepath.Join(root, "bin", "catserve")
	configDir := filepath.Join(root, "config", AppDirName)
	pr := newPathResolverAt(execPath, root, configDir)

	if pr.GetExecutableDir() != filepath.Join(root, "bin") {
		t.Errorf("GetExecutableDir() = %q", pr.GetExecutableDir())
	}
	if pr.GetConfigDir() != configDir {
		t.Errorf("GetConfigDir() = %q", pr.GetConfigDir())
	}

	path, err := pr.GetConfigPath("config.toml")
	if err != nil {
		t.Fatalf("GetConfigPath: %v", err)
	}
	if path != filepath.Join(configDir, "config.toml") {
		t.Errorf("GetConfigPath = %q", path)
	}
	if res := CheckDirStatus(configDir); !res.Exists {
		t.Error("config dir should have been created")
	}

	info := pr.GetRuntimeInfo()
	if info["executable_path"] != execPath || info["config_dir"] != configDir {
		t.Errorf("runtime info = %v", info)
	}
}

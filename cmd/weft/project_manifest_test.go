package main

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleManifest = `
[package]
name = "shop"

[[taghelper]]
tag = "user-card"
type = "UserCardHelper"

  [[taghelper.property]]
  name = "Title"
  type = "string"
  required = true

  [[taghelper.property]]
  name = "Extra"
  attribute = "data-"
  type = "map"
  indexer = true
`

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "weft.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestFindWeftToml_WalksUp(t *testing.T) {
	root := t.TempDir()
	want := writeManifest(t, root, sampleManifest)
	nested := filepath.Join(root, "views", "shared")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := findWeftToml(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Errorf("found %q, want %q", got, want)
	}
}

func TestLoadProjectManifest_MissingIsNotAnError(t *testing.T) {
	m, ok, err := loadProjectManifest(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || m != nil {
		t.Errorf("phantom manifest found")
	}
}

func TestLoadProjectManifest_RequiresPackageName(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[package]\n")
	if _, _, err := loadProjectManifest(dir); err == nil {
		t.Errorf("manifest without a package name accepted")
	}
}

func TestManifestRegistry(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, sampleManifest)

	m, ok, err := loadProjectManifest(dir)
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if m.Config.Package.Name != "shop" {
		t.Errorf("package name = %q", m.Config.Package.Name)
	}

	reg, err := m.Registry()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	helper, ok := reg.Lookup("user-card")
	if !ok {
		t.Fatalf("helper not registered")
	}

	// Attribute defaults to the lowercased property name.
	desc, indexer, ok := helper.Match("title")
	if !ok || indexer || desc.Name != "Title" || !desc.Required {
		t.Errorf("title binding wrong: %+v indexer=%v ok=%v", desc, indexer, ok)
	}
	if desc, indexer, ok := helper.Match("data-rank"); !ok || !indexer || desc.Name != "Extra" {
		t.Errorf("indexer binding wrong: %+v indexer=%v ok=%v", desc, indexer, ok)
	}
}

func TestManifestRegistry_DuplicateTag(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
[package]
name = "shop"

[[taghelper]]
tag = "x"
type = "A"

[[taghelper]]
tag = "x"
type = "B"
`)
	m, _, err := loadProjectManifest(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := m.Registry(); err == nil {
		t.Errorf("duplicate tag accepted")
	}
}

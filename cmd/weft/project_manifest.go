package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"weft/internal/taghelpers"
)

// projectManifest is a discovered weft.toml with its location.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package    packageConfig     `toml:"package"`
	TagHelpers []tagHelperConfig `toml:"taghelper"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type tagHelperConfig struct {
	Tag        string           `toml:"tag"`
	Type       string           `toml:"type"`
	Properties []propertyConfig `toml:"property"`
}

type propertyConfig struct {
	Name      string `toml:"name"`
	Attribute string `toml:"attribute"`
	Type      string `toml:"type"`
	Indexer   bool   `toml:"indexer"`
	Required  bool   `toml:"required"`
}

// findWeftToml walks up from startDir looking for weft.toml.
func findWeftToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "weft.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest discovers and parses the nearest weft.toml. A missing
// manifest is not an error; the compiler just runs without tag helpers.
func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findWeftToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	meta, err := toml.DecodeFile(manifestPath, &cfg)
	if err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return nil, true, fmt.Errorf("%s: missing [package].name", manifestPath)
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// Registry builds the tag helper registry declared by the manifest.
func (m *projectManifest) Registry() (*taghelpers.Registry, error) {
	registry := taghelpers.NewRegistry()
	for _, th := range m.Config.TagHelpers {
		helper := taghelpers.Helper{
			Tag:      th.Tag,
			TypeName: th.Type,
		}
		for _, p := range th.Properties {
			attribute := p.Attribute
			if attribute == "" {
				attribute = strings.ToLower(p.Name)
			}
			helper.Props = append(helper.Props, taghelpers.PropertyDescriptor{
				Name:          p.Name,
				AttributeName: attribute,
				TypeName:      p.Type,
				IsIndexer:     p.Indexer,
				Required:      p.Required,
			})
		}
		if err := registry.Register(helper); err != nil {
			return nil, fmt.Errorf("%s: %w", m.Path, err)
		}
	}
	return registry, nil
}

package resource

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDir parses every *.yml and *.yaml file in dir into a Registry.
// The file's base name becomes the descriptor name.
func LoadDir(dir string) (*Registry, error) {
	var files []string
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)

	reg := NewRegistry()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		d, err := Parse(name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := reg.Register(d); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return reg, nil
}

// Parse decodes and validates one descriptor document.
func Parse(name string, data []byte) (*Descriptor, error) {
	// 1. structural validation on the yaml.Node
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("empty YAML")
	}
	if err := validateYAMLNode(root.Content[0], "descriptor"); err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	// 2. decode
	var d Descriptor
	if err := root.Decode(&d); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}
	d.Name = name
	return New(d)
}

// Package definition loads declarative component definitions from JSON or
// YAML files and registers them as components.
package definition

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/registry"
)

// Definition is one parsed component declaration.
type Definition struct {
	Spec       *component.Spec
	Serializer component.Serializer
	Source     string
}

// Type returns the component type key.
func (d Definition) Type() string { return d.Spec.Type }

// LoadFS walks fsys and parses every .json, .yaml and .yml file. Files are
// visited in lexical order; a type declared twice is an error.
func LoadFS(fsys fs.FS) ([]Definition, error) {
	if fsys == nil {
		return nil, nil
	}
	var defs []Definition
	seen := make(map[string]string)

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", path, err)
		}
		parsed, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, def := range parsed {
			if previous, exists := seen[def.Type()]; exists {
				return fmt.Errorf("definition: duplicate type %q (files %s and %s)", def.Type(), previous, path)
			}
			seen[def.Type()] = path
			defs = append(defs, def)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}

// Parse decodes one definition document. source names it in errors.
func Parse(data []byte, source string) ([]Definition, error) {
	doc, err := parseDocument(data, source)
	if err != nil {
		return nil, err
	}
	defs := make([]Definition, 0, len(doc.Components))
	for idx, raw := range doc.Components {
		def, err := raw.definition(fmt.Sprintf("%s: components[%d]", source, idx), source)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}
	if strings.EqualFold(filepath.Ext(source), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, err)
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, err)
	}
	return doc, nil
}

func (c componentFile) definition(path, source string) (Definition, error) {
	typ := strings.TrimSpace(c.Type)
	if typ == "" {
		return Definition{}, fmt.Errorf("definition: %s: type is required", path)
	}
	path = fmt.Sprintf("definition: %s (%s)", path, typ)

	serializer, err := component.SerializerByName(c.Serializer)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	if len(c.Properties) == 0 {
		return Definition{}, fmt.Errorf("%s: at least one property is required", path)
	}

	props := append([]propertyFile(nil), c.Properties...)
	build := func() ([]*property.Property, error) {
		nodes := make([]*property.Property, 0, len(props))
		for _, raw := range props {
			node, err := raw.build(path)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		return nodes, nil
	}
	// Build once up front so authoring mistakes surface at load time.
	if _, err := build(); err != nil {
		return Definition{}, err
	}

	spec := &component.Spec{
		Type:       typ,
		Display:    strings.TrimSpace(c.Component),
		SemVer:     strings.TrimSpace(c.Version),
		Containers: append([]string(nil), c.MainContainers...),
		Build: func() []*property.Property {
			nodes, _ := build()
			return nodes
		},
	}
	if c.Example != nil {
		example, err := ordered.Normalize(c.Example)
		if err != nil {
			return Definition{}, fmt.Errorf("%s: example: %w", path, err)
		}
		spec.Example = example
		spec.HasExample = true
	}
	if len(c.Extend) > 0 {
		spec.Extra = ordered.New()
		for _, key := range sortedKeys(c.Extend) {
			value, err := ordered.Normalize(c.Extend[key])
			if err != nil {
				return Definition{}, fmt.Errorf("%s: extend.%s: %w", path, key, err)
			}
			spec.Extra.Set(key, value)
		}
	}
	return Definition{Spec: spec, Serializer: serializer, Source: source}, nil
}

// Register registers every definition with reg. options apply to each
// resolved component after the definition's own serializer.
func Register(reg *registry.Registry, defs []Definition, options ...component.Option) error {
	for _, def := range defs {
		opts := append([]component.Option{component.WithSerializer(def.Serializer)}, options...)
		if err := reg.RegisterDefinition(def.Spec, opts...); err != nil {
			return fmt.Errorf("definition: register %s: %w", def.Source, err)
		}
	}
	return nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// sortedKeys orders map keys lexically. Decoded maps carry no order.
func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

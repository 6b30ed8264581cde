package definition

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
)

type documentFile struct {
	Components []componentFile `json:"components" yaml:"components"`
}

type componentFile struct {
	Type           string         `json:"type" yaml:"type"`
	Component      string         `json:"component" yaml:"component"`
	Version        string         `json:"version" yaml:"version"`
	Serializer     string         `json:"serializer" yaml:"serializer"`
	MainContainers []string       `json:"mainContainers" yaml:"mainContainers"`
	Example        any            `json:"example" yaml:"example"`
	Extend         map[string]any `json:"extend" yaml:"extend"`
	Properties     []propertyFile `json:"properties" yaml:"properties"`
}

type propertyFile struct {
	Name        string         `json:"name" yaml:"name"`
	Type        string         `json:"type" yaml:"type"`
	Preset      string         `json:"preset" yaml:"preset"`
	Label       string         `json:"label" yaml:"label"`
	Description string         `json:"description" yaml:"description"`
	Format      string         `json:"format" yaml:"format"`
	Default     any            `json:"default" yaml:"default"`
	Example     any            `json:"example" yaml:"example"`
	Required    bool           `json:"required" yaml:"required"`
	Nullable    bool           `json:"nullable" yaml:"nullable"`
	Hidden      bool           `json:"hidden" yaml:"hidden"`
	Rules       []string       `json:"rules" yaml:"rules"`
	Enum        []any          `json:"enum" yaml:"enum"`
	Pattern     string         `json:"pattern" yaml:"pattern"`
	MinLength   *int           `json:"minLength" yaml:"minLength"`
	MaxLength   *int           `json:"maxLength" yaml:"maxLength"`
	Minimum     *float64       `json:"minimum" yaml:"minimum"`
	Maximum     *float64       `json:"maximum" yaml:"maximum"`
	UI          map[string]any `json:"ui" yaml:"ui"`
	Properties  []propertyFile `json:"properties" yaml:"properties"`
	Items       *propertyFile  `json:"items" yaml:"items"`
}

// build converts a property entry into a node. path locates the entry in
// error messages.
func (p propertyFile) build(path string) (*property.Property, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: property name is required", path)
	}
	path = path + "." + name

	node, err := p.base(name, path)
	if err != nil {
		return nil, err
	}
	if p.Label != "" {
		node.Label(p.Label)
	}
	if p.Description != "" {
		node.Description(p.Description)
	}
	if p.Format != "" {
		node.Format(p.Format)
	}
	if p.Default != nil {
		value, err := ordered.Normalize(p.Default)
		if err != nil {
			return nil, fmt.Errorf("%s: default: %w", path, err)
		}
		node.Default(value)
	}
	if p.Example != nil {
		value, err := ordered.Normalize(p.Example)
		if err != nil {
			return nil, fmt.Errorf("%s: example: %w", path, err)
		}
		node.Example(value)
	}
	if p.Required {
		node.Required()
	}
	if p.Nullable {
		node.Nullable()
	}
	if p.Hidden {
		node.Hidden()
	}
	if len(p.Rules) > 0 {
		node.Rules(p.Rules...)
	}
	if len(p.Enum) > 0 {
		values := make([]any, 0, len(p.Enum))
		for _, value := range p.Enum {
			normalized, err := ordered.Normalize(value)
			if err != nil {
				return nil, fmt.Errorf("%s: enum: %w", path, err)
			}
			values = append(values, normalized)
		}
		node.Enum(values...)
	}
	if p.Pattern != "" {
		node.Pattern(p.Pattern)
	}
	if p.MinLength != nil {
		node.MinLength(*p.MinLength)
	}
	if p.MaxLength != nil {
		node.MaxLength(*p.MaxLength)
	}
	if p.Minimum != nil {
		node.Minimum(*p.Minimum)
	}
	if p.Maximum != nil {
		node.Maximum(*p.Maximum)
	}
	for _, key := range sortedKeys(p.UI) {
		value, err := ordered.Normalize(p.UI[key])
		if err != nil {
			return nil, fmt.Errorf("%s: ui.%s: %w", path, key, err)
		}
		node.UI(key, value)
	}

	if len(p.Properties) > 0 {
		if node.Kind() != property.KindObject {
			return nil, fmt.Errorf("%s: properties require an object type, got %s", path, node.Kind())
		}
		for _, child := range p.Properties {
			built, err := child.build(path)
			if err != nil {
				return nil, err
			}
			node.Properties(built)
		}
	}
	if p.Items != nil {
		if node.Kind() != property.KindArray {
			return nil, fmt.Errorf("%s: items require an array type, got %s", path, node.Kind())
		}
		item := *p.Items
		if strings.TrimSpace(item.Name) == "" {
			item.Name = property.ItemName(name)
		}
		built, err := item.build(path)
		if err != nil {
			return nil, err
		}
		node.Items(built)
	}
	return node, nil
}

func (p propertyFile) base(name, path string) (*property.Property, error) {
	if preset := strings.TrimSpace(p.Preset); preset != "" {
		node, ok := property.Preset(preset, name)
		if !ok {
			return nil, fmt.Errorf("%s: unknown preset %q", path, preset)
		}
		return node, nil
	}
	switch strings.ToLower(strings.TrimSpace(p.Type)) {
	case "", "string":
		return property.String(name), nil
	case "number":
		return property.Number(name), nil
	case "integer":
		return property.Integer(name), nil
	case "boolean":
		return property.Boolean(name), nil
	case "array":
		return property.Array(name), nil
	case "object":
		return property.Object(name), nil
	default:
		return nil, fmt.Errorf("%s: unknown type %q", path, p.Type)
	}
}

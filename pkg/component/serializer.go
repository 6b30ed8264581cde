package component

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
)

// Serializer converts a component into its wire representation.
type Serializer interface {
	Serialize(c *Component) (*ordered.Map, error)
}

// SerializerFunc adapts a function into a Serializer.
type SerializerFunc func(c *Component) (*ordered.Map, error)

// Serialize calls the underlying function.
func (fn SerializerFunc) Serialize(c *Component) (*ordered.Map, error) {
	return fn(c)
}

// Decorator enriches serialized output after the extension hook and before
// children are appended.
type Decorator interface {
	Decorate(c *Component, out *ordered.Map) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(c *Component, out *ordered.Map) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(c *Component, out *ordered.Map) error {
	return fn(c, out)
}

var (
	// Hierarchical keeps container nesting and emits children as a slot map.
	Hierarchical Serializer = SerializerFunc(serializeHierarchical)
	// Simplified flattens current values to the top level next to the full
	// schema and emits children as one list.
	Simplified Serializer = SerializerFunc(serializeSimplified)
)

const (
	SerializerHierarchical = "hierarchical"
	SerializerSimplified   = "simplified"
)

// SerializerByName resolves a serializer from its configuration name. An empty
// name selects Hierarchical.
func SerializerByName(name string) (Serializer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", SerializerHierarchical:
		return Hierarchical, nil
	case SerializerSimplified:
		return Simplified, nil
	default:
		return nil, fmt.Errorf("component: serializer %q not found", name)
	}
}

// hiddenNames are internal properties never exposed to renderers.
var hiddenNames = map[string]struct{}{
	"validator":  {},
	"_validator": {},
}

// IsHidden reports whether node is kept out of serialized output, examples
// and exports.
func IsHidden(node *property.Property) bool {
	if node == nil || node.IsHidden() {
		return true
	}
	_, denied := hiddenNames[node.Name()]
	return denied
}

func base(c *Component) *ordered.Map {
	return ordered.FromPairs(
		"type", c.Type(),
		"version", c.Version(),
		"component", c.DisplayComponent(),
	)
}

// finish runs the extension hook and decorators, in that order.
func finish(c *Component, out *ordered.Map) error {
	if ext, ok := c.def.(Extender); ok {
		ext.Extend(out)
	}
	for _, decorator := range c.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(c, out); err != nil {
			return fmt.Errorf("component: decorate %q: %w", c.Type(), err)
		}
	}
	return nil
}

func serializeHierarchical(c *Component) (*ordered.Map, error) {
	out := base(c)
	props := c.Properties()

	containers := ordered.New()
	for _, node := range selectContainers(props, c.MainContainers()) {
		entry := hierarchicalNode(node)
		if value, ok := c.override(node.Name()); ok {
			entry.Set("default", ordered.DeepCopy(value))
		}
		containers.Set(node.Name(), entry)
	}
	out.Set("properties", containers)

	if err := finish(c, out); err != nil {
		return nil, err
	}

	if c.HasChildren() {
		slots := ordered.New()
		for _, slot := range c.children.slots {
			list := make([]any, 0, len(c.children.bySlot[slot]))
			for _, child := range c.children.bySlot[slot] {
				childOut, err := child.ToMap()
				if err != nil {
					return nil, err
				}
				list = append(list, childOut)
			}
			slots.Set(slot, list)
		}
		out.Set("children", slots)
	}
	return out, nil
}

// selectContainers picks the top-level properties emitted by the hierarchical
// serializer. Declared containers win when at least one names an existing
// object property.
func selectContainers(props *property.Set, declared []string) []*property.Property {
	var selected []*property.Property
	seen := make(map[string]struct{})
	for _, name := range declared {
		node, ok := props.Get(strings.TrimSpace(name))
		if !ok || IsHidden(node) || node.Kind() != property.KindObject {
			continue
		}
		if _, dup := seen[node.Name()]; dup {
			continue
		}
		seen[node.Name()] = struct{}{}
		selected = append(selected, node)
	}
	if len(selected) > 0 {
		return selected
	}

	claimed := make(map[string]struct{})
	props.Each(func(node *property.Property) bool {
		if IsHidden(node) {
			return true
		}
		if _, taken := claimed[node.Name()]; taken {
			return true
		}
		if node.Kind() == property.KindObject && visibleChildren(node) > 0 {
			selected = append(selected, node)
			claimSubtree(node, claimed)
		}
		return true
	})
	if len(selected) > 0 {
		return selected
	}

	props.Each(func(node *property.Property) bool {
		if IsHidden(node) {
			return true
		}
		selected = append(selected, node)
		return false
	})
	return selected
}

func visibleChildren(node *property.Property) int {
	count := 0
	node.Children().Each(func(child *property.Property) bool {
		if !IsHidden(child) {
			count++
		}
		return true
	})
	return count
}

func claimSubtree(node *property.Property, claimed map[string]struct{}) {
	node.Children().Each(func(child *property.Property) bool {
		claimed[child.Name()] = struct{}{}
		claimSubtree(child, claimed)
		return true
	})
	if item := node.ItemSchema(); item != nil {
		claimSubtree(item, claimed)
	}
}

// hierarchicalNode keeps the type, the present descriptive attributes and the
// nested structure of node.
func hierarchicalNode(node *property.Property) *ordered.Map {
	out := ordered.New()
	out.Set("type", string(node.Kind()))
	out.Set("default", ordered.DeepCopy(node.DefaultValue()))
	if text := node.DescriptionText(); text != "" {
		out.Set("description", text)
	}
	if example, ok := node.ExampleValue(); ok {
		out.Set("example", ordered.DeepCopy(example))
	}
	if format := node.FormatName(); format != "" {
		out.Set("format", format)
	}
	if enum := node.EnumValues(); len(enum) > 0 {
		out.Set("enum", enum)
	}
	if node.IsRequired() {
		out.Set("required", true)
	}
	if label := node.LabelText(); label != "" {
		out.Set("title", label)
	}
	minValue, maxValue := node.NumericBounds()
	if minValue != nil {
		out.Set("minimum", *minValue)
	}
	if maxValue != nil {
		out.Set("maximum", *maxValue)
	}
	if pattern := node.PatternText(); pattern != "" {
		out.Set("pattern", pattern)
	}
	minLen, maxLen := node.LengthBounds()
	if minLen != nil {
		out.Set("minLength", *minLen)
	}
	if maxLen != nil {
		out.Set("maxLength", *maxLen)
	}

	switch node.Kind() {
	case property.KindObject:
		if node.HasChildren() {
			children := ordered.New()
			node.Children().Each(func(child *property.Property) bool {
				if !IsHidden(child) {
					children.Set(child.Name(), hierarchicalNode(child))
				}
				return true
			})
			out.Set("properties", children)
		}
	case property.KindArray:
		if item := node.ItemSchema(); item != nil && !IsHidden(item) {
			out.Set("items", hierarchicalNode(item))
		}
	}
	return out
}

func serializeSimplified(c *Component) (*ordered.Map, error) {
	out := base(c)
	props := c.Properties()
	out.Set("properties", props.ToMap())

	props.Each(func(node *property.Property) bool {
		if IsHidden(node) {
			return true
		}
		if value, ok := c.override(node.Name()); ok {
			out.Set(node.Name(), ordered.DeepCopy(value))
		} else {
			out.Set(node.Name(), ordered.DeepCopy(node.DefaultValue()))
		}
		return true
	})

	if err := finish(c, out); err != nil {
		return nil, err
	}

	if c.HasChildren() {
		children := make([]any, 0, c.children.len())
		for _, child := range c.children.all() {
			childOut, err := child.ToMap()
			if err != nil {
				return nil, err
			}
			children = append(children, childOut)
		}
		out.Set("children", children)
	}
	return out, nil
}

// Package component turns a Definition's property tree, instance overrides
// and child components into the JSON-safe structure consumed by renderers.
package component

import (
	"io"
	"log/slog"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Sanitizer cleans string values by property format before they are stored.
// Formats it does not handle are returned unchanged.
type Sanitizer interface {
	Sanitize(format, value string) string
}

// Option customises a Component.
type Option func(*Component)

// WithSerializer selects the output strategy. Hierarchical is the default.
func WithSerializer(serializer Serializer) Option {
	return func(c *Component) {
		if serializer != nil {
			c.serializer = serializer
		}
	}
}

// WithValidator replaces the rule validator used by Validate.
func WithValidator(validator validation.Validator) Option {
	return func(c *Component) {
		if validator != nil {
			c.validator = validator
		}
	}
}

// WithDecorators registers decorators that run after the extension hook.
func WithDecorators(decorators ...Decorator) Option {
	return func(c *Component) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// WithSanitizer sanitizes formatted string values passed to SetPropertyValue.
func WithSanitizer(sanitizer Sanitizer) Option {
	return func(c *Component) {
		c.sanitizer = sanitizer
	}
}

// WithLogger attaches a logger. Components log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Component) {
		if logger != nil {
			c.logger = logger
		}
	}
}

var defaultValidator = validation.New()

// Component is a schema instance: a Definition plus instance overrides and
// child components. A Component must be confined to one caller at a time.
type Component struct {
	def        Definition
	overrides  map[string]any
	serializer Serializer
	validator  validation.Validator
	decorators []Decorator
	sanitizer  Sanitizer
	logger     *slog.Logger
	children   *Children
	owner      *Children
}

// New constructs a Component for def.
func New(def Definition, options ...Option) *Component {
	c := &Component{
		def:        def,
		overrides:  make(map[string]any),
		serializer: Hierarchical,
		validator:  defaultValidator,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.children = newChildren(c)
	return c
}

// Definition returns the underlying definition.
func (c *Component) Definition() Definition { return c.def }

// Type returns the stable type key.
func (c *Component) Type() string { return c.def.Identifier() }

// DisplayComponent returns the renderer component name.
func (c *Component) DisplayComponent() string { return c.def.Component() }

// Version returns the definition version, DefaultVersion when unset.
func (c *Component) Version() string {
	if v, ok := c.def.(Versioner); ok {
		if version := v.Version(); version != "" {
			return version
		}
	}
	return DefaultVersion
}

// MainContainers returns the declared container hint, if any.
func (c *Component) MainContainers() []string {
	if h, ok := c.def.(ContainerHinter); ok {
		return h.MainContainers()
	}
	return nil
}

// Serializer returns the configured output strategy.
func (c *Component) Serializer() Serializer { return c.serializer }

// Properties recomputes the property tree from the definition.
func (c *Component) Properties() *property.Set {
	return property.NewSet(c.def.Properties()...)
}

// SetPropertyValue records an instance override. Names that are not top-level
// properties are ignored.
func (c *Component) SetPropertyValue(name string, value any) *Component {
	node, ok := c.Properties().Get(name)
	if !ok {
		c.logger.Debug("component: ignoring unknown property",
			slog.String("component", c.Type()), slog.String("property", name))
		return c
	}
	if text, isString := value.(string); isString && c.sanitizer != nil && node.FormatName() != "" {
		value = c.sanitizer.Sanitize(node.FormatName(), text)
	}
	c.overrides[name] = ordered.DeepCopy(value)
	return c
}

// PropertyValue returns the override for name, else its default.
func (c *Component) PropertyValue(name string) (any, bool) {
	if value, ok := c.overrides[name]; ok {
		return ordered.DeepCopy(value), true
	}
	node, ok := c.Properties().Get(name)
	if !ok {
		return nil, false
	}
	return ordered.DeepCopy(node.DefaultValue()), true
}

// PropertyValues returns the current value of every property.
func (c *Component) PropertyValues() map[string]any {
	props := c.Properties()
	out := make(map[string]any, props.Len())
	props.Each(func(node *property.Property) bool {
		if value, ok := c.overrides[node.Name()]; ok {
			out[node.Name()] = ordered.DeepCopy(value)
		} else {
			out[node.Name()] = ordered.DeepCopy(node.DefaultValue())
		}
		return true
	})
	return out
}

func (c *Component) override(name string) (any, bool) {
	value, ok := c.overrides[name]
	return value, ok
}

// ExampleData returns the literal payload of an ExampleProvider unchanged.
// Otherwise it derives an object from property examples, composing object
// nodes from their children, and overlays instance overrides.
func (c *Component) ExampleData() any {
	if provider, ok := c.def.(ExampleProvider); ok {
		if payload, has := provider.ExampleData(); has {
			return payload
		}
	}
	out := ordered.New()
	c.Properties().Each(func(node *property.Property) bool {
		if IsHidden(node) {
			return true
		}
		if value, ok := exampleOf(node); ok {
			out.Set(node.Name(), value)
		}
		if value, ok := c.overrides[node.Name()]; ok {
			out.Set(node.Name(), ordered.DeepCopy(value))
		}
		return true
	})
	return out
}

func exampleOf(node *property.Property) (any, bool) {
	if value, ok := node.ExampleValue(); ok {
		return ordered.DeepCopy(value), true
	}
	if !node.HasChildren() {
		return nil, false
	}
	composed := ordered.New()
	node.Children().Each(func(child *property.Property) bool {
		if IsHidden(child) {
			return true
		}
		if value, ok := exampleOf(child); ok {
			composed.Set(child.Name(), value)
		}
		return true
	})
	if composed.Len() == 0 {
		return nil, false
	}
	return composed, true
}

// ToMap serializes the component with its configured serializer.
func (c *Component) ToMap() (*ordered.Map, error) {
	return c.serializer.Serialize(c)
}

// MarshalJSON implements json.Marshaler.
func (c *Component) MarshalJSON() ([]byte, error) {
	out, err := c.ToMap()
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}

// Clone returns an independent copy. Overrides and the whole child graph are
// deep-copied; the copy belongs to no parent.
func (c *Component) Clone() *Component {
	out := &Component{
		def:        c.def,
		overrides:  make(map[string]any, len(c.overrides)),
		serializer: c.serializer,
		validator:  c.validator,
		decorators: append([]Decorator(nil), c.decorators...),
		sanitizer:  c.sanitizer,
		logger:     c.logger,
	}
	for name, value := range c.overrides {
		out.overrides[name] = ordered.DeepCopy(value)
	}
	out.children = c.children.cloneFor(out)
	return out
}

package property

import "strings"

// Kind is the closed set of property categories. Presets configure nodes of
// one of these kinds; they never introduce a new kind.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
	KindObject  Kind = "object"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindString, KindNumber, KindBoolean, KindArray, KindObject:
		return true
	default:
		return false
	}
}

// Property is a typed field descriptor. Constructors return a node populated
// with the type default; modifiers mutate the node and return it so calls can
// be chained.
type Property struct {
	name        string
	kind        Kind
	label       string
	description string
	format      string
	def         any
	example     any
	hasExample  bool
	required    bool
	nullable    bool
	hidden      bool
	rules       []string
	enum        []any
	pattern     string
	minLength   *int
	maxLength   *int
	minimum     *float64
	maximum     *float64
	ui          map[string]any
	uiKeys      []string
	children    *Set
	items       *Property
}

func newProperty(name string, kind Kind, def any) *Property {
	return &Property{
		name: strings.TrimSpace(name),
		kind: kind,
		def:  def,
	}
}

// String returns a string node defaulting to "".
func String(name string) *Property {
	return newProperty(name, KindString, "")
}

// Number returns a number node defaulting to 0.
func Number(name string) *Property {
	return newProperty(name, KindNumber, float64(0))
}

// Integer returns a number node constrained by the integer rule.
func Integer(name string) *Property {
	return Number(name).Format("integer").Rules("integer")
}

// Boolean returns a boolean node defaulting to false.
func Boolean(name string) *Property {
	return newProperty(name, KindBoolean, false)
}

// Array returns an array node defaulting to an empty list.
func Array(name string) *Property {
	return newProperty(name, KindArray, []any{})
}

// ArrayOf returns an array node whose items follow item.
func ArrayOf(name string, item *Property) *Property {
	return Array(name).Items(item)
}

// Object returns an object node defaulting to an empty object.
func Object(name string) *Property {
	p := newProperty(name, KindObject, map[string]any{})
	p.children = NewSet()
	return p
}

// Name returns the key of the node in its parent.
func (p *Property) Name() string { return p.name }

// Kind returns the node category.
func (p *Property) Kind() Kind { return p.kind }

// LabelText returns the human-readable label, empty when none was set.
func (p *Property) LabelText() string { return p.label }

// DescriptionText returns the description.
func (p *Property) DescriptionText() string { return p.description }

// FormatName returns the format hint, such as "email" or "date-time".
func (p *Property) FormatName() string { return p.format }

// DefaultValue returns the declared default value, nil when unset.
func (p *Property) DefaultValue() any { return p.def }

// IsRequired reports whether the property must be present.
func (p *Property) IsRequired() bool { return p.required }

// IsNullable reports whether null is an accepted value.
func (p *Property) IsNullable() bool { return p.nullable }

// IsHidden reports whether the property is excluded from serialized output.
func (p *Property) IsHidden() bool { return p.hidden }

// PatternText returns the regular expression the value must match.
func (p *Property) PatternText() string { return p.pattern }

// ExampleValue returns the example and whether one was set.
func (p *Property) ExampleValue() (any, bool) { return p.example, p.hasExample }

// RuleList returns a copy of the validation rule identifiers.
func (p *Property) RuleList() []string { return append([]string(nil), p.rules...) }

// EnumValues returns a copy of the allowed values.
func (p *Property) EnumValues() []any { return append([]any(nil), p.enum...) }

// LengthBounds returns the minLength/maxLength constraints.
func (p *Property) LengthBounds() (minLen, maxLen *int) { return p.minLength, p.maxLength }

// NumericBounds returns the minimum/maximum constraints.
func (p *Property) NumericBounds() (minValue, maxValue *float64) { return p.minimum, p.maximum }

// Children returns the nested nodes of an object node. Non-object nodes
// return an empty set.
func (p *Property) Children() *Set {
	if p.children == nil {
		return NewSet()
	}
	return p.children
}

// HasChildren reports whether an object node declares nested properties.
func (p *Property) HasChildren() bool {
	return p.kind == KindObject && p.children != nil && p.children.Len() > 0
}

// ItemSchema returns the item node of an array, or nil.
func (p *Property) ItemSchema() *Property { return p.items }

// UIValue returns a renderer metadata entry.
func (p *Property) UIValue(key string) (any, bool) {
	value, ok := p.ui[key]
	return value, ok
}

// Required marks the node as required.
func (p *Property) Required() *Property {
	p.required = true
	return p
}

// Optional clears the required flag.
func (p *Property) Optional() *Property {
	p.required = false
	return p
}

// Nullable allows explicit null values.
func (p *Property) Nullable() *Property {
	p.nullable = true
	return p
}

// Hidden excludes the node from serialized output.
func (p *Property) Hidden() *Property {
	p.hidden = true
	return p
}

// Default overrides the type default.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}

// Label sets the human readable title.
func (p *Property) Label(label string) *Property {
	p.label = label
	return p
}

// Description sets the help text.
func (p *Property) Description(description string) *Property {
	p.description = description
	return p
}

// Example sets a sample value for documentation consumers.
func (p *Property) Example(value any) *Property {
	p.example = value
	p.hasExample = true
	return p
}

// Format sets a format hint such as "email" or "date-time".
func (p *Property) Format(format string) *Property {
	p.format = strings.TrimSpace(format)
	return p
}

// Enum restricts the node to the supplied values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = append([]any(nil), values...)
	return p
}

// Pattern sets a regular expression the value must match.
func (p *Property) Pattern(expr string) *Property {
	p.pattern = expr
	return p
}

// MinLength sets the minimum string length.
func (p *Property) MinLength(n int) *Property {
	p.minLength = &n
	return p
}

// MaxLength sets the maximum string length.
func (p *Property) MaxLength(n int) *Property {
	p.maxLength = &n
	return p
}

// Minimum sets the lower numeric bound.
func (p *Property) Minimum(value float64) *Property {
	p.minimum = &value
	return p
}

// Maximum sets the upper numeric bound.
func (p *Property) Maximum(value float64) *Property {
	p.maximum = &value
	return p
}

// Rules appends opaque validation rule identifiers. A single entry may hold
// several pipe-separated rules ("required|string|min:3").
func (p *Property) Rules(rules ...string) *Property {
	for _, rule := range rules {
		for _, part := range strings.Split(rule, "|") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				p.rules = append(p.rules, trimmed)
			}
		}
	}
	return p
}

// UI attaches renderer metadata. Keys keep their first insertion position.
func (p *Property) UI(key string, value any) *Property {
	if p.ui == nil {
		p.ui = make(map[string]any)
	}
	if _, exists := p.ui[key]; !exists {
		p.uiKeys = append(p.uiKeys, key)
	}
	p.ui[key] = value
	return p
}

// Properties attaches child nodes to an object node. A later child with the
// same name as an earlier one replaces it in the earlier position.
func (p *Property) Properties(children ...*Property) *Property {
	if p.children == nil {
		p.children = NewSet()
	}
	for _, child := range children {
		p.children.Add(child)
	}
	return p
}

// Items sets the item schema of an array node.
func (p *Property) Items(item *Property) *Property {
	p.items = item
	return p
}

// Clone returns a deep copy of the node and its subtree.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	out := *p
	out.rules = append([]string(nil), p.rules...)
	out.enum = append([]any(nil), p.enum...)
	out.def = cloneValue(p.def)
	out.example = cloneValue(p.example)
	if p.minLength != nil {
		v := *p.minLength
		out.minLength = &v
	}
	if p.maxLength != nil {
		v := *p.maxLength
		out.maxLength = &v
	}
	if p.minimum != nil {
		v := *p.minimum
		out.minimum = &v
	}
	if p.maximum != nil {
		v := *p.maximum
		out.maximum = &v
	}
	if p.ui != nil {
		out.ui = make(map[string]any, len(p.ui))
		for key, value := range p.ui {
			out.ui[key] = cloneValue(value)
		}
		out.uiKeys = append([]string(nil), p.uiKeys...)
	}
	if p.children != nil {
		out.children = p.children.Clone()
	}
	out.items = p.items.Clone()
	return &out
}

package property

import "github.com/goliatone/go-formschema/pkg/ordered"

// ToMap converts the node, recursively, into an ordered JSON object. Optional
// attributes that were never set are omitted rather than emitted as null.
func (p *Property) ToMap() *ordered.Map {
	out := ordered.New()
	out.Set("type", string(p.kind))
	if p.label != "" {
		out.Set("title", p.label)
	}
	if p.description != "" {
		out.Set("description", p.description)
	}
	if p.format != "" {
		out.Set("format", p.format)
	}
	out.Set("default", cloneValue(p.def))
	if p.hasExample {
		out.Set("example", cloneValue(p.example))
	}
	if p.required {
		out.Set("required", true)
	}
	if p.nullable {
		out.Set("nullable", true)
	}
	if len(p.enum) > 0 {
		out.Set("enum", append([]any(nil), p.enum...))
	}
	if p.pattern != "" {
		out.Set("pattern", p.pattern)
	}
	if p.minLength != nil {
		out.Set("minLength", *p.minLength)
	}
	if p.maxLength != nil {
		out.Set("maxLength", *p.maxLength)
	}
	if p.minimum != nil {
		out.Set("minimum", *p.minimum)
	}
	if p.maximum != nil {
		out.Set("maximum", *p.maximum)
	}
	if len(p.rules) > 0 {
		out.Set("rules", append([]string(nil), p.rules...))
	}
	if ui := p.uiMap(); ui != nil {
		out.Set("ui", ui)
	}
	if p.kind == KindObject && p.HasChildren() {
		out.Set("properties", p.children.ToMap())
	}
	if p.kind == KindArray && p.items != nil {
		out.Set("items", p.items.ToMap())
	}
	return out
}

func (p *Property) uiMap() *ordered.Map {
	if len(p.uiKeys) == 0 {
		return nil
	}
	out := ordered.New()
	for _, key := range p.uiKeys {
		out.Set(key, cloneValue(p.ui[key]))
	}
	return out
}

func cloneValue(value any) any {
	return ordered.DeepCopy(value)
}

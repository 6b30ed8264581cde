package property

import (
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formschema/pkg/ordered"
)

// OpenAPISchema converts the node and its subtree into an OpenAPI 3 schema.
// Required children are listed on their parent; hidden nodes are skipped.
func (p *Property) OpenAPISchema() *openapi3.Schema {
	return p.openAPISchema(true)
}

// ShallowOpenAPISchema converts only this level: object properties and array
// items are left open so callers can check nested values one level at a time.
func (p *Property) ShallowOpenAPISchema() *openapi3.Schema {
	return p.openAPISchema(false)
}

func (p *Property) openAPISchema(deep bool) *openapi3.Schema {
	var schema *openapi3.Schema
	switch p.kind {
	case KindNumber:
		schema = openapi3.NewFloat64Schema()
	case KindBoolean:
		schema = openapi3.NewBoolSchema()
	case KindArray:
		schema = openapi3.NewArraySchema()
	case KindObject:
		schema = openapi3.NewObjectSchema()
	default:
		schema = openapi3.NewStringSchema()
	}

	schema.Title = p.label
	schema.Description = p.description
	schema.Nullable = p.nullable
	if len(p.enum) > 0 {
		schema.Enum = normalizeEnum(p.enum)
	}
	if p.pattern != "" {
		schema.Pattern = p.pattern
	}
	if p.minLength != nil && *p.minLength > 0 {
		schema.MinLength = uint64(*p.minLength)
	}
	if p.maxLength != nil && *p.maxLength >= 0 {
		value := uint64(*p.maxLength)
		schema.MaxLength = &value
	}
	if p.minimum != nil {
		value := *p.minimum
		schema.Min = &value
	}
	if p.maximum != nil {
		value := *p.maximum
		schema.Max = &value
	}
	if !deep {
		return schema
	}

	if p.format != "" && openAPIFormat(p.format) {
		schema.Format = p.format
	}
	schema.Default = cloneValue(p.def)
	if p.hasExample {
		schema.Example = cloneValue(p.example)
	}
	if len(p.rules) > 0 {
		schema.Extensions = map[string]any{"x-rules": append([]string(nil), p.rules...)}
	}

	switch p.kind {
	case KindObject:
		p.Children().Each(func(child *Property) bool {
			if child.hidden {
				return true
			}
			schema.WithPropertyRef(child.name, openapi3.NewSchemaRef("", child.openAPISchema(true)))
			if child.required {
				schema.Required = append(schema.Required, child.name)
			}
			return true
		})
	case KindArray:
		if p.items != nil {
			schema.Items = openapi3.NewSchemaRef("", p.items.openAPISchema(true))
		} else {
			schema.Items = openapi3.NewSchemaRef("", openapi3.NewSchema())
		}
	}
	return schema
}

// Formats the kin-openapi validator understands or passes through without
// complaint. Renderer-only hints such as "html" or "icon" stay out of the
// schema so validation does not reject them as unknown formats.
func openAPIFormat(format string) bool {
	switch format {
	case "email", "uri", "date", "date-time", "uuid", "password", "binary", "byte", "ipv4", "ipv6":
		return true
	default:
		return false
	}
}

func normalizeEnum(values []any) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		normalized, err := ordered.Normalize(value)
		if err != nil {
			normalized = value
		}
		out = append(out, normalized)
	}
	return out
}

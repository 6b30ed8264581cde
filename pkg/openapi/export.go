// Package openapi exports registered components as OpenAPI 3 component
// schemas so API tooling can describe stored state payloads.
package openapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
)

// Version is the OpenAPI document version emitted by Export.
const Version = "3.0.3"

// Info describes the exported document.
type Info struct {
	Title       string
	Version     string
	Description string
	// BasePath prefixes the generated validate operations. Empty omits paths.
	BasePath string
}

// Resolver is the registry surface Export needs.
type Resolver interface {
	Types() []string
	Resolve(typeKey string) (*component.Component, error)
}

var schemaName = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)

// Export builds and validates a document with one schema per registered
// component type, in registration order.
func Export(ctx context.Context, reg Resolver, info Info) (*openapi3.T, error) {
	if reg == nil {
		return nil, errors.New("openapi: registry is required")
	}
	if info.Title == "" {
		info.Title = "Components"
	}
	if info.Version == "" {
		info.Version = component.DefaultVersion
	}

	schemas := ordered.New()
	paths := ordered.New()
	for _, typeKey := range reg.Types() {
		if !schemaName.MatchString(typeKey) {
			return nil, fmt.Errorf("openapi: type %q is not a valid schema name", typeKey)
		}
		comp, err := reg.Resolve(typeKey)
		if err != nil {
			return nil, fmt.Errorf("openapi: resolve %q: %w", typeKey, err)
		}
		schemas.Set(typeKey, ComponentSchema(comp))
		if info.BasePath != "" {
			paths.Set(info.BasePath+"/components/"+typeKey+"/validate", validateOperation(typeKey))
		}
	}

	infoMap := ordered.FromPairs("title", info.Title, "version", info.Version)
	if info.Description != "" {
		infoMap.Set("description", info.Description)
	}
	raw, err := json.Marshal(ordered.FromPairs(
		"openapi", Version,
		"info", infoMap,
		"paths", paths,
		"components", ordered.FromPairs("schemas", schemas),
	))
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load: %w", err)
	}
	if err := doc.Validate(ctx,
		openapi3.DisableExamplesValidation(),
		openapi3.DisableSchemaDefaultsValidation(),
	); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// ComponentSchema describes the state payload of comp: an object with one
// property per visible top-level node.
func ComponentSchema(comp *component.Component) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = comp.DisplayComponent()
	comp.Properties().Each(func(node *property.Property) bool {
		if component.IsHidden(node) {
			return true
		}
		schema.WithPropertyRef(node.Name(), openapi3.NewSchemaRef("", node.OpenAPISchema()))
		if node.IsRequired() {
			schema.Required = append(schema.Required, node.Name())
		}
		return true
	})
	schema.Extensions = map[string]any{
		"x-component-type": comp.Type(),
		"x-component":      comp.DisplayComponent(),
		"x-version":        comp.Version(),
	}
	return schema
}

func validateOperation(typeKey string) *ordered.Map {
	ref := ordered.FromPairs("$ref", "#/components/schemas/"+typeKey)
	jsonBody := func(schema any) *ordered.Map {
		return ordered.FromPairs("application/json", ordered.FromPairs("schema", schema))
	}
	errorsSchema := ordered.FromPairs(
		"type", "object",
		"properties", ordered.FromPairs(
			"errors", ordered.FromPairs(
				"type", "object",
				"additionalProperties", ordered.FromPairs(
					"type", "array",
					"items", ordered.FromPairs("type", "string"),
				),
			),
		),
	)
	return ordered.FromPairs("post", ordered.FromPairs(
		"operationId", "validate_"+typeKey,
		"summary", "Validate "+typeKey+" state",
		"requestBody", ordered.FromPairs("required", true, "content", jsonBody(ref)),
		"responses", ordered.FromPairs(
			"200", ordered.FromPairs("description", "State is valid", "content", jsonBody(errorsSchema)),
			"422", ordered.FromPairs("description", "State failed validation", "content", jsonBody(errorsSchema)),
		),
	))
}

// MarshalJSON renders doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("openapi: document is required")
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("openapi: indent: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

package openapi_test

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/openapi"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/registry"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	defs := []*component.Spec{
		{
			Type:    "card",
			Display: "Card",
			SemVer:  "2.0.0",
			Build: func() []*property.Property {
				return []*property.Property{
					property.String("title").Required().MaxLength(80),
					property.Select("tone", "info", "warning"),
					property.Array("tags"),
					property.String("validator"),
					property.String("secret").Hidden(),
				}
			},
		},
		{
			Type: "panel",
			Build: func() []*property.Property {
				return []*property.Property{
					property.Object("layout").Properties(
						property.Integer("columns").Minimum(1).Required(),
						property.ArrayOf("links", property.Object("link").Properties(property.URL("href"))),
					),
				}
			},
		},
	}
	for _, def := range defs {
		if err := reg.RegisterDefinition(def); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	return reg
}

func TestExport(t *testing.T) {
	doc, err := openapi.Export(context.Background(), newRegistry(t), openapi.Info{
		Title:    "Widgets",
		BasePath: "/api/v1",
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if doc.OpenAPI != openapi.Version || doc.Info.Title != "Widgets" || doc.Info.Version != component.DefaultVersion {
		t.Fatalf("unexpected header: %s %+v", doc.OpenAPI, doc.Info)
	}

	card := doc.Components.Schemas["card"]
	if card == nil || card.Value == nil {
		t.Fatalf("card schema missing")
	}
	names := slices.Sorted(maps.Keys(card.Value.Properties))
	if diff := cmp.Diff([]string{"tags", "title", "tone"}, names); diff != "" {
		t.Fatalf("card properties mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title"}, card.Value.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if _, ok := card.Value.Extensions["x-version"]; !ok {
		t.Fatalf("expected x-version extension")
	}

	panel := doc.Components.Schemas["panel"].Value
	layout := panel.Properties["layout"].Value
	if diff := cmp.Diff([]string{"columns"}, layout.Required); diff != "" {
		t.Fatalf("nested required mismatch (-want +got):\n%s", diff)
	}
	links := layout.Properties["links"].Value
	if links.Items == nil || links.Items.Value.Properties["href"] == nil {
		t.Fatalf("expected array item schema for links")
	}

	if doc.Paths.Value("/api/v1/components/card/validate") == nil {
		t.Fatalf("expected validate path for card")
	}
}

func TestExport_WithoutBasePathHasNoOperations(t *testing.T) {
	doc, err := openapi.Export(context.Background(), newRegistry(t), openapi.Info{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Paths.Len() != 0 {
		t.Fatalf("expected no paths, got %d", doc.Paths.Len())
	}
}

func TestExport_RejectsInvalidSchemaNames(t *testing.T) {
	reg := registry.New()
	if err := reg.RegisterDefinition(&component.Spec{Type: "bad key"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := openapi.Export(context.Background(), reg, openapi.Info{}); err == nil {
		t.Fatalf("expected error for invalid schema name")
	}
	if _, err := openapi.Export(context.Background(), nil, openapi.Info{}); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestMarshalJSON(t *testing.T) {
	doc, err := openapi.Export(context.Background(), newRegistry(t), openapi.Info{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := openapi.MarshalJSON(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("{\n  ")) {
		t.Fatalf("expected indented output, got %q", raw[:10])
	}
	if !strings.Contains(string(raw), `"x-component-type": "card"`) {
		t.Fatalf("expected component extension in output")
	}
}

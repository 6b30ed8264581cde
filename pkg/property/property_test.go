package property_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/property"
)

func TestConstructors_TypeDefaults(t *testing.T) {
	cases := []struct {
		name    string
		node    *property.Property
		kind    property.Kind
		wantDef any
	}{
		{name: "string", node: property.String("title"), kind: property.KindString, wantDef: ""},
		{name: "number", node: property.Number("count"), kind: property.KindNumber, wantDef: float64(0)},
		{name: "boolean", node: property.Boolean("enabled"), kind: property.KindBoolean, wantDef: false},
		{name: "array", node: property.Array("items"), kind: property.KindArray, wantDef: []any{}},
		{name: "object", node: property.Object("config"), kind: property.KindObject, wantDef: map[string]any{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.node.Kind() != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, tc.node.Kind())
			}
			if diff := cmp.Diff(tc.wantDef, tc.node.DefaultValue()); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestModifiers_Chain(t *testing.T) {
	node := property.String("name").
		Required().
		Nullable().
		Default("anon").
		Description("Display name").
		Example("Ada").
		Enum("Ada", "Grace").
		Pattern("^[A-Z]").
		MinLength(2).
		MaxLength(32).
		Rules("required|string", "min:2")

	if !node.IsRequired() || !node.IsNullable() {
		t.Fatalf("expected required and nullable flags")
	}
	if diff := cmp.Diff([]string{"required", "string", "min:2"}, node.RuleList()); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}

	got := node.ToMap()
	wantKeys := []string{"type", "description", "default", "example", "required", "nullable", "enum", "pattern", "minLength", "maxLength", "rules"}
	if diff := cmp.Diff(wantKeys, got.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	want := map[string]any{
		"type":        "string",
		"description": "Display name",
		"default":     "anon",
		"example":     "Ada",
		"required":    true,
		"nullable":    true,
		"enum":        []any{"Ada", "Grace"},
		"pattern":     "^[A-Z]",
		"minLength":   2,
		"maxLength":   32,
		"rules":       []string{"required", "string", "min:2"},
	}
	if diff := cmp.Diff(want, got.Plain()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestToMap_OmitsUnsetOptionals(t *testing.T) {
	got := property.Number("count").ToMap()
	if diff := cmp.Diff([]string{"type", "default"}, got.Keys()); diff != "" {
		t.Fatalf("unexpected keys (-want +got):\n%s", diff)
	}
}

func TestObject_DuplicateChildLastWriteWins(t *testing.T) {
	node := property.Object("config").Properties(
		property.String("title").Default("first"),
		property.Number("size"),
		property.String("title").Default("second"),
	)

	if diff := cmp.Diff([]string{"title", "size"}, node.Children().Names()); diff != "" {
		t.Fatalf("child order mismatch (-want +got):\n%s", diff)
	}
	title, _ := node.Children().Get("title")
	if title.DefaultValue() != "second" {
		t.Fatalf("expected later child to win, got %v", title.DefaultValue())
	}

	props, ok := node.ToMap().Get("properties")
	if !ok {
		t.Fatalf("expected properties key for object node")
	}
	want := map[string]any{
		"title": map[string]any{"type": "string", "default": "second"},
		"size":  map[string]any{"type": "number", "default": float64(0)},
	}
	if diff := cmp.Diff(want, props.(interface{ Plain() map[string]any }).Plain()); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestArray_ItemsSerialized(t *testing.T) {
	node := property.ArrayOf("links", property.Object("link").Properties(
		property.URL("href").Required(),
	))

	got := node.ToMap().Plain()
	items, ok := got["items"].(map[string]any)
	if !ok {
		t.Fatalf("expected items map, got %#v", got["items"])
	}
	if items["type"] != "object" {
		t.Fatalf("expected object items, got %v", items["type"])
	}
	href := items["properties"].(map[string]any)["href"].(map[string]any)
	if href["format"] != "uri" || href["required"] != true {
		t.Fatalf("unexpected href schema: %#v", href)
	}
}

func TestClone_IsDeep(t *testing.T) {
	original := property.Object("config").Properties(property.String("title"))
	clone := original.Clone()
	clone.Properties(property.String("extra"))
	clone.Children().Nodes()[0].Default("changed")

	if original.Children().Len() != 1 {
		t.Fatalf("clone mutated original children")
	}
	title, _ := original.Children().Get("title")
	if title.DefaultValue() != "" {
		t.Fatalf("clone mutated original child default: %v", title.DefaultValue())
	}
}

func TestDefaultLabeler(t *testing.T) {
	cases := map[string]string{
		"favoriteColor": "Favorite Color",
		"postal_code":   "Postal Code",
		"address2":      "Address 2",
		"":              "",
	}
	for input, want := range cases {
		if got := property.DefaultLabeler(input); got != want {
			t.Fatalf("DefaultLabeler(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestItemName(t *testing.T) {
	if got := property.ItemName("tags"); got != "tag" {
		t.Fatalf("expected tag, got %q", got)
	}
	if got := property.ItemName(""); got != "item" {
		t.Fatalf("expected item fallback, got %q", got)
	}
}

func TestPresetHelpers_MatchPresetTable(t *testing.T) {
	helpers := map[string]func(string) *property.Property{
		"email":         property.Email,
		"url":           property.URL,
		"password":      property.Password,
		"textarea":      property.Textarea,
		"richText":      property.RichText,
		"markdown":      property.Markdown,
		"codeEditor":    property.CodeEditor,
		"json":          property.JSON,
		"color":         property.Color,
		"date":          property.Date,
		"dateTime":      property.DateTime,
		"time":          property.Time,
		"phone":         property.Phone,
		"slug":          property.Slug,
		"uuid":          property.UUID,
		"icon":          property.Icon,
		"timezone":      property.Timezone,
		"percentage":    property.Percentage,
		"rating":        property.Rating,
		"slider":        property.Slider,
		"toggle":        property.Toggle,
		"file":          property.File,
		"image":         property.Image,
		"currency":      property.Currency,
		"address":       property.Address,
		"geoPoint":      property.GeoPoint,
		"dateRange":     property.DateRange,
		"keyValue":      property.KeyValue,
		"treeSelect":    property.TreeSelect,
		"wizard":        property.Wizard,
		"tags":          property.Tags,
		"checkboxGroup": property.CheckboxGroup,
	}
	for preset, helper := range helpers {
		t.Run(preset, func(t *testing.T) {
			want, ok := property.Preset(preset, "field")
			if !ok {
				t.Fatalf("preset %q not registered", preset)
			}
			got := helper("field")
			if diff := cmp.Diff(want.ToMap().Plain(), got.ToMap().Plain()); diff != "" {
				t.Fatalf("helper mismatch (-want +got):\n%s", diff)
			}
			if value, _ := got.UIValue("preset"); value != preset {
				t.Fatalf("preset hint = %v, want %q", value, preset)
			}
		})
	}
}

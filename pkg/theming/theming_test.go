package theming_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/testsupport"
	"github.com/goliatone/go-formschema/pkg/theming"
)

func newSelector(t *testing.T) *theming.Selector {
	t.Helper()
	manifests, err := theming.LoadManifests("testdata/themes.yaml")
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	selector, err := theming.NewSelector("acme", "dark", manifests...)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	return selector
}

func TestSelector_Defaults(t *testing.T) {
	selector := newSelector(t)
	if diff := cmp.Diff([]string{"acme", "plain"}, selector.Themes()); diff != "" {
		t.Fatalf("themes mismatch (-want +got):\n%s", diff)
	}

	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if selection.Theme != "acme" || selection.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", selection.Theme, selection.Variant)
	}

	plain, err := selector.Select("plain", "")
	if err != nil {
		t.Fatalf("select plain: %v", err)
	}
	if plain.Variant != "" {
		t.Fatalf("default variant must only apply to the default theme, got %q", plain.Variant)
	}
}

func TestSelector_Errors(t *testing.T) {
	selector := newSelector(t)
	if _, err := selector.Select("missing", ""); !errors.Is(err, theming.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := selector.Select("acme", "neon"); !errors.Is(err, theming.ErrVariantNotFound) {
		t.Fatalf("expected ErrVariantNotFound, got %v", err)
	}
	manifests, _ := theming.LoadManifests("testdata/themes.yaml")
	if err := selector.Register(manifests[0]); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRendererConfig_MergesVariant(t *testing.T) {
	selection, err := newSelector(t).Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := theming.RendererConfig(selection)

	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["radius"] != "4px" {
		t.Fatalf("unexpected tokens %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived from variant tokens: %v", cfg.CSSVars)
	}
	if cfg.Partials["forms.input"] != "themes/acme/input.tmpl" || cfg.Partials["forms.checkbox"] != "themes/acme/dark/checkbox.tmpl" {
		t.Fatalf("unexpected partials %v", cfg.Partials)
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected vendor url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("expected empty url for unknown asset, got %q", got)
	}
}

func TestDecorator_AddsThemeEntry(t *testing.T) {
	def := &component.Spec{
		Type: "note",
		Build: func() []*property.Property {
			return []*property.Property{property.Object("body").Properties(property.String("text"))}
		},
	}
	comp := component.New(def, component.WithDecorators(theming.Decorator(newSelector(t), "", "", "stylesheet")))

	out := testsupport.MustSerialize(t, comp)
	entry, ok := out.Get("theme")
	if !ok {
		t.Fatalf("theme entry missing")
	}
	got := ordered.Plain(entry).(map[string]any)
	want := map[string]any{
		"name":    "acme",
		"variant": "dark",
		"tokens":  map[string]any{"brand": "#654321", "radius": "4px"},
		"cssVars": map[string]any{"--brand": "#654321", "--radius": "4px"},
		"partials": map[string]any{
			"forms.checkbox": "themes/acme/dark/checkbox.tmpl",
			"forms.input":    "themes/acme/input.tmpl",
		},
		"assets": map[string]any{"stylesheet": "/assets/themes/acme/theme.css"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("theme entry mismatch (-want +got):\n%s", diff)
	}
}

func TestDecorator_SelectionErrorFailsSerialization(t *testing.T) {
	comp := component.New(&component.Spec{Type: "note"},
		component.WithDecorators(theming.Decorator(newSelector(t), "missing", "")))
	if _, err := comp.ToMap(); !errors.Is(err, theming.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

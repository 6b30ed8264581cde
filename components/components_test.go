package components_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/components"
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/registry"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func TestRegister(t *testing.T) {
	reg := registry.New()
	if err := components.Register(reg); err != nil {
		t.Fatalf("register: %v", err)
	}
	want := []string{"profile-card", "checkout-wizard", "settings-panel", "timezone-picker"}
	if diff := cmp.Diff(want, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if err := components.Register(reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestBuiltinsSerializeAndValidateExamples(t *testing.T) {
	for _, def := range components.Definitions() {
		t.Run(def.Identifier(), func(t *testing.T) {
			comp := component.New(def)
			out := testsupport.MustSerialize(t, comp)
			if got, _ := out.Get("type"); got != def.Identifier() {
				t.Fatalf("unexpected type %v", got)
			}
			example, ok := ordered.Plain(comp.ExampleData()).(map[string]any)
			if !ok {
				t.Fatalf("example should be an object")
			}
			if def.Identifier() == "timezone-picker" {
				example = map[string]any{"picker": map[string]any{"zone": "UTC"}}
			}
			if result := comp.Validate(example); !result.Valid() {
				t.Fatalf("example does not validate: %v", result.Errors)
			}
		})
	}
}

func TestSettingsPanel_DeclaredContainers(t *testing.T) {
	out := testsupport.MustSerialize(t, component.New(components.SettingsPanel{}))
	props, _ := out.Get("properties")
	if diff := cmp.Diff([]string{"appearance", "notifications"}, props.(*ordered.Map).Keys()); diff != "" {
		t.Fatalf("containers mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckoutWizard_Extension(t *testing.T) {
	out := testsupport.MustSerialize(t, component.New(components.CheckoutWizard{}, component.WithSerializer(component.Simplified)))
	slots, ok := out.Get("slots")
	if !ok {
		t.Fatalf("expected slots extension")
	}
	if diff := cmp.Diff([]any{"shipping", "payment", "review"}, slots); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
}

// Package components ships the built-in component definitions.
package components

import (
	"errors"

	"github.com/goliatone/go-formschema/components/timezones"
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/registry"
)

// Definitions returns every built-in definition in registration order.
func Definitions() []component.Definition {
	return []component.Definition{
		ProfileCard{},
		CheckoutWizard{},
		SettingsPanel{},
		timezones.Definition(),
	}
}

// Register adds every built-in definition to reg. Resolved components are
// built with options.
func Register(reg *registry.Registry, options ...component.Option) error {
	if reg == nil {
		return errors.New("components: registry is required")
	}
	for _, def := range Definitions() {
		if err := reg.RegisterDefinition(def, options...); err != nil {
			return err
		}
	}
	return nil
}

// ProfileCard shows a person with contact links and a rich-text bio.
type ProfileCard struct{}

func (ProfileCard) Identifier() string { return "profile-card" }
func (ProfileCard) Component() string  { return "ProfileCard" }
func (ProfileCard) Version() string    { return "1.2.0" }

func (ProfileCard) Properties() []*property.Property {
	return []*property.Property{
		property.Object("profile").Label("Profile").Properties(
			property.String("name").Required().MinLength(2).MaxLength(80).Example("Ada Lovelace"),
			property.Email("email").Example("ada@example.com"),
			property.Image("avatar"),
			property.RichText("bio"),
			property.Icon("badge"),
		),
		property.ArrayOf("links", property.Object("link").Properties(
			property.String("label").Required(),
			property.URL("href").Required(),
		)).Label("Links"),
		property.String("validator"),
	}
}

// CheckoutWizard drives a multi-step checkout.
type CheckoutWizard struct{}

func (CheckoutWizard) Identifier() string { return "checkout-wizard" }
func (CheckoutWizard) Component() string  { return "CheckoutWizard" }

func (CheckoutWizard) Properties() []*property.Property {
	return []*property.Property{
		property.Wizard("flow"),
		property.Object("shipping").Properties(
			property.Address("address"),
			property.Select("method", "standard", "express").Default("standard"),
		),
		property.Object("payment").Properties(
			property.Currency("total"),
			property.Radio("provider", "card", "invoice").Default("card"),
		),
	}
}

// ExampleData returns a complete three step checkout.
func (CheckoutWizard) ExampleData() (any, bool) {
	return map[string]any{
		"flow": map[string]any{
			"currentStep": 0,
			"linear":      true,
			"steps": []any{
				map[string]any{"key": "shipping", "title": "Shipping"},
				map[string]any{"key": "payment", "title": "Payment"},
				map[string]any{"key": "review", "title": "Review", "optional": true},
			},
		},
		"shipping": map[string]any{"method": "express"},
		"payment":  map[string]any{"provider": "card", "total": map[string]any{"amount": 42.5, "currency": "EUR"}},
	}, true
}

// Extend advertises the step slots renderers should expose.
func (CheckoutWizard) Extend(out *ordered.Map) {
	out.Set("slots", []any{"shipping", "payment", "review"})
}

// SettingsPanel groups appearance and notification preferences. Only the
// appearance and notifications objects are containers; locale values are
// flattened into the simplified format.
type SettingsPanel struct{}

func (SettingsPanel) Identifier() string { return "settings-panel" }
func (SettingsPanel) Component() string  { return "SettingsPanel" }
func (SettingsPanel) Version() string    { return "2.0.0" }

func (SettingsPanel) MainContainers() []string {
	return []string{"appearance", "notifications"}
}

func (SettingsPanel) Properties() []*property.Property {
	return []*property.Property{
		property.Object("appearance").Properties(
			property.Select("theme", "light", "dark", "system").Default("system"),
			property.Color("accent"),
			property.Slider("density").Default(50.0),
		),
		property.Object("notifications").Properties(
			property.Toggle("email").Default(true),
			property.Select("digest", "daily", "weekly", "never").Default("weekly"),
			property.Tags("topics"),
		),
		property.Object("locale").Properties(
			property.Timezone("timezone"),
			property.String("language").Default("en").Pattern("^[a-z]{2}$"),
		),
	}
}

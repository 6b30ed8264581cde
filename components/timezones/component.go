package timezones

import (
	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/property"
)

// Type is the registry key of the timezone picker.
const Type = "timezone-picker"

// Definition describes the picker. The zone node points renderers at the
// options handler through its optionsEndpoint hint.
func Definition() *component.Spec {
	return &component.Spec{
		Type:    Type,
		Display: "TimezonePicker",
		SemVer:  "1.1.0",
		Build: func() []*property.Property {
			return []*property.Property{
				property.Object("picker").Properties(
					property.Timezone("zone").Required().
						UI("optionsEndpoint", DefaultRoutePath).
						UI("searchParam", "q"),
					property.Toggle("showOffset").Default(true),
					property.String("placeholder").Default("Search timezones"),
				),
			}
		},
	}
}

package property

import "sort"

// presetSpec configures a preset over a base kind. Presets are plain data:
// they set format, rules, description and renderer metadata, and object or
// array presets declare their nested nodes through children/items.
type presetSpec struct {
	kind        Kind
	format      string
	description string
	rules       []string
	widget      string
	def         func() any
	enum        []any
	minimum     *float64
	maximum     *float64
	children    func() []*Property
	items       func(name string) *Property
}

func float(v float64) *float64 { return &v }

var presets = map[string]presetSpec{
	"email":      {kind: KindString, format: "email", rules: []string{"email"}, widget: "email-input"},
	"url":        {kind: KindString, format: "uri", rules: []string{"url"}, widget: "url-input"},
	"password":   {kind: KindString, format: "password", rules: []string{"min:8"}, widget: "password-input"},
	"textarea":   {kind: KindString, widget: "textarea"},
	"richText":   {kind: KindString, format: "html", description: "Rich text content", widget: "rich-text-editor"},
	"markdown":   {kind: KindString, format: "markdown", widget: "markdown-editor"},
	"codeEditor": {kind: KindString, format: "code", widget: "code-editor"},
	"json":       {kind: KindString, format: "json", rules: []string{"json"}, widget: "json-editor"},
	"color":      {kind: KindString, format: "color", rules: []string{"regex:^#(?:[0-9a-fA-F]{3}){1,2}$"}, widget: "color-picker", def: func() any { return "#000000" }},
	"date":       {kind: KindString, format: "date", rules: []string{"date"}, widget: "date-picker"},
	"dateTime":   {kind: KindString, format: "date-time", rules: []string{"date"}, widget: "datetime-picker"},
	"time":       {kind: KindString, format: "time", widget: "time-picker"},
	"phone":      {kind: KindString, format: "tel", rules: []string{"regex:^\\+?[0-9\\-\\s]{7,20}$"}, widget: "phone-input"},
	"slug":       {kind: KindString, format: "slug", rules: []string{"alpha_dash"}, widget: "slug-input"},
	"uuid":       {kind: KindString, format: "uuid", rules: []string{"uuid"}},
	"icon":       {kind: KindString, format: "icon", widget: "icon-picker"},
	"timezone":   {kind: KindString, format: "timezone", rules: []string{"timezone"}, widget: "timezone-select", def: func() any { return "UTC" }},
	"percentage": {
		kind: KindNumber, format: "percent", widget: "percentage-input",
		minimum: float(0), maximum: float(100),
	},
	"rating": {
		kind: KindNumber, format: "integer", rules: []string{"integer"}, widget: "rating",
		minimum: float(0), maximum: float(5),
	},
	"slider": {kind: KindNumber, widget: "slider", minimum: float(0), maximum: float(100)},
	"toggle": {kind: KindBoolean, widget: "toggle"},
	"select": {kind: KindString, widget: "select"},
	"radio":  {kind: KindString, widget: "radio-group"},
	"multiSelect": {
		kind: KindArray, widget: "multi-select",
		items: func(name string) *Property { return String(ItemName(name)) },
	},
	"checkboxGroup": {
		kind: KindArray, widget: "checkbox-group",
		items: func(name string) *Property { return String(ItemName(name)) },
	},
	"tags": {
		kind: KindArray, widget: "tag-input",
		items: func(name string) *Property { return String(ItemName(name)) },
	},
	"file":  {kind: KindString, format: "binary", widget: "file-upload"},
	"image": {kind: KindString, format: "binary", rules: []string{"image"}, widget: "image-upload"},
	"currency": {
		kind: KindObject, description: "Monetary amount with ISO 4217 currency", widget: "currency-input",
		children: func() []*Property {
			return []*Property{
				Number("amount").Minimum(0),
				String("currency").Default("USD").Pattern("^[A-Z]{3}$"),
			}
		},
	},
	"address": {
		kind: KindObject, description: "Postal address", widget: "address",
		children: func() []*Property {
			return []*Property{
				String("street"),
				String("city"),
				String("state"),
				String("postalCode"),
				String("country").Pattern("^[A-Z]{2}$"),
			}
		},
	},
	"geoPoint": {
		kind: KindObject, widget: "map-picker",
		children: func() []*Property {
			return []*Property{
				Number("lat").Minimum(-90).Maximum(90),
				Number("lng").Minimum(-180).Maximum(180),
			}
		},
	},
	"dateRange": {
		kind: KindObject, widget: "date-range-picker",
		children: func() []*Property {
			return []*Property{
				String("start").Format("date").Rules("date"),
				String("end").Format("date").Rules("date"),
			}
		},
	},
	"keyValue": {
		kind: KindArray, widget: "key-value",
		items: func(name string) *Property {
			return Object(ItemName(name)).Properties(String("key").Required(), String("value"))
		},
	},
	"treeSelect": {
		kind: KindArray, widget: "tree-select",
		items: func(name string) *Property {
			return Object(ItemName(name)).Properties(
				String("value").Required(),
				String("label"),
				Array("children"),
			)
		},
	},
	"wizard": {
		kind: KindObject, description: "Multi-step wizard", widget: "wizard",
		children: func() []*Property {
			return []*Property{
				Integer("currentStep"),
				ArrayOf("steps", Object("step").Properties(
					String("key").Required(),
					String("title").Required(),
					String("description"),
					Boolean("optional"),
				)),
				Boolean("linear").Default(true),
			}
		},
	},
}

// Preset returns a node preconfigured by the named preset. ok is false for
// unknown preset names.
func Preset(preset, name string) (*Property, bool) {
	spec, ok := presets[preset]
	if !ok {
		return nil, false
	}
	var node *Property
	switch spec.kind {
	case KindNumber:
		node = Number(name)
	case KindBoolean:
		node = Boolean(name)
	case KindArray:
		node = Array(name)
	case KindObject:
		node = Object(name)
	default:
		node = String(name)
	}
	if spec.format != "" {
		node.Format(spec.format)
	}
	if spec.description != "" {
		node.Description(spec.description)
	}
	if len(spec.rules) > 0 {
		node.Rules(spec.rules...)
	}
	if spec.def != nil {
		node.Default(spec.def())
	}
	if len(spec.enum) > 0 {
		node.Enum(spec.enum...)
	}
	if spec.minimum != nil {
		node.Minimum(*spec.minimum)
	}
	if spec.maximum != nil {
		node.Maximum(*spec.maximum)
	}
	if spec.children != nil {
		node.Properties(spec.children()...)
	}
	if spec.items != nil {
		node.Items(spec.items(name))
	}
	node.UI("preset", preset)
	if spec.widget != "" {
		node.UI("widget", spec.widget)
	}
	return node, true
}

// PresetNames lists the registered presets in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mustPreset(preset, name string) *Property {
	node, ok := Preset(preset, name)
	if !ok {
		panic("property: unknown preset " + preset)
	}
	return node
}

// Email returns a string node validated as an email address.
func Email(name string) *Property { return mustPreset("email", name) }

// URL returns a string node validated as an absolute URL.
func URL(name string) *Property { return mustPreset("url", name) }

// Password returns a string node with the password format and an eight character minimum.
func Password(name string) *Property { return mustPreset("password", name) }

// Textarea returns a string node edited in a multi-line textarea.
func Textarea(name string) *Property { return mustPreset("textarea", name) }

// RichText returns a string node holding HTML content. Values are sanitized on serialization.
func RichText(name string) *Property { return mustPreset("richText", name) }

// Markdown returns a string node holding markdown.
func Markdown(name string) *Property { return mustPreset("markdown", name) }

// CodeEditor returns a string node edited in a code editor.
func CodeEditor(name string) *Property { return mustPreset("codeEditor", name) }

// JSON returns a string node that must hold a JSON document.
func JSON(name string) *Property { return mustPreset("json", name) }

// Color returns a hex color string node defaulting to black.
func Color(name string) *Property { return mustPreset("color", name) }

// Date returns a string node holding a calendar date.
func Date(name string) *Property { return mustPreset("date", name) }

// DateTime returns a string node holding a date and time.
func DateTime(name string) *Property { return mustPreset("dateTime", name) }

// Time returns a string node holding a time of day.
func Time(name string) *Property { return mustPreset("time", name) }

// Phone returns a string node matching a loose telephone pattern.
func Phone(name string) *Property { return mustPreset("phone", name) }

// Slug returns a string node restricted to letters, digits, dashes and underscores.
func Slug(name string) *Property { return mustPreset("slug", name) }

// UUID returns a string node validated as a UUID.
func UUID(name string) *Property { return mustPreset("uuid", name) }

// Icon returns a string node naming an icon.
func Icon(name string) *Property { return mustPreset("icon", name) }

// Timezone returns an IANA zone name node defaulting to UTC.
func Timezone(name string) *Property { return mustPreset("timezone", name) }

// Percentage returns a number node bounded to 0..100.
func Percentage(name string) *Property { return mustPreset("percentage", name) }

// Rating returns an integer node bounded to 0..5.
func Rating(name string) *Property { return mustPreset("rating", name) }

// Slider returns a number node rendered as a slider over 0..100.
func Slider(name string) *Property { return mustPreset("slider", name) }

// Toggle returns a boolean node rendered as a switch.
func Toggle(name string) *Property { return mustPreset("toggle", name) }

// File returns a binary string node for uploads.
func File(name string) *Property { return mustPreset("file", name) }

// Image returns a binary string node that must reference an image.
func Image(name string) *Property { return mustPreset("image", name) }

// Currency returns an object node with amount and ISO 4217 currency children.
func Currency(name string) *Property { return mustPreset("currency", name) }

// Address returns a postal address object node.
func Address(name string) *Property { return mustPreset("address", name) }

// GeoPoint returns an object node with lat and lng children.
func GeoPoint(name string) *Property { return mustPreset("geoPoint", name) }

// DateRange returns an object node with start and end dates.
func DateRange(name string) *Property { return mustPreset("dateRange", name) }

// KeyValue returns an array node of key/value pairs.
func KeyValue(name string) *Property { return mustPreset("keyValue", name) }

// TreeSelect returns an array node of nested value/label entries.
func TreeSelect(name string) *Property { return mustPreset("treeSelect", name) }

// Wizard returns a multi-step wizard object node.
func Wizard(name string) *Property { return mustPreset("wizard", name) }

// Tags returns an array node of free-form string tags.
func Tags(name string) *Property { return mustPreset("tags", name) }

// CheckboxGroup returns an array node of strings rendered as checkboxes.
func CheckboxGroup(name string) *Property { return mustPreset("checkboxGroup", name) }

// Select returns a string node restricted to options.
func Select(name string, options ...any) *Property {
	return mustPreset("select", name).Enum(options...)
}

// Radio returns a string node rendered as a radio group over options.
func Radio(name string, options ...any) *Property {
	return mustPreset("radio", name).Enum(options...)
}

// MultiSelect returns an array of strings drawn from options.
func MultiSelect(name string, options ...any) *Property {
	node := mustPreset("multiSelect", name)
	node.items.Enum(options...)
	return node
}

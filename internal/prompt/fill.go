// Package prompt collects component state interactively from a terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/validation"
)

// Option configures a Filler.
type Option func(*Filler)

// WithValidator replaces the rule validator used to re-prompt invalid answers.
func WithValidator(validator validation.Validator) Option {
	return func(f *Filler) {
		if validator != nil {
			f.validator = validator
		}
	}
}

// Filler walks a component's property tree and asks for every visible leaf.
type Filler struct {
	asker     Asker
	validator validation.Validator
}

// New constructs a Filler around asker.
func New(asker Asker, options ...Option) (*Filler, error) {
	if asker == nil {
		return nil, errors.New("prompt: asker is required")
	}
	f := &Filler{asker: asker, validator: validation.New()}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Fill prompts for each visible top-level property, seeding answers with the
// component's current values, and stores the answers as overrides.
func (f *Filler) Fill(ctx context.Context, comp *component.Component) (map[string]any, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if comp == nil {
		return nil, errors.New("prompt: component is required")
	}
	values := make(map[string]any)
	for _, node := range comp.Properties().Nodes() {
		if component.IsHidden(node) {
			continue
		}
		current, _ := comp.PropertyValue(node.Name())
		value, err := f.ask(ctx, node, node.Name(), current)
		if err != nil {
			return nil, err
		}
		values[node.Name()] = value
		comp.SetPropertyValue(node.Name(), value)
	}
	return values, nil
}

func (f *Filler) ask(ctx context.Context, node *property.Property, path string, current any) (any, error) {
	switch node.Kind() {
	case property.KindObject:
		return f.askObject(ctx, node, path, current)
	case property.KindArray:
		if item := node.ItemSchema(); item != nil && item.Kind() == property.KindObject {
			return f.askObjectList(ctx, node, item, path, current)
		}
	}
	q := questionFor(node, path, current)
	for {
		answer, err := f.asker.Ask(ctx, q)
		if err != nil {
			return nil, err
		}
		value, msg := readAnswer(node, path, q, answer, current)
		if msg == "" {
			msg = f.check(node, path, value)
		}
		if msg == "" {
			return value, nil
		}
		if err := f.asker.Tell(ctx, msg); err != nil {
			return nil, err
		}
	}
}

func (f *Filler) check(node *property.Property, path string, value any) string {
	if node.IsRequired() && empty(value) {
		return fmt.Sprintf("%s is required", path)
	}
	if rules := node.RuleList(); len(rules) > 0 && !f.validator.Passes(value, rules) {
		return fmt.Sprintf("%s is invalid", path)
	}
	return ""
}

func (f *Filler) askObject(ctx context.Context, node *property.Property, path string, current any) (any, error) {
	existing, _ := ordered.Plain(current).(map[string]any)
	out := make(map[string]any)
	for _, child := range node.Children().Nodes() {
		if component.IsHidden(child) {
			continue
		}
		seed, ok := existing[child.Name()]
		if !ok {
			seed = child.DefaultValue()
		}
		value, err := f.ask(ctx, child, path+"."+child.Name(), seed)
		if err != nil {
			return nil, err
		}
		out[child.Name()] = value
	}
	return out, nil
}

// askObjectList asks whether to add another item before each object entry.
func (f *Filler) askObjectList(ctx context.Context, node, item *property.Property, path string, current any) (any, error) {
	existing, _ := ordered.Plain(current).([]any)
	out := make([]any, 0, len(existing))
	for idx := 0; ; idx++ {
		answer, err := f.asker.Ask(ctx, Question{
			Path:    fmt.Sprintf("%s.%d", path, idx),
			Message: fmt.Sprintf("Add %s?", property.ItemName(node.Name())),
			Help:    node.DescriptionText(),
			Style:   StyleConfirm,
			Yes:     idx < len(existing),
		})
		if err != nil {
			return nil, err
		}
		if !answer.Yes {
			return out, nil
		}
		var seed any
		if idx < len(existing) {
			seed = existing[idx]
		}
		value, err := f.askObject(ctx, item, fmt.Sprintf("%s.%d", path, idx), seed)
		if err != nil {
			return nil, err
		}
		out = append(out, value)
	}
}

// questionFor picks the question style from the property kind, its enum and
// its format, seeding it with the current value.
func questionFor(node *property.Property, path string, current any) Question {
	q := Question{Path: path, Message: label(node), Help: node.DescriptionText()}

	if node.Kind() == property.KindArray {
		existing, _ := ordered.Plain(current).([]any)
		if item := node.ItemSchema(); item != nil && len(item.EnumValues()) > 0 {
			q.Style = StyleChoices
			q.Options = stringify(item.EnumValues())
			for _, value := range existing {
				if idx := indexOf(q.Options, fmt.Sprint(value)); idx >= 0 {
					q.Picked = append(q.Picked, idx)
				}
			}
			return q
		}
		q.Message += " (comma separated)"
		q.Text = strings.Join(stringify(existing), ", ")
		return q
	}

	if enum := node.EnumValues(); len(enum) > 0 {
		q.Style = StyleChoice
		q.Options = stringify(enum)
		if idx := indexOf(q.Options, fmt.Sprint(current)); idx >= 0 {
			q.Picked = []int{idx}
		}
		return q
	}

	if node.Kind() == property.KindBoolean {
		q.Style = StyleConfirm
		q.Yes, _ = current.(bool)
		return q
	}

	if current != nil {
		q.Text = fmt.Sprint(current)
	}
	switch {
	case node.FormatName() == "password":
		q.Style = StyleSecret
		q.Text = ""
	case node.Kind() == property.KindString && multiline(node):
		q.Style = StyleMultiline
	}
	return q
}

// readAnswer converts an answer into the property's value. A non-empty
// message asks the question again.
func readAnswer(node *property.Property, path string, q Question, answer Answer, current any) (any, string) {
	switch q.Style {
	case StyleConfirm:
		return answer.Yes, ""
	case StyleChoice:
		enum := node.EnumValues()
		if len(answer.Picked) == 0 || answer.Picked[0] < 0 || answer.Picked[0] >= len(enum) {
			return current, ""
		}
		return enum[answer.Picked[0]], ""
	case StyleChoices:
		enum := node.ItemSchema().EnumValues()
		out := make([]any, 0, len(answer.Picked))
		for _, idx := range answer.Picked {
			if idx >= 0 && idx < len(enum) {
				out = append(out, enum[idx])
			}
		}
		return out, ""
	}

	switch node.Kind() {
	case property.KindArray:
		return splitList(answer.Text, node.ItemSchema(), path)
	case property.KindNumber:
		raw := strings.TrimSpace(answer.Text)
		if raw == "" {
			if node.IsNullable() {
				return nil, ""
			}
			return current, ""
		}
		number, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Sprintf("%s must be of type number", path)
		}
		return number, ""
	}
	return answer.Text, ""
}

func splitList(raw string, item *property.Property, path string) ([]any, string) {
	out := []any{}
	for idx, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if item == nil || item.Kind() != property.KindNumber {
			out = append(out, part)
			continue
		}
		number, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Sprintf("%s.%d must be of type number", path, idx)
		}
		out = append(out, number)
	}
	return out, ""
}

func multiline(node *property.Property) bool {
	switch node.FormatName() {
	case "html", "markdown", "code":
		return true
	}
	widget, _ := node.UIValue("widget")
	return widget == "textarea"
}

// label prefers the declared label and falls back to one derived from the
// property name.
func label(node *property.Property) string {
	if text := node.LabelText(); text != "" {
		return text
	}
	return property.DefaultLabeler(node.Name())
}

func stringify(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		out = append(out, fmt.Sprint(value))
	}
	return out
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func empty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	default:
		return false
	}
}

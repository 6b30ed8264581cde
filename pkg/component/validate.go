package component

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
)

// ValidationResult collects messages keyed by field. Nested object fields use
// dotted keys ("config.title"); child component errors merge under their own
// field names.
type ValidationResult struct {
	Errors map[string][]string `json:"errors"`
}

// NewValidationResult returns an empty result.
func NewValidationResult() ValidationResult {
	return ValidationResult{Errors: make(map[string][]string)}
}

// Valid reports whether no errors were recorded.
func (r ValidationResult) Valid() bool { return len(r.Errors) == 0 }

// Add records message for field.
func (r *ValidationResult) Add(field, message string) {
	if r.Errors == nil {
		r.Errors = make(map[string][]string)
	}
	r.Errors[field] = append(r.Errors[field], message)
}

// Merge appends every message of other.
func (r *ValidationResult) Merge(other ValidationResult) {
	for _, field := range other.Fields() {
		for _, message := range other.Errors[field] {
			r.Add(field, message)
		}
	}
}

// Fields lists fields with errors in lexical order.
func (r ValidationResult) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for field := range r.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

// First returns the first message recorded for field.
func (r ValidationResult) First(field string) string {
	if messages := r.Errors[field]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

// Validate checks data against the property tree. Missing optional fields are
// skipped; null passes only for nullable properties. Entries of
// data["children"][slot] are validated, index by index, against the children
// of that slot.
func (c *Component) Validate(data map[string]any) ValidationResult {
	result := NewValidationResult()
	c.validateSet(c.Properties(), data, "", &result)

	slots := childPayloads(data)
	for _, slot := range c.children.slots {
		entries := slots[slot]
		for idx, child := range c.children.bySlot[slot] {
			entry := map[string]any{}
			if idx < len(entries) {
				if m, ok := entries[idx].(map[string]any); ok {
					entry = m
				}
			}
			result.Merge(child.Validate(entry))
		}
	}
	return result
}

func (c *Component) validateSet(set *property.Set, data map[string]any, prefix string, result *ValidationResult) {
	set.Each(func(node *property.Property) bool {
		if IsHidden(node) {
			return true
		}
		field := prefix + node.Name()
		value, present := data[node.Name()]
		if !present {
			if node.IsRequired() {
				result.Add(field, fmt.Sprintf("%s is required", field))
			}
			return true
		}
		c.validateValue(node, value, field, result)
		return true
	})
}

func (c *Component) validateValue(node *property.Property, value any, field string, result *ValidationResult) {
	if value == nil {
		if !node.IsNullable() {
			result.Add(field, fmt.Sprintf("%s is required", field))
		}
		return
	}

	normalized, err := ordered.Normalize(value)
	if err != nil || !kindMatches(node.Kind(), normalized) {
		result.Add(field, fmt.Sprintf("%s must be of type %s", field, node.Kind()))
		return
	}

	invalid := node.ShallowOpenAPISchema().VisitJSON(normalized) != nil
	if rules := node.RuleList(); len(rules) > 0 && !c.validator.Passes(normalized, rules) {
		invalid = true
	}
	if invalid {
		result.Add(field, fmt.Sprintf("%s is invalid", field))
	}

	switch node.Kind() {
	case property.KindObject:
		if node.HasChildren() {
			c.validateSet(node.Children(), normalized.(map[string]any), field+".", result)
		}
	case property.KindArray:
		item := node.ItemSchema()
		if item == nil {
			return
		}
		for idx, element := range normalized.([]any) {
			c.validateValue(item, element, field+"."+strconv.Itoa(idx), result)
		}
	}
}

func kindMatches(kind property.Kind, value any) bool {
	switch kind {
	case property.KindString:
		_, ok := value.(string)
		return ok
	case property.KindNumber:
		_, ok := value.(float64)
		return ok
	case property.KindBoolean:
		_, ok := value.(bool)
		return ok
	case property.KindArray:
		_, ok := value.([]any)
		return ok
	case property.KindObject:
		_, ok := value.(map[string]any)
		return ok
	default:
		return false
	}
}

func childPayloads(data map[string]any) map[string][]any {
	raw, ok := data["children"]
	if !ok {
		return nil
	}
	normalized, err := ordered.Normalize(raw)
	if err != nil {
		return nil
	}
	bySlot, ok := normalized.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string][]any, len(bySlot))
	for slot, entries := range bySlot {
		if list, ok := entries.([]any); ok {
			out[slot] = list
		}
	}
	return out
}

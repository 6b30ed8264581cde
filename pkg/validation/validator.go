// Package validation implements the rule validator components call when
// checking submitted data. Rules are opaque strings of the form "name" or
// "name:args" ("min:3", "in:draft,published").
package validation

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Validator reports whether value satisfies every rule.
type Validator interface {
	Passes(value any, rules []string) bool
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value any, rules []string) bool

// Passes implements Validator.
func (fn ValidatorFunc) Passes(value any, rules []string) bool {
	if fn == nil {
		return true
	}
	return fn(value, rules)
}

// RuleFunc checks a single rule. args holds the text after the first colon.
type RuleFunc func(value any, args string) bool

// Engine is the default Validator. It dispatches each rule to a registered
// RuleFunc by name; rules with no registered handler pass.
type Engine struct {
	mu    sync.RWMutex
	rules map[string]RuleFunc
}

// New returns an engine with the built-in rules registered.
func New() *Engine {
	engine := &Engine{rules: make(map[string]RuleFunc)}
	for name, fn := range builtinRules {
		engine.rules[name] = fn
	}
	return engine
}

// Register adds or replaces a rule handler.
func (e *Engine) Register(name string, fn RuleFunc) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("validation: rule name is required")
	}
	if fn == nil {
		return fmt.Errorf("validation: rule %q handler is nil", trimmed)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[trimmed] = fn
	return nil
}

// Has reports whether a handler exists for name.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.rules[name]
	return ok
}

// Rules lists registered rule names in lexical order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.rules))
	for name := range e.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Passes implements Validator. Empty values (nil or "") only have to satisfy
// rules when "required" is among them.
func (e *Engine) Passes(value any, rules []string) bool {
	parsed := Parse(rules)
	if isEmpty(value) && !parsed.has("required") {
		return true
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, rule := range parsed {
		fn, ok := e.rules[rule.Name]
		if !ok {
			continue
		}
		if !fn(value, rule.Args) {
			return false
		}
	}
	return true
}

// Rule is one parsed rule identifier.
type Rule struct {
	Name string
	Args string
}

// RuleSet is an ordered list of parsed rules.
type RuleSet []Rule

func (rs RuleSet) has(name string) bool {
	for _, rule := range rs {
		if rule.Name == name {
			return true
		}
	}
	return false
}

// Parse splits rule identifiers, expanding pipe-separated entries.
func Parse(rules []string) RuleSet {
	var out RuleSet
	for _, entry := range rules {
		for _, part := range strings.Split(entry, "|") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, args, _ := strings.Cut(part, ":")
			out = append(out, Rule{Name: strings.TrimSpace(name), Args: args})
		}
	}
	return out
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	default:
		return false
	}
}

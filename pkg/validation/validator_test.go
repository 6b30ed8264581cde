package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/validation"
)

func TestEngine_BuiltinRules(t *testing.T) {
	engine := validation.New()

	cases := []struct {
		name  string
		value any
		rules []string
		want  bool
	}{
		{name: "required missing", value: nil, rules: []string{"required"}, want: false},
		{name: "required blank", value: "  ", rules: []string{"required"}, want: false},
		{name: "required present", value: "x", rules: []string{"required"}, want: true},
		{name: "empty optional skips rules", value: "", rules: []string{"min:3", "email"}, want: true},
		{name: "string", value: 12.0, rules: []string{"string"}, want: false},
		{name: "min length", value: "ab", rules: []string{"required|string|min:3"}, want: false},
		{name: "min length ok", value: "abc", rules: []string{"required|string|min:3"}, want: true},
		{name: "max numeric", value: 11.0, rules: []string{"max:10"}, want: false},
		{name: "between", value: 5.0, rules: []string{"between:1,10"}, want: true},
		{name: "size list", value: []any{1, 2}, rules: []string{"size:2"}, want: true},
		{name: "integer", value: 2.5, rules: []string{"integer"}, want: false},
		{name: "integer ok", value: float64(3), rules: []string{"integer"}, want: true},
		{name: "in", value: "draft", rules: []string{"in:draft,published"}, want: true},
		{name: "not in", value: "draft", rules: []string{"not_in:draft,published"}, want: false},
		{name: "regex", value: "#fff", rules: []string{"regex:^#(?:[0-9a-fA-F]{3}){1,2}$"}, want: true},
		{name: "email", value: "ada@example.com", rules: []string{"email"}, want: true},
		{name: "email invalid", value: "Ada <ada@example.com>", rules: []string{"email"}, want: false},
		{name: "url", value: "https://example.com/a", rules: []string{"url"}, want: true},
		{name: "url relative", value: "/a", rules: []string{"url"}, want: false},
		{name: "alpha dash", value: "my-slug_1", rules: []string{"alpha_dash"}, want: true},
		{name: "alpha dash invalid", value: "my slug", rules: []string{"alpha_dash"}, want: false},
		{name: "date", value: "2024-02-29", rules: []string{"date"}, want: true},
		{name: "date invalid", value: "2024-13-01", rules: []string{"date"}, want: false},
		{name: "uuid", value: "8f14e45f-ceea-4d7a-9f0b-3c5d2e1a0b9c", rules: []string{"uuid"}, want: true},
		{name: "json", value: `{"a":1}`, rules: []string{"json"}, want: true},
		{name: "json invalid", value: `{"a":`, rules: []string{"json"}, want: false},
		{name: "timezone", value: "Europe/Madrid", rules: []string{"timezone"}, want: true},
		{name: "timezone invalid", value: "Mars/Olympus", rules: []string{"timezone"}, want: false},
		{name: "image", value: "https://cdn.example.com/a.PNG?w=2", rules: []string{"image"}, want: true},
		{name: "in number", value: 2.0, rules: []string{"in:1,2"}, want: true},
		{name: "in with spaces", value: "New York", rules: []string{"in:New York,Paris"}, want: true},
		{name: "in missing", value: "Rome", rules: []string{"in:New York,Paris"}, want: false},
		{name: "numeric text", value: "12.5", rules: []string{"numeric"}, want: true},
		{name: "numeric invalid", value: "12a", rules: []string{"numeric"}, want: false},
		{name: "boolean text", value: "true", rules: []string{"boolean"}, want: true},
		{name: "alpha unicode", value: "Ñandú", rules: []string{"alpha"}, want: true},
		{name: "alpha num", value: "abc 1", rules: []string{"alpha_num"}, want: false},
		{name: "date on number", value: 20240229.0, rules: []string{"date"}, want: false},
		{name: "url on number", value: 3.0, rules: []string{"url"}, want: false},
		{name: "min bad args", value: "abc", rules: []string{"min:x"}, want: false},
		{name: "required empty list", value: []any{}, rules: []string{"required"}, want: false},
		{name: "max map", value: map[string]any{"a": 1, "b": 2}, rules: []string{"max:1"}, want: false},
		{name: "unknown rule passes", value: "x", rules: []string{"custom_rule:1"}, want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.Passes(tc.value, tc.rules); got != tc.want {
				t.Fatalf("Passes(%v, %v) = %v, want %v", tc.value, tc.rules, got, tc.want)
			}
		})
	}
}

func TestEngine_Register(t *testing.T) {
	engine := validation.New()
	if err := engine.Register("even", func(value any, _ string) bool {
		n, ok := value.(float64)
		return ok && int(n)%2 == 0
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !engine.Has("even") {
		t.Fatalf("expected even rule to be registered")
	}
	if engine.Passes(float64(3), []string{"even"}) {
		t.Fatalf("expected odd value to fail")
	}
	if err := engine.Register(" ", func(any, string) bool { return true }); err == nil {
		t.Fatalf("expected error for empty rule name")
	}
}

func TestParse(t *testing.T) {
	got := validation.Parse([]string{"required|min:3", " in:a,b "})
	want := validation.RuleSet{
		{Name: "required"},
		{Name: "min", Args: "3"},
		{Name: "in", Args: "a,b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatorFunc(t *testing.T) {
	var calls int
	v := validation.ValidatorFunc(func(any, []string) bool {
		calls++
		return false
	})
	if v.Passes("x", nil) || calls != 1 {
		t.Fatalf("expected adapter to delegate once")
	}
}

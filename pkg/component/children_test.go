package component_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/property"
	"github.com/goliatone/go-formschema/pkg/testsupport"
)

func leafComponent(name string) *component.Component {
	return component.New(newSpec(name, func() []*property.Property {
		return []*property.Property{property.String("label")}
	}))
}

func types(list []*component.Component) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Type())
	}
	return out
}

func TestChildren_CompositionRoundTrip(t *testing.T) {
	parent := component.New(panelDef{})
	c1, c2, c3 := leafComponent("c1"), leafComponent("c2"), leafComponent("c3")

	parent.AddChildToSlot("slot1", c1).AddChildToSlot("slot1", c2).AddChild(c3)

	if diff := cmp.Diff([]string{"c1", "c2", "c3"}, types(parent.Children())); diff != "" {
		t.Fatalf("children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "c2"}, types(parent.SlotChildren("slot1"))); diff != "" {
		t.Fatalf("slot1 mismatch (-want +got):\n%s", diff)
	}
	if parent.HasSlotChildren("slot2") {
		t.Fatalf("slot2 should be empty")
	}
	if !parent.HasChildren() || !parent.HasSlotChildren(component.DefaultSlot) {
		t.Fatalf("expected children in default slot")
	}

	parent.RemoveChild(c2)
	if diff := cmp.Diff([]string{"c1"}, types(parent.SlotChildren("slot1"))); diff != "" {
		t.Fatalf("slot1 after removal mismatch (-want +got):\n%s", diff)
	}
	if c2.Parent() != nil {
		t.Fatalf("removed child still reports a parent")
	}
	if diff := cmp.Diff([]string{"slot1", component.DefaultSlot}, parent.Slots()); diff != "" {
		t.Fatalf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestChildren_RemoveIsIdentityBased(t *testing.T) {
	parent := component.New(panelDef{})
	first, twin := leafComponent("same"), leafComponent("same")
	parent.AddChild(first).AddChild(twin)

	parent.RemoveChild(twin)
	children := parent.Children()
	if len(children) != 1 || children[0] != first {
		t.Fatalf("expected only the first instance to remain")
	}
}

func TestChildren_SingleOwner(t *testing.T) {
	left, right := component.New(panelDef{}), component.New(panelDef{})
	child := leafComponent("shared")

	left.AddChild(child)
	right.AddChildToSlot("aside", child)

	if left.HasChildren() {
		t.Fatalf("child still attached to previous owner")
	}
	if child.Parent() != right {
		t.Fatalf("expected right to own the child")
	}
}

func TestChildren_RejectsCycles(t *testing.T) {
	root := component.New(panelDef{})
	child := leafComponent("child")
	root.AddChild(child)

	child.AddChild(root)
	root.AddChild(root)
	if child.HasChildren() {
		t.Fatalf("ancestor added as descendant")
	}
	if len(root.Children()) != 1 {
		t.Fatalf("component added to itself")
	}
}

func TestClone_IndependentChildren(t *testing.T) {
	original := component.New(panelDef{}).SetPropertyValue("A", map[string]any{"x": "1"})
	child := leafComponent("child").SetPropertyValue("label", "original")
	original.AddChildToSlot("body", child)

	clone := original.Clone()
	cloned := clone.SlotChildren("body")
	if len(cloned) != 1 {
		t.Fatalf("expected one cloned child, got %d", len(cloned))
	}
	if cloned[0] == child {
		t.Fatalf("clone shares child instance with original")
	}
	if diff := cmp.Diff(testsupport.MustPlain(t, child), testsupport.MustPlain(t, cloned[0])); diff != "" {
		t.Fatalf("cloned child differs by value (-want +got):\n%s", diff)
	}

	cloned[0].SetPropertyValue("label", "changed")
	clone.SetPropertyValue("A", map[string]any{"x": "2"})
	if got, _ := child.PropertyValue("label"); got != "original" {
		t.Fatalf("mutating clone child changed original: %v", got)
	}
	if got, _ := original.PropertyValue("A"); got.(map[string]any)["x"] != "1" {
		t.Fatalf("mutating clone changed original overrides: %v", got)
	}
	if clone.Parent() != nil || cloned[0].Parent() != clone {
		t.Fatalf("unexpected ownership after clone")
	}
}

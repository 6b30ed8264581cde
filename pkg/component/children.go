package component

import "strings"

// DefaultSlot receives children added without an explicit slot.
const DefaultSlot = "default"

// Children is a component's composition graph: slot name to ordered child
// components. Slots keep first-insertion order. A component belongs to at most
// one graph; adding it elsewhere detaches it from the previous owner.
type Children struct {
	parent *Component
	slots  []string
	bySlot map[string][]*Component
}

func newChildren(parent *Component) *Children {
	return &Children{parent: parent, bySlot: make(map[string][]*Component)}
}

func (g *Children) add(slot string, child *Component) {
	if child == nil || child == g.parent || child.contains(g.parent) {
		return
	}
	slot = strings.TrimSpace(slot)
	if slot == "" {
		slot = DefaultSlot
	}
	if child.owner != nil {
		child.owner.remove(child)
	}
	if _, exists := g.bySlot[slot]; !exists {
		g.slots = append(g.slots, slot)
	}
	g.bySlot[slot] = append(g.bySlot[slot], child)
	child.owner = g
}

func (g *Children) remove(child *Component) bool {
	removed := false
	for _, slot := range g.slots {
		list := g.bySlot[slot]
		kept := list[:0]
		for _, existing := range list {
			if existing == child {
				removed = true
				continue
			}
			kept = append(kept, existing)
		}
		g.bySlot[slot] = kept
	}
	if removed {
		g.compact()
		if child.owner == g {
			child.owner = nil
		}
	}
	return removed
}

// compact drops slots emptied by removal so Slots only lists populated ones.
func (g *Children) compact() {
	slots := g.slots[:0]
	for _, slot := range g.slots {
		if len(g.bySlot[slot]) == 0 {
			delete(g.bySlot, slot)
			continue
		}
		slots = append(slots, slot)
	}
	g.slots = slots
}

func (g *Children) all() []*Component {
	var out []*Component
	for _, slot := range g.slots {
		out = append(out, g.bySlot[slot]...)
	}
	return out
}

func (g *Children) inSlot(slot string) []*Component {
	return append([]*Component(nil), g.bySlot[slot]...)
}

func (g *Children) len() int {
	total := 0
	for _, slot := range g.slots {
		total += len(g.bySlot[slot])
	}
	return total
}

func (g *Children) cloneFor(parent *Component) *Children {
	out := newChildren(parent)
	for _, slot := range g.slots {
		for _, child := range g.bySlot[slot] {
			out.add(slot, child.Clone())
		}
	}
	return out
}

// contains reports whether target is c or one of its descendants.
func (c *Component) contains(target *Component) bool {
	if c == target {
		return true
	}
	for _, child := range c.children.all() {
		if child.contains(target) {
			return true
		}
	}
	return false
}

// AddChild appends child to the default slot.
func (c *Component) AddChild(child *Component) *Component {
	return c.AddChildToSlot(DefaultSlot, child)
}

// AddChildToSlot appends child to slot. Adding a component to its own
// subtree is ignored.
func (c *Component) AddChildToSlot(slot string, child *Component) *Component {
	c.children.add(slot, child)
	return c
}

// RemoveChild removes child, by identity, from every slot.
func (c *Component) RemoveChild(child *Component) *Component {
	if child != nil {
		c.children.remove(child)
	}
	return c
}

// Children returns every child, slot by slot in slot order.
func (c *Component) Children() []*Component { return c.children.all() }

// SlotChildren returns the children of one slot in insertion order.
func (c *Component) SlotChildren(slot string) []*Component { return c.children.inSlot(slot) }

// HasChildren reports whether any slot holds a child.
func (c *Component) HasChildren() bool { return c.children.len() > 0 }

// HasSlotChildren reports whether slot holds a child.
func (c *Component) HasSlotChildren(slot string) bool { return len(c.children.bySlot[slot]) > 0 }

// Slots lists the populated slots in first-insertion order.
func (c *Component) Slots() []string { return append([]string(nil), c.children.slots...) }

// Parent returns the component owning c, or nil.
func (c *Component) Parent() *Component {
	if c.owner == nil {
		return nil
	}
	return c.owner.parent
}

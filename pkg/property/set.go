package property

import "github.com/goliatone/go-formschema/pkg/ordered"

// Set is an insertion-ordered collection of nodes keyed by name.
type Set struct {
	names []string
	nodes map[string]*Property
}

// NewSet builds a set from nodes using last-write-wins for duplicate names.
func NewSet(nodes ...*Property) *Set {
	s := &Set{nodes: make(map[string]*Property, len(nodes))}
	for _, node := range nodes {
		s.Add(node)
	}
	return s
}

// Add inserts node. A node whose name already exists replaces the previous
// entry without moving it. Nil nodes and empty names are ignored.
func (s *Set) Add(node *Property) {
	if node == nil || node.name == "" {
		return
	}
	if s.nodes == nil {
		s.nodes = make(map[string]*Property)
	}
	if _, exists := s.nodes[node.name]; !exists {
		s.names = append(s.names, node.name)
	}
	s.nodes[node.name] = node
}

// Get returns the node stored under name.
func (s *Set) Get(name string) (*Property, bool) {
	if s == nil || s.nodes == nil {
		return nil, false
	}
	node, ok := s.nodes[name]
	return node, ok
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Names returns the node names in declaration order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

// Len reports the number of nodes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Nodes returns the nodes in declaration order.
func (s *Set) Nodes() []*Property {
	if s == nil {
		return nil
	}
	out := make([]*Property, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.nodes[name])
	}
	return out
}

// Each visits nodes in order until fn returns false.
func (s *Set) Each(fn func(node *Property) bool) {
	if s == nil {
		return
	}
	for _, name := range s.names {
		if !fn(s.nodes[name]) {
			return
		}
	}
}

// ToMap converts every node with ToMap, keyed by name.
func (s *Set) ToMap() *ordered.Map {
	out := ordered.New()
	s.Each(func(node *Property) bool {
		out.Set(node.name, node.ToMap())
		return true
	})
	return out
}

// Clone deep-copies the set and its nodes.
func (s *Set) Clone() *Set {
	if s == nil {
		return nil
	}
	out := &Set{
		names: append([]string(nil), s.names...),
		nodes: make(map[string]*Property, len(s.nodes)),
	}
	for name, node := range s.nodes {
		out.nodes[name] = node.Clone()
	}
	return out
}

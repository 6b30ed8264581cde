package component

import (
	"github.com/goliatone/go-formschema/pkg/ordered"
	"github.com/goliatone/go-formschema/pkg/property"
)

// DefaultVersion is reported by definitions that do not implement Versioner.
const DefaultVersion = "1.0.0"

// Definition is implemented by schema authors. Properties is called on every
// serialization and must not have side effects.
type Definition interface {
	// Identifier is the stable type key used by the registry.
	Identifier() string
	// Component names the renderer component.
	Component() string
	Properties() []*property.Property
}

// Versioner overrides DefaultVersion.
type Versioner interface {
	Version() string
}

// ExampleProvider replaces derived example data with a literal payload. When
// ok is true the literal is returned as is, without merging derived examples
// or instance values.
type ExampleProvider interface {
	ExampleData() (payload any, ok bool)
}

// Extender injects or overwrites top-level keys after the serializer built
// the base output and before decorators run.
type Extender interface {
	Extend(out *ordered.Map)
}

// ContainerHinter restricts which top-level object properties the
// hierarchical serializer treats as containers.
type ContainerHinter interface {
	MainContainers() []string
}

// Spec is a Definition assembled from values, used by declarative
// definitions and tests. Build returns the property tree on each call.
type Spec struct {
	Type       string
	Display    string
	SemVer     string
	Containers []string
	Example    any
	HasExample bool
	Extra      *ordered.Map
	Build      func() []*property.Property
}

func (s *Spec) Identifier() string { return s.Type }

func (s *Spec) Component() string {
	if s.Display == "" {
		return s.Type
	}
	return s.Display
}

func (s *Spec) Properties() []*property.Property {
	if s.Build == nil {
		return nil
	}
	return s.Build()
}

func (s *Spec) Version() string {
	if s.SemVer == "" {
		return DefaultVersion
	}
	return s.SemVer
}

func (s *Spec) MainContainers() []string {
	return append([]string(nil), s.Containers...)
}

// Extend copies Extra into the serialized output.
func (s *Spec) Extend(out *ordered.Map) {
	s.Extra.Each(func(key string, value any) bool {
		out.Set(key, ordered.DeepCopy(value))
		return true
	})
}

func (s *Spec) ExampleData() (any, bool) {
	return s.Example, s.HasExample
}

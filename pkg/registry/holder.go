package registry

import (
	"sync/atomic"

	"github.com/goliatone/go-formschema/pkg/component"
)

// Holder publishes a registry that can be replaced while readers resolve
// from it, as when definitions are reloaded from disk.
type Holder struct {
	current atomic.Pointer[Registry]
}

// NewHolder returns a Holder serving reg. A nil reg starts empty.
func NewHolder(reg *Registry) *Holder {
	h := &Holder{}
	h.Store(reg)
	return h
}

// Store swaps in reg. A nil reg is replaced by an empty registry.
func (h *Holder) Store(reg *Registry) {
	if reg == nil {
		reg = New()
	}
	h.current.Store(reg)
}

// Load returns the registry currently served.
func (h *Holder) Load() *Registry {
	return h.current.Load()
}

// Resolve builds typeKey from the current registry.
func (h *Holder) Resolve(typeKey string) (*component.Component, error) {
	return h.Load().Resolve(typeKey)
}

// Has reports whether the current registry holds typeKey.
func (h *Holder) Has(typeKey string) bool {
	return h.Load().Has(typeKey)
}

// Types lists the current registry's type keys in registration order.
func (h *Holder) Types() []string {
	return h.Load().Types()
}

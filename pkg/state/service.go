package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formschema/pkg/component"
)

// ErrNotFound is returned by Service.Hydrate when no state exists for an id.
var ErrNotFound = errors.New("state: not found")

// ErrTypeMismatch is returned by Service.Hydrate when the state under an id
// was saved for another component type.
var ErrTypeMismatch = errors.New("state: component type mismatch")

// Resolver builds components by type key. *registry.Registry satisfies it.
type Resolver interface {
	Resolve(typeKey string) (*component.Component, error)
}

// ValidationFailedError is returned when state does not validate against its
// component. Result carries the field messages.
type ValidationFailedError struct {
	ComponentType string
	Result        component.ValidationResult
}

func (e *ValidationFailedError) Error() string {
	fields := e.Result.Fields()
	return fmt.Sprintf("state: %s state failed validation (%s)", e.ComponentType, strings.Join(fields, ", "))
}

// Service validates state against the component before storing it.
type Service struct {
	store    Store
	resolver Resolver
	logger   *slog.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithServiceLogger attaches a logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Service.
func NewService(store Store, resolver Resolver, options ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		resolver: resolver,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Save validates state for typeKey and persists it under id. An empty id is
// replaced by a new UUID; the id used is returned.
func (s *Service) Save(ctx context.Context, id, typeKey string, state map[string]any) (string, error) {
	comp, err := s.resolver.Resolve(typeKey)
	if err != nil {
		return "", err
	}
	if state == nil {
		state = map[string]any{}
	}
	if result := comp.Validate(state); !result.Valid() {
		s.logger.Info("state rejected", slog.String("component", typeKey), slog.Any("fields", result.Fields()))
		return "", &ValidationFailedError{ComponentType: typeKey, Result: result}
	}
	if id == "" {
		id = uuid.NewString()
	}
	if err := s.store.Save(ctx, id, comp, state); err != nil {
		return "", err
	}
	return id, nil
}

// Load returns the state saved under id, nil when missing.
func (s *Service) Load(ctx context.Context, id string) (map[string]any, error) {
	return s.store.Load(ctx, id)
}

// Delete removes the state saved under id.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// StatesForComponent returns every saved state of typeKey keyed by id.
func (s *Service) StatesForComponent(ctx context.Context, typeKey string) (map[string]map[string]any, error) {
	return s.store.StatesForComponent(ctx, typeKey)
}

// Hydrate resolves typeKey and applies the state saved under id as instance
// overrides, in lexical key order. The state must have been saved for
// typeKey.
func (s *Service) Hydrate(ctx context.Context, id, typeKey string) (*component.Component, error) {
	record, err := s.store.LoadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	comp, err := s.resolver.Resolve(typeKey)
	if err != nil {
		return nil, err
	}
	if record.ComponentType != typeKey {
		return nil, fmt.Errorf("%w: %q holds %s state, not %s", ErrTypeMismatch, id, record.ComponentType, typeKey)
	}
	state := record.State
	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		comp.SetPropertyValue(key, state[key])
	}
	return comp, nil
}

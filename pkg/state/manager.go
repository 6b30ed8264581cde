package state

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/singleflight"

	"github.com/goliatone/go-formschema/pkg/component"
	"github.com/goliatone/go-formschema/pkg/ordered"
)

// ErrInvalidID is returned for empty or malformed state ids.
var ErrInvalidID = errors.New("state: invalid state id")

// Store is the persistence contract used by Service.
type Store interface {
	Save(ctx context.Context, id string, comp *component.Component, state map[string]any) error
	// Load returns nil, nil when no state exists for id.
	Load(ctx context.Context, id string) (map[string]any, error)
	// LoadRecord returns nil, nil when no state exists for id.
	LoadRecord(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
	StatesForComponent(ctx context.Context, typeKey string) (map[string]map[string]any, error)
}

// Record is the persisted envelope.
type Record struct {
	ComponentType string         `msgpack:"component_type" json:"component_type"`
	State         map[string]any `msgpack:"state" json:"state"`
	SchemaVersion string         `msgpack:"schema_version" json:"schema_version"`
	UpdatedAt     time.Time      `msgpack:"updated_at" json:"updated_at"`
}

// ManagerOption customises a Manager.
type ManagerOption func(*Manager)

// WithTTL expires saved state after ttl. Zero keeps state forever.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithPrefix namespaces cache keys.
func WithPrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		m.prefix = prefix
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Manager implements Store over a Cache. Records are msgpack encoded; cache
// failures are returned wrapped.
type Manager struct {
	cache  Cache
	prefix string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	loads  singleflight.Group
}

var _ Store = (*Manager)(nil)

// NewManager builds a Manager backed by cache.
func NewManager(cache Cache, options ...ManagerOption) *Manager {
	m := &Manager{
		cache:  cache,
		prefix: "formschema:",
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// MaxKeyLength bounds a prefixed cache key in bytes. The MySQL key column of
// SQLCache is sized to it.
const MaxKeyLength = 512

func (m *Manager) key(id string) string {
	return m.prefix + "state:" + id
}

// checkID validates id and the length of the cache key it maps to.
func (m *Manager) checkID(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	if key := m.key(id); len(key) > MaxKeyLength {
		return fmt.Errorf("%w: key for %q is %d bytes, limit %d", ErrInvalidID, id, len(key), MaxKeyLength)
	}
	return nil
}

// validID accepts non-empty ids of at most 200 bytes without surrounding
// whitespace or control characters.
func validID(id string) error {
	if id == "" || len(id) > 200 || strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}

// Save persists state for id under the component's type and version.
func (m *Manager) Save(ctx context.Context, id string, comp *component.Component, state map[string]any) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	if comp == nil {
		return errors.New("state: component is required")
	}
	normalized, err := normalizeState(state)
	if err != nil {
		return fmt.Errorf("state: save %q: %w", id, err)
	}
	record := Record{
		ComponentType: comp.Type(),
		State:         normalized,
		SchemaVersion: comp.Version(),
		UpdatedAt:     m.now().UTC(),
	}
	payload, err := msgpack.Marshal(&record)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", id, err)
	}
	if err := m.cache.Set(ctx, m.key(id), payload, m.ttl); err != nil {
		return fmt.Errorf("state: save %q: %w", id, err)
	}
	m.logger.Debug("state saved", slog.String("id", id), slog.String("component", record.ComponentType))
	return nil
}

// Load returns the saved state for id.
func (m *Manager) Load(ctx context.Context, id string) (map[string]any, error) {
	record, err := m.LoadRecord(ctx, id)
	if err != nil || record == nil {
		return nil, err
	}
	return record.State, nil
}

// LoadRecord returns the full record for id, or nil when missing. Concurrent
// loads of one id share a single cache read.
func (m *Manager) LoadRecord(ctx context.Context, id string) (*Record, error) {
	if err := m.checkID(id); err != nil {
		return nil, err
	}
	value, err, _ := m.loads.Do(id, func() (any, error) {
		payload, err := m.cache.Get(ctx, m.key(id))
		if err != nil {
			return nil, fmt.Errorf("state: load %q: %w", id, err)
		}
		if payload == nil {
			return (*Record)(nil), nil
		}
		return decodeRecord(payload)
	})
	if err != nil {
		return nil, err
	}
	record := value.(*Record)
	if record == nil {
		return nil, nil
	}
	out := *record
	out.State, _ = ordered.DeepCopy(record.State).(map[string]any)
	return &out, nil
}

// Delete removes the state saved for id.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.checkID(id); err != nil {
		return err
	}
	if err := m.cache.Delete(ctx, m.key(id)); err != nil {
		return fmt.Errorf("state: delete %q: %w", id, err)
	}
	return nil
}

// StatesForComponent returns id to state for every record of typeKey.
func (m *Manager) StatesForComponent(ctx context.Context, typeKey string) (map[string]map[string]any, error) {
	records, err := m.Records(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]map[string]any)
	for id, record := range records {
		if record.ComponentType == typeKey {
			out[id] = record.State
		}
	}
	return out, nil
}

// Records returns every stored record keyed by id.
func (m *Manager) Records(ctx context.Context) (map[string]*Record, error) {
	prefix := m.key("")
	entries, err := m.cache.Scan(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("state: scan: %w", err)
	}
	out := make(map[string]*Record, len(entries))
	for key, payload := range entries {
		id := strings.TrimPrefix(key, prefix)
		record, err := decodeRecord(payload)
		if err != nil {
			m.logger.Warn("state: skipping undecodable record", slog.String("id", id), slog.Any("error", err))
			continue
		}
		out[id] = record
	}
	return out, nil
}

func decodeRecord(payload []byte) (*Record, error) {
	var record Record
	if err := msgpack.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("state: decode record: %w", err)
	}
	state, err := normalizeState(record.State)
	if err != nil {
		return nil, fmt.Errorf("state: decode record: %w", err)
	}
	record.State = state
	return &record, nil
}

// normalizeState converts state to JSON-native values so records decode to
// the same shape they were saved with.
func normalizeState(state map[string]any) (map[string]any, error) {
	if state == nil {
		return map[string]any{}, nil
	}
	normalized, err := ordered.Normalize(state)
	if err != nil {
		return nil, err
	}
	out, ok := normalized.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("state must be an object, got %T", normalized)
	}
	return out, nil
}

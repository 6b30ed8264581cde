package testsupport

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/ordered"
)

// Mapper is implemented by anything that serializes to an ordered map, such
// as components.
type Mapper interface {
	ToMap() (*ordered.Map, error)
}

// MustSerialize serializes value and returns the ordered output. Testing
// helpers fail the test on error to keep contract tests concise.
func MustSerialize(t *testing.T, value Mapper) *ordered.Map {
	t.Helper()

	out, err := value.ToMap()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return out
}

// MustPlain serializes value and normalizes it into JSON-native Go values
// (map[string]any, []any, float64) for comparison with decoded goldens.
func MustPlain(t *testing.T, value Mapper) map[string]any {
	t.Helper()

	normalized, err := ordered.Normalize(MustSerialize(t, value))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	out, ok := normalized.(map[string]any)
	if !ok {
		t.Fatalf("normalize: expected object, got %T", normalized)
	}
	return out
}

// LoadJSON decodes a JSON fixture into native Go values, returning an error
// for callers managing setup outside of *testing.T.
func LoadJSON(path string) (any, error) {
	if path == "" {
		return nil, errors.New("testsupport: fixture path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("testsupport: unmarshal fixture: %w", err)
	}
	return out, nil
}

// MustLoadJSON loads a JSON fixture.
func MustLoadJSON(t *testing.T, path string) any {
	t.Helper()

	out, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return out
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// AssertGolden compares the serialized value with the JSON golden at path,
// refreshing the golden first when UPDATE_GOLDENS is set.
func AssertGolden(t *testing.T, path string, value Mapper) {
	t.Helper()

	got := MustPlain(t, value)
	WriteGolden(t, path, MustSerialize(t, value))
	want := MustLoadJSON(t, path)
	if diff := CompareGolden(want, any(got)); diff != "" {
		t.Fatalf("golden mismatch %s (-want +got):\n%s", filepath.Base(path), diff)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

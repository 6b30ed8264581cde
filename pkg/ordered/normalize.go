package ordered

import (
	json "github.com/goccy/go-json"
)

// Normalize converts an arbitrary Go value into its JSON-native form
// (map[string]any, []any, float64, string, bool, nil) by round-tripping it
// through the encoder. Ordered maps collapse into plain maps.
func Normalize(value any) (any, error) {
	switch value.(type) {
	case nil, bool, string, float64:
		return value, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

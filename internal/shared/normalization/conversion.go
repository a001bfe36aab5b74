package normalization

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AsString trims and returns the string representation of value when possible.
func AsString(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return typed.String()
	default:
		return ""
	}
}

// AsInt coerces numeric values (including numeric strings) into ints. The
// boolean reports whether value held a usable integer.
func AsInt(value any) (int, bool) {
	switch typed := value.(type) {
	case float64:
		if typed != math.Trunc(typed) {
			return 0, false
		}
		return int(typed), true
	case float32:
		return AsInt(float64(typed))
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case json.Number:
		parsed, err := typed.Int64()
		return int(parsed), err == nil
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(typed))
		return parsed, err == nil
	default:
		return 0, false
	}
}

// OptionalInt returns a pointer to the integer stored under key, or nil when
// the key is absent, null or not an integer.
func OptionalInt(container map[string]any, key string) *int {
	if container == nil {
		return nil
	}
	value, ok := AsInt(container[key])
	if !ok {
		return nil
	}
	return &value
}

// MapFromPayload attempts to unwrap common envelope structures (e.g. {"data": {...}})
// into a plain map for normalization routines. Raw JSON strings and byte slices are decoded first.
func MapFromPayload(value any) map[string]any {
	switch typed := value.(type) {
	case nil:
		return nil
	case []byte:
		return MapFromPayload(decodeJSON(typed))
	case string:
		return MapFromPayload(decodeJSON([]byte(typed)))
	case json.RawMessage:
		return MapFromPayload(decodeJSON(typed))
	case map[string]any:
		if data, ok := typed["data"].(map[string]any); ok {
			return data
		}
		return typed
	default:
		return nil
	}
}

func decodeJSON(raw []byte) any {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	if _, isString := decoded.(string); isString {
		return nil
	}
	return decoded
}

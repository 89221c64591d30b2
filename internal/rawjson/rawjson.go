package rawjson

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Pretty renders a response payload as indented JSON. String and []byte
// inputs are parsed first so stored documents come out reformatted.
func Pretty(value interface{}) (string, error) {
	parsed, err := normalize(value)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format: %w", err)
	}
	return string(out), nil
}

// Compact renders a payload as single-line JSON, for clipboard copies.
func Compact(value interface{}) (string, error) {
	parsed, err := normalize(value)
	if err != nil {
		return "", err
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return "", fmt.Errorf("failed to compact: %w", err)
	}
	return string(out), nil
}

func normalize(value interface{}) (interface{}, error) {
	var parsed interface{}
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		if err := json.Unmarshal([]byte(v), &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case []byte:
		if err := json.Unmarshal(v, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case json.RawMessage:
		if err := json.Unmarshal(v, &parsed); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	default:
		parsed = v
	}
	return parsed, nil
}

// Looks reports whether a raw cell value parses as a JSON document.
func Looks(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	first := value[0]
	if first != '{' && first != '[' && first != '"' {
		if value == "null" || value == "true" || value == "false" {
			return true
		}
		var f float64
		return json.Unmarshal([]byte(value), &f) == nil
	}
	var parsed interface{}
	return json.Unmarshal([]byte(value), &parsed) == nil
}

// TypeOf names the top-level JSON type of a payload.
func TypeOf(value interface{}) string {
	parsed, err := normalize(value)
	if err != nil {
		return "unknown"
	}
	switch parsed.(type) {
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

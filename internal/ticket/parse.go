package ticket

import (
	"encoding/json"
	"strings"
)

// parseObject parses model output as a JSON object, best-effort. It never
// fails: the returned map is non-nil even when parsing does, and ok reports
// whether any object was recovered. Models occasionally wrap their JSON in
// markdown fences or prose, so a direct unmarshal is retried on the first
// '{' .. last '}' substring before giving up.
func parseObject(raw string) (map[string]any, bool) {
	trimmed := strings.TrimSpace(raw)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(trimmed), &parsed); err == nil && parsed != nil {
		return parsed, true
	}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(trimmed[start:end+1]), &parsed); err == nil && parsed != nil {
			return parsed, true
		}
	}

	return map[string]any{}, false
}

// stringValue extracts the string under key. present reports whether the key
// exists at all (a JSON null counts as present with value nil), matching the
// field resolution rules: present keys win over prior state, absent keys
// fall back.
func stringValue(m map[string]any, key string) (value *string, present bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	s, ok := v.(string)
	if !ok {
		return nil, true
	}
	return &s, true
}

// boolValue extracts the bool under key, defaulting to false when absent or
// not a bool.
func boolValue(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

package game

// Snapshot is one decoded sensor payload. The shape is utensil specific:
// the pan sends a rotation value and a contact flag, the cutting board sends
// button states keyed by identifier, and the mixing bowl sends x/y stick
// coordinates. A snapshot is never retained past one evaluation.
type Snapshot map[string]any

// Float reads a numeric field, accepting the types encoding/json produces.
// Missing or non-numeric fields fall back to the given neutral value.
func (s Snapshot) Float(key string, fallback float64) float64 {
	switch v := s[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return fallback
}

// Bool reads a boolean field, treating a 0/1 number the way the publishers
// send button state. Missing fields read as false.
func (s Snapshot) Bool(key string) bool {
	switch v := s[key].(type) {
	case bool:
		return v
	case float64:
		return v == 1
	case int:
		return v == 1
	}
	return false
}

// Text reads a string field, empty when missing.
func (s Snapshot) Text(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

package docstore

import "time"

// Field accessors tolerant of adapter representation differences: the memory
// store keeps native Go values while the postgres store round-trips through
// jsonb, where numbers come back as float64 and timestamps as RFC3339 strings.

// StringField returns the string value of a field, or "" if absent.
func StringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// Int64Field returns the integer value of a field, or 0 if absent.
func Int64Field(fields map[string]any, key string) int64 {
	switch n := fields[key].(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// TimeField returns the timestamp value of a field, or the zero time if
// absent or unparseable.
func TimeField(fields map[string]any, key string) time.Time {
	switch t := fields[key].(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	default:
		return time.Time{}
	}
}

// StringsField returns the string-slice value of a field, or nil if absent.
func StringsField(fields map[string]any, key string) []string {
	switch v := fields[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

package sync

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is one decoded upstream payload object. Accessors are
// defensive: absent or malformed fields fall back to zero values so a
// sparse payload never fails normalization.
type RawRecord map[string]any

// StringField returns the field as a string, or "" when absent
func (r RawRecord) StringField(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// IntField returns the field as an int64, or 0 when absent or malformed
func (r RawRecord) IntField(key string) int64 {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// BoolField returns the field as a bool, or false when absent
func (r RawRecord) BoolField(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return false
}

// DecimalField returns the field as a decimal, or zero when absent
// or malformed. Upstream sends money as strings.
func (r RawRecord) DecimalField(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	}
	return decimal.Zero
}

// TimeField returns the field parsed as RFC 3339, or the zero time
func (r RawRecord) TimeField(key string) time.Time {
	if s, ok := r[key].(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// MapField returns a nested object, or nil when absent
func (r RawRecord) MapField(key string) RawRecord {
	if m, ok := r[key].(map[string]any); ok {
		return RawRecord(m)
	}
	return nil
}

// SliceField returns a nested array of objects, or nil when absent
func (r RawRecord) SliceField(key string) []RawRecord {
	arr, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]RawRecord, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, RawRecord(m))
		}
	}
	return out
}

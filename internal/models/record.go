package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is a loosely typed row keyed by column name. Entity operations work
// on field-maps rather than per-entity structs so one service can cover every
// schema.
type Record map[string]interface{}

// Project reduces the record to exactly the requested columns. A column the
// record does not carry is rendered as an explicit null.
func (r Record) Project(columns []string) Record {
	out := make(Record, len(columns))
	for _, col := range columns {
		if v, ok := r[col]; ok {
			out[col] = v
		} else {
			out[col] = nil
		}
	}
	return out
}

// Strings renders the record as a field-map of strings for the codec layer.
// Nil values become empty strings.
func (r Record) Strings(columns []string) map[string]string {
	out := make(map[string]string, len(columns))
	for _, col := range columns {
		out[col] = stringify(r[col])
	}
	return out
}

// ID returns the record id, 0 when absent.
func (r Record) ID() int64 {
	id, err := CoerceID(r["id"])
	if err != nil {
		return 0
	}
	return id
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case time.Time:
		return t.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// OrderTerm is one parsed ordering directive.
type OrderTerm struct {
	Column string
	Desc   bool
}

// CoerceID converts a heterogeneously typed id (JSON number, numeric string,
// integer) into an int64.
func CoerceID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		return int64(t), nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid id %q", t)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("invalid id type %T", v)
	}
}

// NormalizeReference coerces a weak reference value to a nullable id. Zero,
// empty, and non-numeric input all collapse to "no reference". Every write
// path (create, update, import) goes through this one helper so the coercion
// cannot drift between them again.
func NormalizeReference(v interface{}) *int64 {
	var id int64
	switch t := v.(type) {
	case nil:
		return nil
	case int64:
		id = t
	case int:
		id = int64(t)
	case float64:
		id = int64(t)
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return nil
		}
		id = parsed
	default:
		return nil
	}
	if id == 0 {
		return nil
	}
	return &id
}

package wizard

import (
	"fmt"
	"strconv"
)

// Values are the fields collected by a wizard. After a round trip through a shared
// repository numbers come back as float64, so reads go through the typed accessors.
type Values map[string]any

// Clone returns a shallow copy
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge copies other into v and returns v
func (v Values) Merge(other Values) Values {
	for k, val := range other {
		v[k] = val
	}
	return v
}

func (v Values) Has(key string) bool {
	_, ok := v[key]
	return ok
}

func (v Values) String(key string) string {
	switch s := v[key].(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(s)
	}
}

func (v Values) Int64(key string) int64 {
	switch n := v[key].(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	default:
		return 0
	}
}

func (v Values) Int(key string) int {
	return int(v.Int64(key))
}

func (v Values) Uint(key string) uint {
	n := v.Int64(key)
	if n < 0 {
		return 0
	}
	return uint(n)
}

func (v Values) Bool(key string) bool {
	switch b := v[key].(type) {
	case bool:
		return b
	case string:
		parsed, _ := strconv.ParseBool(b)
		return parsed
	default:
		return v.Int64(key) != 0
	}
}

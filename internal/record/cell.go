package record

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Cell renders a value for display in a table cell.
func Cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	case json.RawMessage:
		return string(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return FormatFloat(x)
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat renders a float with at most two decimals and no trailing zeros.
func FormatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

// Number returns v as a float64 when it is numeric. Booleans count as 0/1 so
// checkbox fields can be averaged.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	}
	return 0, false
}

// Env returns the record as an expression environment. Numbers become int
// when integral and float64 otherwise; nested values are decoded.
func (r Record) Env() map[string]any {
	env := make(map[string]any, len(r))
	for _, f := range r {
		switch x := f.Value.(type) {
		case json.Number:
			if i, err := x.Int64(); err == nil {
				env[f.Name] = int(i)
			} else if fl, err := x.Float64(); err == nil {
				env[f.Name] = fl
			}
		case json.RawMessage:
			var v any
			if err := json.Unmarshal(x, &v); err == nil {
				env[f.Name] = v
			}
		default:
			env[f.Name] = x
		}
	}
	return env
}

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "txguard/pkg/domain-errors"
)

// Record is a raw domain action as submitted by a caller. Unrecognized keys
// are ignored; readers fall back to documented defaults for absent keys.
type Record map[string]any

// ParseRecord decodes a JSON object into a Record. Numbers are kept as
// json.Number so amounts keep their precision.
func ParseRecord(data []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "record must be a JSON object")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, dErrors.New(dErrors.CodeBadRequest, "record must contain a single JSON object")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, dErrors.New(dErrors.CodeBadRequest, "record must be a JSON object")
	}
	return Record(obj), nil
}

func malformed(key, want string) error {
	return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be %s", key, want))
}

// String reads a scalar as a string. Numbers are formatted without exponent.
// Absent or null yields "".
func (r Record) String(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	s, ok := scalarString(r[key])
	if !ok {
		return "", malformed(key, "a string")
	}
	return s, nil
}

// Strings reads a sequence of scalars. Absent or null yields an empty, non-nil slice.
func (r Record) Strings(key string) ([]string, error) {
	if key == "" {
		return []string{}, nil
	}
	switch v := r[key].(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				return nil, malformed(key, "a list of strings")
			}
			s, ok := scalarString(item)
			if !ok {
				return nil, malformed(key, "a list of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, malformed(key, "a list of strings")
	}
}

// Timestamps reads a sequence of unix-second timestamps. Elements may be
// numbers, numeric strings, or RFC 3339 strings. Fractional seconds are
// truncated toward zero.
func (r Record) Timestamps(key string) ([]int64, error) {
	if key == "" {
		return []int64{}, nil
	}
	switch v := r[key].(type) {
	case nil:
		return []int64{}, nil
	case []int64:
		return append([]int64{}, v...), nil
	case []any:
		out := make([]int64, 0, len(v))
		for _, item := range v {
			ts, ok := timestamp(item)
			if !ok {
				return nil, malformed(key, "a list of unix or RFC 3339 timestamps")
			}
			out = append(out, ts)
		}
		return out, nil
	default:
		return nil, malformed(key, "a list of unix or RFC 3339 timestamps")
	}
}

// Count reads a non-negative integer. Absent or null yields 0.
func (r Record) Count(key string) (int, error) {
	if key == "" || r[key] == nil {
		return 0, nil
	}
	n, ok := integer(r[key])
	if !ok || n < 0 || n > math.MaxInt32 {
		return 0, malformed(key, "a non-negative integer")
	}
	return int(n), nil
}

// Amount reads a decimal amount. Absent, null, or blank yields nil.
func (r Record) Amount(key string) (*decimal.Decimal, error) {
	if key == "" {
		return nil, nil
	}
	var (
		d   decimal.Decimal
		err error
	)
	switch v := r[key].(type) {
	case nil:
		return nil, nil
	case json.Number:
		d, err = decimal.NewFromString(v.String())
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		d, err = decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		d = decimal.NewFromFloat(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	default:
		return nil, malformed(key, "a decimal amount")
	}
	if err != nil {
		return nil, malformed(key, "a decimal amount")
	}
	return &d, nil
}

// Flag reads a boolean. Strings accepted by strconv.ParseBool are honoured
// and numbers are true when non-zero. Absent or null yields false.
func (r Record) Flag(key string) (bool, error) {
	if key == "" {
		return false, nil
	}
	switch v := r[key].(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, malformed(key, "a boolean")
		}
		return b, nil
	case json.Number, float64, int, int64:
		f, ok := number(v)
		if !ok {
			return false, malformed(key, "a boolean")
		}
		return f != 0, nil
	default:
		return false, malformed(key, "a boolean")
	}
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}

func integer(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t != math.Trunc(t) || !fitsInt64(t) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return integer(f)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// minInt64Float and maxInt64Float bound the float64 values that convert to
// int64 without overflow. maxInt64Float is 2^63 itself and is excluded.
const (
	minInt64Float = -9.223372036854775808e18
	maxInt64Float = 9.223372036854775808e18
)

// fitsInt64 is false for NaN and infinities as well.
func fitsInt64(f float64) bool {
	return f >= minInt64Float && f < maxInt64Float
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func timestamp(v any) (int64, bool) {
	switch t := v.(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return truncate(f)
	case float64:
		return truncate(t)
	case string:
		s := strings.TrimSpace(t)
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f)
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, false
		}
		return parsed.Unix(), true
	default:
		return 0, false
	}
}

func truncate(f float64) (int64, bool) {
	if !fitsInt64(f) {
		return 0, false
	}
	return int64(math.Trunc(f)), true
}

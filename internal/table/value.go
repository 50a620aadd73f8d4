package table

// value.go normalizes the heterogeneous values found in records.
//
// Records come from mock data, JSON payloads and database rows, so a single
// column may hold ints, floats, numeric strings with currency symbols, dates
// as time.Time or as text, slices of tags, or nothing at all. Every filter and
// comparison goes through these helpers so that no type mismatch can panic.

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Record is one table row: an opaque field-value mapping with no fixed schema.
type Record map[string]any

// numericRegex validates that a string is a plain number after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// dateLayouts are the text date formats recognized as date-like. Only
// four-digit-year layouts are accepted, and the compact 20060102 form is left
// out so that plain integers never parse as dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// deref follows pointers until it reaches a non-pointer value.
// A nil pointer yields nil.
func deref(v any) any {
	for v != nil {
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
	return nil
}

// IsNull reports whether v counts as a missing value: nil, a nil pointer, or NaN.
func IsNull(v any) bool {
	v = deref(v)
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}

// Stringify returns the canonical string form of a value, used for search,
// text filters and the final fallback comparison.
func Stringify(v any) string {
	if IsNull(v) {
		return ""
	}
	v = deref(v)

	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case json.Number:
		return x.String()
	case time.Time:
		if x.IsZero() {
			return ""
		}
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format(time.RFC3339)
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Stringify(e)
		}
		return strings.Join(parts, ", ")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// nativeNumber returns v as float64 when it is a Go numeric kind or a
// json.Number. Strings are not considered numeric here.
func nativeNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

// ToNumber converts a value to float64.
//
// Native numeric kinds convert directly. Strings are cleaned first: currency
// symbols and thousands separators are removed and the accounting form
// "(123.45)" is read as negative. Null values and anything unparseable
// report false.
func ToNumber(v any) (float64, bool) {
	if IsNull(v) {
		return 0, false
	}
	v = deref(v)
	if f, ok := nativeNumber(v); ok {
		return f, true
	}
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	return parseNumeric(s)
}

// parseNumeric applies the currency and separator cleanup rules to s.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		f = -f
	}
	return f, true
}

// ToTime converts a value to a time.Time. time.Time values pass through;
// strings are parsed against the recognized date layouts.
func ToTime(v any) (time.Time, bool) {
	if IsNull(v) {
		return time.Time{}, false
	}
	switch x := deref(v).(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		return parseDate(x)
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Package validation provides composable predicate-based input validators.
// Validators never abort early: callers collect every result and hand the
// batch to Validate so a response reports all invalid fields at once.
package validation

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"

	"pagesnap/internal/apperror"
)

// Validator inspects a single value and returns nil when it is valid,
// or a field error naming the offending input.
type Validator func(value any, field string) *apperror.FieldError

// New builds a validator from a predicate and a fixed message suffix.
// The error message interpolates the offending value before the suffix.
func New(pred func(any) bool, suffix string) Validator {
	return func(value any, field string) *apperror.FieldError {
		if pred(value) {
			return nil
		}
		return &apperror.FieldError{
			Field:   field,
			Message: fmt.Sprintf("%v %s", value, suffix),
		}
	}
}

// Validate filters nil results and, when any field errors remain, returns
// a single InvalidInput error carrying the full list in input order.
func Validate(results []*apperror.FieldError) error {
	var fields []apperror.FieldError
	for _, r := range results {
		if r != nil {
			fields = append(fields, *r)
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return apperror.InvalidInput(fields)
}

// IsURL reports whether v parses as an absolute URL with scheme and host.
func IsURL(v any) bool {
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// URL validates that the value is constructible as a URL.
var URL = New(IsURL, "is not a valid URL")

var uuidPattern = regexp.MustCompile(
	`^([0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}` +
		`|\{[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\})$`)

// IsUUID reports whether v is a canonical 8-4-4-4-12 hex UUID,
// case-insensitive, with optional enclosing braces.
func IsUUID(v any) bool {
	return uuidPattern.MatchString(fmt.Sprintf("%v", v))
}

// UUID validates canonical UUID form.
var UUID = New(IsUUID, "is not a valid UUID")

var datePattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[012])-(0[1-9]|[12][0-9]|3[01])$`)

func leapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// IsDate reports whether v matches YYYY-MM-DD and names a real calendar
// day: February is capped at 28/29 depending on the leap rule, and
// April/June/September/November at 30.
func IsDate(v any) bool {
	s := fmt.Sprintf("%v", v)
	if !datePattern.MatchString(s) {
		return false
	}

	year, _ := strconv.Atoi(s[0:4])
	month, _ := strconv.Atoi(s[5:7])
	day, _ := strconv.Atoi(s[8:10])

	switch month {
	case 2:
		if leapYear(year) {
			return day <= 29
		}
		return day <= 28
	case 4, 6, 9, 11:
		return day <= 30
	}
	return true
}

// Date validates calendar dates in YYYY-MM-DD form.
var Date = New(IsDate, "is not a valid Date")

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case float32:
		if float64(n) != math.Trunc(float64(n)) {
			return 0, false
		}
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// IsNumber reports whether v coerces to an integer.
func IsNumber(v any) bool {
	_, ok := toInt64(v)
	return ok
}

// Number validates integer-coercible values.
var Number = New(IsNumber, "is not a Number")

// Bounds configures InRange. Nil bounds fall back to 0 and the maximum
// safe integer respectively.
type Bounds struct {
	Min *int64
	Max *int64
}

// InRange builds a validator checking that a numeric value lies within
// the inclusive [min, max] range. The message names only the lower bound
// when no upper bound was supplied.
func InRange(bounds Bounds) Validator {
	min := int64(0)
	if bounds.Min != nil {
		min = *bounds.Min
	}
	max := int64(math.MaxInt64)
	if bounds.Max != nil {
		max = *bounds.Max
	}

	suffix := fmt.Sprintf("should be between %d and %d", min, max)
	if bounds.Max == nil {
		suffix = fmt.Sprintf("should be greater than or equal to %d", min)
	}

	return New(func(v any) bool {
		n, ok := toInt64(v)
		return ok && n >= min && n <= max
	}, suffix)
}

// IsNull reports whether v is the null sentinel. Absent ("undefined")
// inputs are a separate non-failing state decided by the caller before
// invoking any validator.
func IsNull(v any) bool {
	return v == nil
}

// NotNull validates that the value is not null.
var NotNull = New(func(v any) bool { return !IsNull(v) }, "should not be null")

// IsEmpty reports whether a string, slice, or map has no
// characters, elements, or keys.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return len(val) == 0
	case []any:
		return len(val) == 0
	case []string:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}

// NotEmpty validates that a string, array, or object has at least one
// element, character, or key.
var NotEmpty = New(func(v any) bool { return !IsEmpty(v) }, "should not be empty")

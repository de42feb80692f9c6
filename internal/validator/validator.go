// Package validator checks mail request input before it reaches the store.
package validator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validation errors
var (
	ErrMissingSubject = errors.New("subject is required")
	ErrMissingBody    = errors.New("body is required")
	ErrInvalidID      = errors.New("id must be a positive integer")
)

// ValidateMail checks that both fields are present and non-empty.
// Whitespace counts as content; values are stored as sent.
func ValidateMail(subject, body *string) error {
	if subject == nil || *subject == "" {
		return ErrMissingSubject
	}
	if body == nil || *body == "" {
		return ErrMissingBody
	}
	return nil
}

// ParseID extracts the record identifier from the last segment of path.
// The segment is coerced like a lenient integer cast: leading whitespace is
// skipped, the longest leading numeric string is read (sign, digits, fraction
// and exponent), fractions are truncated, text without a leading number
// yields 0 and out-of-range values saturate.
func ParseID(path string) int64 {
	path = strings.Trim(path, "/")
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		path = path[i+1:]
	}
	return coerceInt(path)
}

// ValidateID rejects non-positive identifiers
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}

func coerceInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	num := s[:numericPrefix(s)]

	if strings.ContainsAny(num, ".eE") {
		// ErrRange comes back with ±Inf, which saturates below
		f, _ := strconv.ParseFloat(num, 64)
		return truncate(f)
	}

	negative := false
	if num != "" && (num[0] == '+' || num[0] == '-') {
		negative = num[0] == '-'
		num = num[1:]
	}

	var n int64
	for i := 0; i < len(num); i++ {
		d := int64(num[i] - '0')
		if n > (math.MaxInt64-d)/10 {
			if negative {
				return math.MinInt64
			}
			return math.MaxInt64
		}
		n = n*10 + d
	}

	if negative {
		return -n
	}
	return n
}

// numericPrefix returns the length of the leading number in s, or 0
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if digits > 0 || j > i+1 {
			digits += j - i - 1
			i = j
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func truncate(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

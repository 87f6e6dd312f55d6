package options

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"

	"github.com/ajitpratap0/tablefactory/pkg/errors"
)

// maxBareMillis is the largest bare millisecond count that fits a time.Duration.
const maxBareMillis = math.MaxInt64 / int64(time.Millisecond)

// parse converts a raw catalog string into the key's typed value.
func parse(key Key, raw string) (interface{}, error) {
	value := strings.TrimSpace(raw)

	var (
		parsed interface{}
		err    error
	)
	switch key.typ {
	case TypeBoolean:
		parsed, err = cast.ToBoolE(value)
	case TypeString:
		parsed = raw
	case TypeInteger:
		parsed, err = parseInt(value)
	case TypeDuration:
		parsed, err = parseDuration(value)
	case TypeEnum:
		if !contains(key.enumValues, value) {
			err = fmt.Errorf("expected one of [%s]", strings.Join(key.enumValues, ", "))
		}
		parsed = value
	default:
		return nil, errors.Newf(errors.ErrorTypeInternal, "option '%s' has unsupported type %s", key.name, key.typ)
	}

	if err != nil || (key.typ != TypeString && value == "") {
		return nil, errors.InvalidOptionValue(key.name, raw, key.TypeName(), err)
	}
	return parsed, nil
}

// parseInt reads a decimal literal or a 0x, 0o or 0b prefixed one. Decimal
// literals with leading zeros are rejected.
func parseInt(value string) (int64, error) {
	sign, digits := "", value
	if strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+") {
		sign, digits = digits[:1], digits[1:]
	}

	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
			if strings.ContainsAny(digits[:1], "+-") {
				return 0, fmt.Errorf("misplaced sign in %q", value)
			}
		}
	}
	if base == 10 && len(digits) > 1 && digits[0] == '0' {
		return 0, fmt.Errorf("leading zeros are not allowed in %q", value)
	}
	return strconv.ParseInt(sign+digits, base, 64)
}

// parseDuration reads Go duration syntax; a bare integer is milliseconds.
func parseDuration(value string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(value, 10, 64); err == nil {
		if ms > maxBareMillis || ms < -maxBareMillis {
			return 0, fmt.Errorf("%d milliseconds overflows a duration", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	if !hasUnit(value) {
		return 0, fmt.Errorf("duration %q has no unit", value)
	}
	return cast.ToDurationE(value)
}

func hasUnit(value string) bool {
	return strings.ContainsAny(value, "nsuµmh")
}

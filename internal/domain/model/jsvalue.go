package model

import (
	"math"
	"strconv"
	"strings"
)

// Values decoded from backend JSON arrive as any (nil, bool, float64,
// string, []any, map[string]any). The helpers below coerce them the way the
// dashboard page does when it tests or prints a field.

func nan() float64 { return math.NaN() }

// Truthy reports whether v counts as true in a condition: null, false, 0,
// NaN and "" are false; everything else, including empty objects and
// arrays, is true.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0 && !math.IsNaN(x)
	case string:
		return x != ""
	default:
		return true
	}
}

// ToNumber converts v in a numeric context.
func ToNumber(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case bool:
		if x {
			return 1
		}
		return 0
	case float64:
		return x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nan()
		}
		return f
	case []any:
		switch len(x) {
		case 0:
			return 0
		case 1:
			return ToNumber(x[0])
		}
		return nan()
	default:
		return nan()
	}
}

// ToString converts v the way string interpolation does.
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return NumberString(x)
	case string:
		return x
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue
			}
			parts[i] = ToString(e)
		}
		return strings.Join(parts, ",")
	default:
		return "[object Object]"
	}
}

// NumberString formats f with the shortest representation that round-trips,
// spelling non-finite values as the page would.
func NumberString(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go writes e+21 / e-07; the page writes e+21 / e-7.
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		exp = strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + exp
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Package numeric is the single choke point for coercing raw driver values of
// unpredictable shape (strings, nulls, big-number wrappers) into plain
// float64s. Every formula downstream assumes coercion cannot fail loudly: a
// malformed value degrades one figure to its fallback instead of aborting the
// whole dashboard computation.
package numeric

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ToFloat converts v to a float64, returning fallback for anything that is
// not a finite number. It never panics.
func ToFloat(v interface{}, fallback float64) float64 {
	f, ok := tryFloat(v, 0)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

// ToFixed renders v rounded to digits decimal places, or fallback when v does
// not coerce to a finite number.
func ToFixed(v interface{}, digits int, fallback string) string {
	f, ok := tryFloat(v, 0)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return strconv.FormatFloat(f, 'f', digits, 64)
}

// maxUnwrapDepth bounds recursion through nested value wrappers so a wrapper
// returning itself cannot blow the stack.
const maxUnwrapDepth = 4

func tryFloat(v interface{}, depth int) (float64, bool) {
	if depth > maxUnwrapDepth {
		return 0, false
	}
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
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
	case string:
		return parseFloat(x)
	case []byte:
		return parseFloat(string(x))
	case json.Number:
		return parseFloat(x.String())
	case sql.NullFloat64:
		if !x.Valid {
			return 0, false
		}
		return x.Float64, true
	case sql.NullInt64:
		if !x.Valid {
			return 0, false
		}
		return float64(x.Int64), true
	case sql.NullString:
		if !x.Valid {
			return 0, false
		}
		return parseFloat(x.String)
	case *big.Int:
		if x == nil {
			return 0, false
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return f, true
	case *big.Float:
		if x == nil {
			return 0, false
		}
		f, _ := x.Float64()
		return f, true
	case *big.Rat:
		if x == nil {
			return 0, false
		}
		f, _ := x.Float64()
		return f, true
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, true
	case *int64:
		if x == nil {
			return 0, false
		}
		return float64(*x), true
	}

	// Snowflake NUMBER columns and similar wrappers surface as driver.Valuer;
	// unwrap and retry on the inner value.
	if valuer, ok := v.(driver.Valuer); ok {
		inner, err := safeValue(valuer)
		if err != nil {
			return 0, false
		}
		return tryFloat(inner, depth+1)
	}

	if s, ok := v.(fmt.Stringer); ok {
		return parseFloat(stringerText(s))
	}
	return 0, false
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// safeValue calls Value() without letting a misbehaving wrapper panic through
// the coercion boundary.
func safeValue(v driver.Valuer) (out driver.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("valuer panic: %v", r)
		}
	}()
	return v.Value()
}

func stringerText(s fmt.Stringer) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
		}
	}()
	return s.String()
}

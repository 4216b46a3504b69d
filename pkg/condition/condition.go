// Package condition evaluates edge conditions against respondent answers.
//
// Evaluation never returns an error and never panics: a condition that cannot
// be interpreted simply does not hold. Routing availability beats strictness
// here; a publish-time validator owns rejecting nonsense conditions.
package condition

import (
	"math"
	"strconv"
	"strings"

	"github.com/formlane/formlane/pkg/model/mflow"
)

// Evaluate reports whether the condition holds for the given answer. A slice
// Value means OR: the condition holds if it holds for any element.
func Evaluate(c mflow.Condition, answer mflow.Answer) bool {
	switch vs := c.Value.(type) {
	case []any:
		for _, v := range vs {
			sub := c
			sub.Value = v
			if Evaluate(sub, answer) {
				return true
			}
		}
		return false
	case []string:
		for _, v := range vs {
			sub := c
			sub.Value = v
			if Evaluate(sub, answer) {
				return true
			}
		}
		return false
	}

	switch c.Kind {
	case mflow.ConditionEquals:
		return equals(c.Value, answer)
	case mflow.ConditionNotEquals:
		return !equals(c.Value, answer)
	case mflow.ConditionContains:
		return strings.Contains(
			strings.ToLower(CoerceString(answer)),
			strings.ToLower(CoerceString(c.Value)),
		)
	case mflow.ConditionGreaterThan:
		a, v := coerceNumber(answer), coerceNumber(c.Value)
		return !math.IsNaN(a) && !math.IsNaN(v) && a > v
	case mflow.ConditionLessThan:
		a, v := coerceNumber(answer), coerceNumber(c.Value)
		return !math.IsNaN(a) && !math.IsNaN(v) && a < v
	case mflow.ConditionExpression:
		return evalExpression(c.Value, answer)
	}
	return false
}

// equals applies membership semantics for multi-select answers and plain
// string equality for scalars.
func equals(value, answer any) bool {
	want := CoerceString(value)
	switch a := answer.(type) {
	case []string:
		for _, item := range a {
			if item == want {
				return true
			}
		}
		return false
	case []any:
		for _, item := range a {
			if CoerceString(item) == want {
				return true
			}
		}
		return false
	default:
		return CoerceString(answer) == want
	}
}

// CoerceString mirrors the comparison-string coercion used across the editor
// and the respondent runtime: slices join with ",", numbers drop trailing
// zeros.
func CoerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = CoerceString(item)
		}
		return strings.Join(parts, ",")
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}

// coerceNumber parses v as a number, NaN when it is not one.
func coerceNumber(v any) float64 {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case float32:
		return float64(t)
	case float64:
		return t
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	}
	return math.NaN()
}

package condition

import (
	"testing"

	"github.com/formlane/formlane/pkg/model/mflow"
)

func cond(kind mflow.ConditionKind, value any) mflow.Condition {
	return mflow.Condition{Kind: kind, Value: value}
}

func TestEvaluateTruthTable(t *testing.T) {
	tests := []struct {
		name   string
		cond   mflow.Condition
		answer mflow.Answer
		want   bool
	}{
		{"equals scalar match", cond(mflow.ConditionEquals, "A"), "A", true},
		{"equals scalar mismatch", cond(mflow.ConditionEquals, "A"), "B", false},
		{"equals number coerced", cond(mflow.ConditionEquals, "5"), float64(5), true},
		{"equals array answer membership", cond(mflow.ConditionEquals, "a"), []string{"a", "b"}, true},
		{"equals array answer no member", cond(mflow.ConditionEquals, "c"), []string{"a", "b"}, false},
		{"not_equals scalar", cond(mflow.ConditionNotEquals, "A"), "B", true},
		{"not_equals array answer member", cond(mflow.ConditionNotEquals, "a"), []string{"a", "b"}, false},
		{"contains substring", cond(mflow.ConditionContains, "ell"), "Hello", true},
		{"contains case insensitive", cond(mflow.ConditionContains, "HELLO"), "oh hello there", true},
		{"contains joined array answer", cond(mflow.ConditionContains, "a,b"), []string{"a", "b"}, true},
		{"contains miss", cond(mflow.ConditionContains, "xyz"), "Hello", false},
		{"greater_than true", cond(mflow.ConditionGreaterThan, "3"), float64(5), true},
		{"greater_than equal is false", cond(mflow.ConditionGreaterThan, "5"), float64(5), false},
		{"greater_than non-numeric answer", cond(mflow.ConditionGreaterThan, "3"), "abc", false},
		{"greater_than non-numeric value", cond(mflow.ConditionGreaterThan, "abc"), float64(5), false},
		{"less_than true", cond(mflow.ConditionLessThan, 10), float64(5), true},
		{"less_than string numbers", cond(mflow.ConditionLessThan, "10"), "5", true},
		{"or over value array", cond(mflow.ConditionEquals, []any{"A", "B"}), "B", true},
		{"or over value array miss", cond(mflow.ConditionEquals, []any{"A", "B"}), "C", false},
		{"or over string slice", cond(mflow.ConditionEquals, []string{"yes", "y"}), "y", true},
		{"unknown kind", cond("between", "A"), "A", false},
		{"nil value equals empty answer", cond(mflow.ConditionEquals, nil), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(tt.cond, tt.answer); got != tt.want {
				t.Errorf("Evaluate(%+v, %v) = %v, want %v", tt.cond, tt.answer, got, tt.want)
			}
		})
	}
}

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		name   string
		src    any
		answer mflow.Answer
		want   bool
	}{
		{"numeric comparison", `answer > 3`, float64(5), true},
		{"numeric comparison false", `answer > 3`, float64(2), false},
		{"string function", `answer startsWith "Ye"`, "Yes", true},
		{"membership", `"b" in answer`, []string{"a", "b"}, true},
		{"compile error degrades to false", `answer >`, float64(5), false},
		{"runtime error degrades to false", `answer.missing > 1`, "nope", false},
		{"non-string source", 42, "x", false},
		{"empty source", "  ", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cond(mflow.ConditionExpression, tt.src)
			if got := Evaluate(c, tt.answer); got != tt.want {
				t.Errorf("Evaluate(%v, %v) = %v, want %v", tt.src, tt.answer, got, tt.want)
			}
		})
	}
}

func TestEvaluateIsDeterministic(t *testing.T) {
	c := cond(mflow.ConditionEquals, []any{"A", "B"})
	first := Evaluate(c, "B")
	for i := 0; i < 100; i++ {
		if Evaluate(c, "B") != first {
			t.Fatal("evaluation flapped between calls")
		}
	}
}

func TestCoerceString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]string{"a", "b"}, "a,b"},
		{[]any{"a", float64(2)}, "a,2"},
		{float64(3), "3"},
		{float64(3.5), "3.5"},
		{int(7), "7"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := CoerceString(tt.in); got != tt.want {
			t.Errorf("CoerceString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

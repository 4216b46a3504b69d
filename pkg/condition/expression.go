package condition

import (
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// programCache holds compiled expressions keyed by source. Conditions are
// re-evaluated on every traversal step, compiling once per distinct source
// keeps preview responsive on large flows.
var programCache sync.Map // map[string]*vm.Program

// evalExpression evaluates an expression condition. The answer is exposed to
// the expression as "answer". Compile and runtime errors both degrade to
// false.
func evalExpression(value any, answer any) bool {
	src, ok := value.(string)
	if !ok {
		return false
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}

	var program *vm.Program
	if cached, found := programCache.Load(src); found {
		program = cached.(*vm.Program)
	} else {
		compiled, err := expr.Compile(src, expr.AsBool(), expr.AllowUndefinedVariables())
		if err != nil {
			return false
		}
		programCache.Store(src, compiled)
		program = compiled
	}

	out, err := expr.Run(program, map[string]any{"answer": answer})
	if err != nil {
		return false
	}
	result, ok := out.(bool)
	return ok && result
}

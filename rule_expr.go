package settings

import (
	"fmt"
	"time"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprRuleOption configures an expr-lang rule hook.
type ExprRuleOption func(*exprRule)

// ExprWithFunctions exposes the registry's functions to the rule. Each
// function is callable by name and through call("name", args...).
func ExprWithFunctions(registry *FunctionRegistry) ExprRuleOption {
	return func(r *exprRule) {
		if registry == nil {
			return
		}
		r.registry = registry.Clone()
	}
}

// exprRule executes rule expressions using github.com/expr-lang/expr. The
// rule environment exposes value, name, now, and any registry functions.
type exprRule struct {
	registry *FunctionRegistry
	rule     string
	program  *exprvm.Program
}

// ExprValidator compiles rule into a Leaf validate hook. The rule's verdict
// is interpreted per the shared verdict convention; compilation failures
// surface at construction as a RuleError.
func ExprValidator(rule string, opts ...ExprRuleOption) (func(any) (*Violation, error), error) {
	compiled, err := compileExprRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Violation, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return violationFromVerdict(verdict, "expr", rule)
	}, nil
}

// ExprFixup compiles rule into a Leaf fixup hook. A verdict equal to the
// input means the value is in convention; anything else becomes a Correction.
func ExprFixup(rule string, opts ...ExprRuleOption) (func(any) (*Correction, error), error) {
	compiled, err := compileExprRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Correction, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return correctionFromVerdict(verdict, value, "expr", rule)
	}, nil
}

func compileExprRule(rule string, opts []ExprRuleOption) (*exprRule, error) {
	if rule == "" {
		return nil, wrapRuleError("expr", rule, fmt.Errorf("rule must not be empty"))
	}
	r := &exprRule{rule: rule}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	if r.registry != nil {
		for _, name := range r.registry.Names() {
			fn := name
			options = append(options, exprlang.Function(fn, func(arguments ...any) (any, error) {
				return r.registry.Call(fn, arguments...)
			}))
		}
	}
	program, err := exprlang.Compile(rule, options...)
	if err != nil {
		return nil, wrapRuleError("expr", rule, err)
	}
	r.program = program
	return r, nil
}

func (r *exprRule) run(value any) (any, error) {
	verdict, err := exprlang.Run(r.program, r.environment(value))
	if err != nil {
		return nil, wrapRuleError("expr", r.rule, err)
	}
	return verdict, nil
}

func (r *exprRule) environment(value any) map[string]any {
	env := map[string]any{
		"value": value,
		"now":   time.Now(),
	}
	if r.registry != nil {
		env["call"] = func(name string, arguments ...any) (any, error) {
			return r.registry.Call(name, arguments...)
		}
		for _, name := range r.registry.Names() {
			fn := name
			env[fn] = func(arguments ...any) (any, error) {
				return r.registry.Call(fn, arguments...)
			}
		}
	}
	return env
}

//go:build js_eval

package settings

import (
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// jsRule executes rule expressions using goja. Each invocation runs in a
// fresh runtime so rules cannot leak state between values.
type jsRule struct {
	registry *FunctionRegistry
	rule     string
	program  *goja.Program
}

// JSValidator compiles rule into a Leaf validate hook backed by goja. The
// verdict convention matches the expr engine, so rules stay portable.
func JSValidator(rule string, opts ...JSRuleOption) (func(any) (*Violation, error), error) {
	compiled, err := compileJSRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Violation, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return violationFromVerdict(verdict, "js", rule)
	}, nil
}

// JSFixup compiles rule into a Leaf fixup hook backed by goja.
func JSFixup(rule string, opts ...JSRuleOption) (func(any) (*Correction, error), error) {
	compiled, err := compileJSRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Correction, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return correctionFromVerdict(verdict, value, "js", rule)
	}, nil
}

func compileJSRule(rule string, opts []JSRuleOption) (*jsRule, error) {
	if rule == "" {
		return nil, wrapRuleError("js", rule, fmt.Errorf("rule must not be empty"))
	}
	cfg := applyJSRuleOptions(opts)
	program, err := goja.Compile("", wrapJSRule(rule), false)
	if err != nil {
		return nil, wrapRuleError("js", rule, err)
	}
	return &jsRule{
		registry: cfg.registry,
		rule:     rule,
		program:  program,
	}, nil
}

func (r *jsRule) run(value any) (any, error) {
	vm := goja.New()
	vm.Set("value", value)
	vm.Set("now", time.Now())
	if r.registry != nil {
		vm.Set("call", func(name string, arguments ...any) (any, error) {
			return r.registry.Call(name, arguments...)
		})
		for _, name := range r.registry.Names() {
			fn := name
			vm.Set(fn, func(arguments ...any) (any, error) {
				return r.registry.Call(fn, arguments...)
			})
		}
	}
	out, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, wrapRuleError("js", r.rule, err)
	}
	return out.Export(), nil
}

func wrapJSRule(rule string) string {
	return fmt.Sprintf("(function(){ return (%s); })()", rule)
}

func jsRulesAvailable() bool {
	return true
}

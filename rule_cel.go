package settings

import (
	"fmt"
	"time"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// CELRuleOption configures a CEL rule hook.
type CELRuleOption func(*celRule)

// CELWithFunctions exposes the registry's functions to the rule through the
// call("name", args...) builtin.
func CELWithFunctions(registry *FunctionRegistry) CELRuleOption {
	return func(r *celRule) {
		if registry == nil {
			return
		}
		r.registry = registry.Clone()
	}
}

// celRule executes rule expressions using cel-go. The rule environment
// exposes value, now, and call when a registry is configured.
type celRule struct {
	registry *FunctionRegistry
	rule     string
	program  celgo.Program
}

// CELValidator compiles rule into a Leaf validate hook backed by cel-go. The
// verdict convention matches the expr engine, so rules stay portable.
func CELValidator(rule string, opts ...CELRuleOption) (func(any) (*Violation, error), error) {
	compiled, err := compileCELRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Violation, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return violationFromVerdict(verdict, "cel", rule)
	}, nil
}

// CELFixup compiles rule into a Leaf fixup hook backed by cel-go.
func CELFixup(rule string, opts ...CELRuleOption) (func(any) (*Correction, error), error) {
	compiled, err := compileCELRule(rule, opts)
	if err != nil {
		return nil, err
	}
	return func(value any) (*Correction, error) {
		verdict, err := compiled.run(value)
		if err != nil {
			return nil, err
		}
		return correctionFromVerdict(verdict, value, "cel", rule)
	}, nil
}

func compileCELRule(rule string, opts []CELRuleOption) (*celRule, error) {
	if rule == "" {
		return nil, wrapRuleError("cel", rule, fmt.Errorf("rule must not be empty"))
	}
	r := &celRule{rule: rule}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	envOpts := []celgo.EnvOption{
		celgo.Variable("value", celgo.DynType),
		celgo.Variable("now", celgo.TimestampType),
	}
	if r.registry != nil {
		binding := r.callBinding()
		envOpts = append(envOpts, celgo.Function("call", celgo.Overload(
			"call_dyn",
			[]*celgo.Type{celgo.StringType},
			celgo.DynType,
			celgo.FunctionBinding(func(values ...ref.Val) ref.Val {
				return binding(values)
			}),
		)))
	}
	env, err := celgo.NewEnv(envOpts...)
	if err != nil {
		return nil, wrapRuleError("cel", rule, err)
	}
	ast, issues := env.Parse(rule)
	if issues != nil && issues.Err() != nil {
		return nil, wrapRuleError("cel", rule, issues.Err())
	}
	checked, issues := env.Check(ast)
	if issues != nil && issues.Err() != nil {
		return nil, wrapRuleError("cel", rule, issues.Err())
	}
	program, err := env.Program(checked)
	if err != nil {
		return nil, wrapRuleError("cel", rule, err)
	}
	r.program = program
	return r, nil
}

func (r *celRule) run(value any) (any, error) {
	activation := map[string]any{
		"value": value,
		"now":   time.Now(),
	}
	out, _, err := r.program.Eval(activation)
	if err != nil {
		return nil, wrapRuleError("cel", r.rule, err)
	}
	return out.Value(), nil
}

func (r *celRule) callBinding() func([]ref.Val) ref.Val {
	return func(values []ref.Val) ref.Val {
		if r.registry == nil {
			return types.NewErr("settings: function registry not configured")
		}
		if len(values) == 0 {
			return types.NewErr("settings: call requires function name")
		}
		name, ok := values[0].Value().(string)
		if !ok {
			return types.NewErr("settings: call name must be string")
		}
		args := make([]any, 0, len(values)-1)
		for _, val := range values[1:] {
			args = append(args, val.Value())
		}
		result, err := r.registry.Call(name, args...)
		if err != nil {
			return types.NewErr("%s", err.Error())
		}
		if result == nil {
			return types.NullValue
		}
		return types.DefaultTypeAdapter.NativeToValue(result)
	}
}

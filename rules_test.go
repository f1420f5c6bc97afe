package settings

import (
	"errors"
	"strings"
	"testing"
)

func TestExprValidatorVerdicts(t *testing.T) {
	validate, err := ExprValidator("value < 10")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if violation, err := validate(5); err != nil || violation != nil {
		t.Fatalf("expected acceptance, got violation=%#v err=%v", violation, err)
	}

	violation, err := validate(42)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if violation == nil || len(violation.Messages) != 1 {
		t.Fatalf("expected a generated rejection message, got %#v", violation)
	}
	if !strings.Contains(violation.Messages[0], "expr") {
		t.Fatalf("expected the engine in the generated message, got %q", violation.Messages[0])
	}
}

func TestExprValidatorStringVerdict(t *testing.T) {
	validate, err := ExprValidator(`value > 100 ? "too large" : ""`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if violation, _ := validate(50); violation != nil {
		t.Fatalf("expected acceptance for an empty string verdict, got %#v", violation)
	}
	violation, _ := validate(500)
	if violation == nil || violation.Messages[0] != "too large" {
		t.Fatalf("expected the string verdict as message, got %#v", violation)
	}
}

func TestExprFixupVerdicts(t *testing.T) {
	fixup, err := ExprFixup("value < 0 ? 0 : value")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if correction, err := fixup(5); err != nil || correction != nil {
		t.Fatalf("expected no correction for an in-convention value, got %#v err=%v", correction, err)
	}

	correction, err := fixup(-3)
	if err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if correction == nil || correction.Value != 0 {
		t.Fatalf("expected a clamp to zero, got %#v", correction)
	}
	if len(correction.Messages) != 1 {
		t.Fatalf("expected a generated message, got %#v", correction)
	}
}

func TestExprFixupCorrectionObject(t *testing.T) {
	fixup, err := ExprFixup(`value < 0 ? {"value": 0, "messages": ["clamped to zero"]} : value`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	correction, err := fixup(-1)
	if err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if correction == nil || correction.Value != 0 {
		t.Fatalf("expected the explicit correction value, got %#v", correction)
	}
	if len(correction.Messages) != 1 || correction.Messages[0] != "clamped to zero" {
		t.Fatalf("expected the explicit message, got %#v", correction)
	}
}

func TestExprRuleUsesRegistryFunctions(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("isSlug", func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, errors.New("isSlug expects one argument")
		}
		s, _ := args[0].(string)
		return !strings.ContainsAny(s, " /"), nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	validate, err := ExprValidator(`isSlug(value) ? "" : "not a slug"`, ExprWithFunctions(registry))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if violation, _ := validate("my-project"); violation != nil {
		t.Fatalf("expected acceptance, got %#v", violation)
	}
	violation, _ := validate("my project")
	if violation == nil || violation.Messages[0] != "not a slug" {
		t.Fatalf("expected rejection, got %#v", violation)
	}
}

func TestExprRuleErrors(t *testing.T) {
	if _, err := ExprValidator(""); err == nil {
		t.Fatal("expected an error for an empty rule")
	}

	var ruleErr *RuleError
	_, err := ExprValidator("value <")
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleError for a bad rule, got %v", err)
	}
	if ruleErr.Engine != "expr" {
		t.Fatalf("expected the expr engine, got %q", ruleErr.Engine)
	}

	registry := NewFunctionRegistry()
	cause := errors.New("lookup failed")
	_ = registry.Register("lookup", func(...any) (any, error) {
		return nil, cause
	})
	validate, err := ExprValidator("lookup(value)", ExprWithFunctions(registry))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := validate("x"); !errors.As(err, &ruleErr) {
		t.Fatalf("expected a runtime RuleError, got %v", err)
	}
}

func TestCELValidator(t *testing.T) {
	validate, err := CELValidator("value < 10")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if violation, err := validate(int64(5)); err != nil || violation != nil {
		t.Fatalf("expected acceptance, got violation=%#v err=%v", violation, err)
	}
	violation, err := validate(int64(42))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if violation == nil {
		t.Fatal("expected a rejection")
	}
}

func TestCELFixup(t *testing.T) {
	fixup, err := CELFixup("value < 0 ? 0 : value")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	if correction, err := fixup(int64(5)); err != nil || correction != nil {
		t.Fatalf("expected no correction, got %#v err=%v", correction, err)
	}
	correction, err := fixup(int64(-3))
	if err != nil {
		t.Fatalf("fixup: %v", err)
	}
	if correction == nil || correction.Value != int64(0) {
		t.Fatalf("expected a clamp to zero, got %#v", correction)
	}
}

func TestCELRuleCompileError(t *testing.T) {
	var ruleErr *RuleError
	_, err := CELValidator("value <")
	if !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleError, got %v", err)
	}
	if ruleErr.Engine != "cel" {
		t.Fatalf("expected the cel engine, got %q", ruleErr.Engine)
	}
}

func TestJSRulesRequireBuildTag(t *testing.T) {
	if jsRulesAvailable() {
		t.Skip("js_eval build tag enabled")
	}
	var ruleErr *RuleError
	if _, err := JSValidator("value < 10"); !errors.As(err, &ruleErr) {
		t.Fatalf("expected RuleError from the stub, got %v", err)
	}
}

func TestRuleHooksWireIntoLeaves(t *testing.T) {
	validate, err := ExprValidator(`value in ["light", "dark"] ? "" : "unknown theme"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	m, err := New(Spec{
		"theme": Leaf{Initial: Static("light"), Validate: validate},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := m.Change(map[string]any{"theme": "dark"}); err != nil {
		t.Fatalf("change: %v", err)
	}

	err = m.Change(map[string]any{"theme": "sepia"})
	var violation *ViolationError
	if !errors.As(err, &violation) {
		t.Fatalf("expected ViolationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "unknown theme") {
		t.Fatalf("expected the rule message, got %q", err.Error())
	}
}

package settings

import (
	"errors"
	"fmt"
	"strings"
)

// UnknownSettingError reports a change or seed that names a setting absent
// from the spec. It aborts the whole call; earlier keys stay committed.
type UnknownSettingError struct {
	Name string
}

func (e *UnknownSettingError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: unknown setting %q", e.Name)
}

// NotANamespaceError reports an object value supplied for a setting that is
// not a namespace.
type NotANamespaceError struct {
	Name  string
	Value any
}

func (e *NotANamespaceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: %q is not a namespace, cannot accept %v", e.Name, e.Value)
}

// NotARecordError reports a record value that is not an object keyed by entry
// name.
type NotARecordError struct {
	Name  string
	Value any
}

func (e *NotARecordError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: record %q requires an object of entries, got %v", e.Name, e.Value)
}

// ShorthandUnsupportedError reports a non-object value supplied for a
// namespace that declares no shorthand.
type ShorthandUnsupportedError struct {
	Name  string
	Value any
}

func (e *ShorthandUnsupportedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: %q does not support shorthand values, got %v", e.Name, e.Value)
}

// ShorthandError wraps a failure raised by a namespace shorthand hook.
type ShorthandError struct {
	Name string
	Err  error
}

func (e *ShorthandError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: shorthand for %q failed: %v", e.Name, e.Err)
}

func (e *ShorthandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// InitializerError wraps a failure raised by an initializer hook, naming the
// offending setting.
type InitializerError struct {
	Name string
	Err  error
}

func (e *InitializerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: initializer for %q failed: %v", e.Name, e.Err)
}

func (e *InitializerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FixupError wraps a failure raised by a fixup hook.
type FixupError struct {
	Name  string
	Value any
	Err   error
}

func (e *FixupError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: fixup for %q failed on %v: %v", e.Name, e.Value, e.Err)
}

func (e *FixupError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FixupHandlerError wraps a failure raised by a caller-supplied fixup handler.
type FixupHandlerError struct {
	Name string
	Err  error
}

func (e *FixupHandlerError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: fixup handler for %q failed: %v", e.Name, e.Err)
}

func (e *FixupHandlerError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError wraps a failure raised by a validate hook itself, as opposed
// to a rejection verdict.
type ValidationError struct {
	Name  string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: validator for %q failed on %v: %v", e.Name, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ViolationError is the user-facing rejection of a value. Its message lists
// every violation, one per line, bullet-prefixed.
type ViolationError struct {
	Name     string
	Value    any
	Messages []string
}

func (e *ViolationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "settings: invalid value for %q:", e.Name)
	for _, message := range e.Messages {
		b.WriteString("\n- ")
		b.WriteString(message)
	}
	return b.String()
}

// MapperError wraps a failure raised by a type mapper hook.
type MapperError struct {
	Name string
	Err  error
}

func (e *MapperError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: mapper for %q failed: %v", e.Name, e.Err)
}

func (e *MapperError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SpecError reports a structural misconfiguration detected by Verify.
type SpecError struct {
	Name   string
	Reason string
}

func (e *SpecError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name == "" {
		return fmt.Sprintf("settings: invalid spec: %s", e.Reason)
	}
	return fmt.Sprintf("settings: invalid spec at %q: %s", e.Name, e.Reason)
}

// RuleError captures rule engine metadata alongside the originating error.
type RuleError struct {
	Engine string
	Rule   string
	Err    error
}

func (e *RuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("settings: %s rule %s: %v", e.Engine, describeRule(e.Rule), e.Err)
}

func (e *RuleError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeRule(rule string) string {
	if rule == "" {
		return "rule=<empty>"
	}
	return fmt.Sprintf("rule=%q", rule)
}

func wrapRuleError(engine, rule string, err error) error {
	if err == nil {
		return nil
	}

	var ruleErr *RuleError
	if errors.As(err, &ruleErr) {
		if ruleErr.Engine == "" {
			ruleErr.Engine = engine
		}
		if ruleErr.Rule == "" {
			ruleErr.Rule = rule
		}
		return ruleErr
	}

	return &RuleError{
		Engine: engine,
		Rule:   rule,
		Err:    err,
	}
}

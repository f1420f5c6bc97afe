//go:build !js_eval

package settings

import "errors"

var errJSRulesUnavailable = errors.New("javascript rules require the js_eval build tag")

// JSValidator is unavailable without the js_eval build tag.
func JSValidator(rule string, opts ...JSRuleOption) (func(any) (*Violation, error), error) {
	_ = applyJSRuleOptions(opts)
	return nil, wrapRuleError("js", rule, errJSRulesUnavailable)
}

// JSFixup is unavailable without the js_eval build tag.
func JSFixup(rule string, opts ...JSRuleOption) (func(any) (*Correction, error), error) {
	_ = applyJSRuleOptions(opts)
	return nil, wrapRuleError("js", rule, errJSRulesUnavailable)
}

func jsRulesAvailable() bool {
	return false
}

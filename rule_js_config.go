package settings

type jsRuleConfig struct {
	registry *FunctionRegistry
}

// JSRuleOption configures a JavaScript rule hook.
type JSRuleOption func(*jsRuleConfig)

// JSWithFunctions exposes the registry's functions to the rule. Each function
// is callable by name and through call("name", args...).
func JSWithFunctions(registry *FunctionRegistry) JSRuleOption {
	return func(cfg *jsRuleConfig) {
		if registry == nil {
			return
		}
		cfg.registry = registry.Clone()
	}
}

func applyJSRuleOptions(opts []JSRuleOption) jsRuleConfig {
	cfg := jsRuleConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

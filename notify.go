package settings

// Events delivered to the Notifier.
const (
	// EventFixupApplied fires once per auto-corrected value.
	EventFixupApplied = "invalid setting value auto-corrected"
	// EventActivityError reports an activity hook failure. Emission is
	// diagnostic; it never aborts the call that produced the event.
	EventActivityError = "settings activity emission failed"
)

// FixupInfo describes one auto-correction: the setting's dotted path, the
// value before and after, and the fixup's diagnostic messages.
type FixupInfo struct {
	Name     string
	Before   any
	After    any
	Messages []string
}

// FixupHandler intercepts fixup notifications. emit forwards info to the
// default notification path; a handler may decorate info and call emit, or
// swallow the notification entirely.
type FixupHandler func(info FixupInfo, emit func(FixupInfo)) error

// Notifier receives the engine's diagnostic events.
type Notifier interface {
	Notify(event string, context map[string]any)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(event string, context map[string]any)

// Notify implements Notifier.
func (fn NotifierFunc) Notify(event string, context map[string]any) {
	if fn != nil {
		fn(event, context)
	}
}

type noopNotifier struct{}

func (noopNotifier) Notify(string, map[string]any) {}

// WithNotifier attaches a notifier to the Manager.
func WithNotifier(notifier Notifier) Option {
	return func(cfg *managerConfig) {
		if notifier == nil {
			cfg.notifier = noopNotifier{}
			return
		}
		cfg.notifier = notifier
	}
}

// WithFixupHandler installs handler on the fixup notification path.
func WithFixupHandler(handler FixupHandler) Option {
	return func(cfg *managerConfig) {
		cfg.fixupHandler = handler
	}
}

package settings

import (
	"context"

	"github.com/goliatone/go-settings/pkg/activity"
)

// WithActivityHooks attaches activity hooks to the Manager configuration.
// Hooks are cloned and nil entries dropped to preserve immutability.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *managerConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped onto emitted events that
// do not carry one themselves. The default is "settings".
func WithActivityChannel(channel string) Option {
	return func(cfg *managerConfig) {
		cfg.activityChannel = channel
	}
}

// ActivityHooks returns a cloned slice of the activity hooks configured on
// the manager. The returned slice can be safely mutated by the caller.
func (m *Manager) ActivityHooks() activity.Hooks {
	if m == nil {
		return nil
	}
	return cloneActivityHooks(m.cfg.activityHooks)
}

// emitActivity routes the event through the configured emitter, which stamps
// the default channel before fanning out to hooks. Hook failures are
// reported through the notifier; they never abort the operation that
// produced the event.
func (cfg *managerConfig) emitActivity(event activity.Event) {
	if !cfg.emitter.Enabled() {
		return
	}
	if err := cfg.emitter.Emit(context.Background(), event); err != nil {
		cfg.notifierOrNoop().Notify(EventActivityError, map[string]any{
			"verb":  event.Verb,
			"error": err.Error(),
		})
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

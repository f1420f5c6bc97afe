package settings

import (
	"github.com/goliatone/go-settings/internal/hydrate"
	"github.com/goliatone/go-settings/pkg/activity"
)

// Manager owns a resolved settings tree: the current data, its provenance
// metadata, and the spec that shaped both. A Manager is not safe for
// concurrent use; callers serialize access themselves, and hooks must not
// call back into the same Manager.
type Manager struct {
	spec Spec
	data map[string]any
	meta map[string]Meta
	cfg  managerConfig
	res  resolver
}

// New verifies spec, runs initialization, and returns a Manager owning the
// resulting trees. Record seeds run the full commit pipeline during
// initialization, so a configured fixup handler can fire before New returns.
func New(spec Spec, opts ...Option) (*Manager, error) {
	if err := Verify(spec); err != nil {
		return nil, err
	}

	m := &Manager{
		spec: spec,
		cfg:  applyOptions(opts),
	}
	m.res = resolver{cfg: &m.cfg}

	data, meta, err := m.res.initialize(spec, "")
	if err != nil {
		return nil, err
	}
	m.data = data
	m.meta = meta
	return m, nil
}

// Change applies a partial update to the settings tree. Namespace values
// deep-merge (unnamed fields stay untouched), record values may introduce new
// entries, and every named leaf runs the commit pipeline with provenance
// flipped to set. A failure aborts the call; keys committed before the
// failure stay committed, with no rollback.
func (m *Manager) Change(input map[string]any) error {
	if len(input) == 0 {
		return nil
	}
	if err := m.res.resolve(m.spec, input, m.data, m.meta, "", OriginSet); err != nil {
		return err
	}
	m.cfg.emitActivity(activity.BuildSettingsChangedEvent(activity.SettingsEventInput{
		ObjectID: m.cfg.displayName(),
		Metadata: map[string]any{"keys": sortedKeys(input)},
	}))
	return nil
}

// ChangeJSON decodes a raw JSON payload into a change map and applies it.
// Numbers commit as int64 when integral and float64 otherwise.
func (m *Manager) ChangeJSON(payload []byte) error {
	decoder := hydrate.NewDecoder()
	input, err := decoder.Decode(hydrate.Context{Name: m.cfg.displayName()}, payload)
	if err != nil {
		return err
	}
	return m.Change(input)
}

// Reset re-runs initialization from scratch and replaces both trees
// wholesale. Volatile initializers are re-sampled, so the result may differ
// from the previous initial state. On failure the Manager keeps its current
// trees.
func (m *Manager) Reset() error {
	data, meta, err := m.res.initialize(m.spec, "")
	if err != nil {
		return err
	}
	m.data = data
	m.meta = meta
	m.cfg.emitActivity(activity.BuildSettingsResetEvent(activity.SettingsEventInput{
		ObjectID: m.cfg.displayName(),
	}))
	return nil
}

// Original projects the initial values out of the metadata tree into a fresh
// data tree. It never re-runs initializers and never aliases live state.
// Record entries created after initialization are absent.
func (m *Manager) Original() map[string]any {
	return originalTree(m.meta)
}

// Changeset projects the sparse tree of explicitly set values, including
// record entries created after initialization. Applying the result to a
// fresh Manager over the same spec reproduces the current data.
func (m *Manager) Changeset() map[string]any {
	return changesetTree(m.meta)
}

// Data returns the live data tree. Callers must treat it as read-only;
// reference identity across operations is not guaranteed.
func (m *Manager) Data() map[string]any {
	return m.data
}

// Metadata returns the live provenance tree. Callers must treat it as
// read-only; reference identity across operations is not guaranteed.
func (m *Manager) Metadata() map[string]Meta {
	return m.meta
}

// Spec returns the spec the Manager was constructed over.
func (m *Manager) Spec() Spec {
	return m.spec
}

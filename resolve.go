package settings

import (
	"sort"
	"strings"

	"github.com/goliatone/go-settings/pkg/activity"
)

// resolver walks spec trees for both initialization and change application.
// It carries the manager configuration so fixup notifications and activity
// events fire from wherever the pipeline runs, record seeds included.
type resolver struct {
	cfg *managerConfig
}

// resolve commits the values of input into data and meta in place, guided by
// fields. input is never mutated. Keys are visited in sorted order at every
// level, which makes notification order deterministic. A failure aborts the
// walk; keys committed before the failure stay committed.
func (r *resolver) resolve(fields Spec, input, data map[string]any, meta map[string]Meta, path string, origin Origin) error {
	for _, key := range sortedKeys(input) {
		value := input[key]
		name := joinPath(path, key)

		specifier, known := fields[key]
		if !known {
			return &UnknownSettingError{Name: name}
		}

		switch typed := specifier.(type) {
		case Leaf:
			if _, isObject := value.(map[string]any); isObject {
				return &NotANamespaceError{Name: name, Value: value}
			}
			if err := r.commitLeaf(typed, key, name, value, data, meta, origin); err != nil {
				return err
			}
		case Namespace:
			longhand, isObject := value.(map[string]any)
			if !isObject {
				if typed.Shorthand == nil {
					return &ShorthandUnsupportedError{Name: name, Value: value}
				}
				expanded, err := typed.Shorthand(value)
				if err != nil {
					return &ShorthandError{Name: name, Err: err}
				}
				longhand = expanded
			}
			childData, childMeta := namespaceState(key, data, meta)
			if err := r.resolve(typed.Fields, longhand, childData, childMeta, name, origin); err != nil {
				return err
			}
		case Record:
			if err := r.resolveRecord(typed, key, name, value, data, meta, origin); err != nil {
				return err
			}
		}
	}
	return nil
}

// commitLeaf runs the ordered commit pipeline: fixup, notification,
// validation, type mapping, commit. Fixup precedes validation so the
// corrected value is what gets validated; mapping runs last so validators see
// the pre-mapped value.
func (r *resolver) commitLeaf(leaf Leaf, key, name string, value any, data map[string]any, meta map[string]Meta, origin Origin) error {
	resolved := value

	if leaf.Fixup != nil {
		correction, err := leaf.Fixup(resolved)
		if err != nil {
			return &FixupError{Name: name, Value: resolved, Err: err}
		}
		if correction != nil {
			info := FixupInfo{
				Name:     name,
				Before:   resolved,
				After:    correction.Value,
				Messages: append([]string{}, correction.Messages...),
			}
			resolved = correction.Value
			if err := r.notifyFixup(info); err != nil {
				return err
			}
		}
	}

	if leaf.Validate != nil {
		violation, err := leaf.Validate(resolved)
		if err != nil {
			return &ValidationError{Name: name, Value: resolved, Err: err}
		}
		if violation != nil {
			return &ViolationError{
				Name:     name,
				Value:    resolved,
				Messages: append([]string{}, violation.Messages...),
			}
		}
	}

	if leaf.Map != nil {
		mapped, err := leaf.Map(resolved)
		if err != nil {
			return &MapperError{Name: name, Err: err}
		}
		resolved = mapped
	}

	data[key] = resolved
	lm, _ := meta[key].(LeafMeta)
	lm.Value = resolved
	lm.From = origin
	if origin == OriginInitial {
		lm.Initial = resolved
	}
	meta[key] = lm
	return nil
}

// resolveRecord applies an entry mapping to a record. Entries absent from the
// record are freshly initialized before the input is resolved into them, so a
// change can introduce new entries.
func (r *resolver) resolveRecord(rec Record, key, name string, value any, data map[string]any, meta map[string]Meta, origin Origin) error {
	entries, isObject := value.(map[string]any)
	if !isObject {
		return &NotARecordError{Name: name, Value: value}
	}

	recordData, ok := data[key].(map[string]any)
	if !ok {
		recordData = map[string]any{}
		data[key] = recordData
	}
	recMeta, ok := meta[key].(RecordMeta)
	if !ok {
		recMeta = RecordMeta{
			Value:   map[string]map[string]Meta{},
			Initial: map[string]map[string]Meta{},
		}
	}
	recMeta.From = origin
	meta[key] = recMeta

	for _, entryKey := range sortedKeys(entries) {
		entryValue := entries[entryKey]
		entryPath := joinPath(name, entryKey)

		entryInput, isObject := entryValue.(map[string]any)
		if !isObject {
			return &NotANamespaceError{Name: entryPath, Value: entryValue}
		}

		entryData, haveData := recordData[entryKey].(map[string]any)
		entryMeta := recMeta.Value[entryKey]
		if !haveData || entryMeta == nil {
			freshData, freshMeta, err := r.initialize(rec.Entry, entryPath)
			if err != nil {
				return err
			}
			entryData, entryMeta = freshData, freshMeta
			recordData[entryKey] = entryData
			recMeta.Value[entryKey] = entryMeta
			if origin == OriginSet {
				r.cfg.emitActivity(activity.BuildEntryAddedEvent(activity.SettingsEventInput{
					Name:  name,
					Entry: entryKey,
				}))
			}
		}

		if err := r.resolve(rec.Entry, entryInput, entryData, entryMeta, entryPath, origin); err != nil {
			return err
		}
	}
	return nil
}

// notifyFixup routes a correction through the configured handler, or straight
// to the default emission path when no handler is installed.
func (r *resolver) notifyFixup(info FixupInfo) error {
	if r.cfg.fixupHandler != nil {
		if err := r.cfg.fixupHandler(info, r.emitFixup); err != nil {
			return &FixupHandlerError{Name: info.Name, Err: err}
		}
		return nil
	}
	r.emitFixup(info)
	return nil
}

// emitFixup is the default notification path: one notifier event plus one
// activity event per correction.
func (r *resolver) emitFixup(info FixupInfo) {
	r.cfg.notifierOrNoop().Notify(EventFixupApplied, map[string]any{
		"name":     info.Name,
		"before":   info.Before,
		"after":    info.After,
		"messages": append([]string{}, info.Messages...),
	})
	r.cfg.emitActivity(activity.BuildFixupAppliedEvent(activity.SettingsEventInput{
		Name:        info.Name,
		OldValue:    info.Before,
		NewValue:    info.After,
		Corrections: info.Messages,
	}))
}

func namespaceState(key string, data map[string]any, meta map[string]Meta) (map[string]any, map[string]Meta) {
	childData, ok := data[key].(map[string]any)
	if !ok {
		childData = map[string]any{}
		data[key] = childData
	}
	nsMeta, ok := meta[key].(NamespaceMeta)
	if !ok {
		nsMeta = NamespaceMeta{Fields: map[string]Meta{}}
		meta[key] = nsMeta
	}
	return childData, nsMeta.Fields
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return strings.Join([]string{prefix, segment}, ".")
}

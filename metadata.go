package settings

import "github.com/goliatone/go-settings/layering"

// Origin records how a leaf value came to be: produced by initialization or
// committed by an explicit change.
type Origin string

const (
	// OriginInitial marks values produced by initializers (and record seeds).
	OriginInitial Origin = "initial"
	// OriginSet marks values committed by a change call.
	OriginSet Origin = "set"
)

// Meta is the sealed union of metadata node kinds, mirroring the spec shape:
// LeafMeta, NamespaceMeta, and RecordMeta.
type Meta interface {
	isMeta()
}

// LeafMeta carries provenance for a single settings value. Initial is fixed
// at initialization time and only a reset replaces it; From flips to
// OriginSet the first time a change commits the leaf.
type LeafMeta struct {
	Value   any
	Initial any
	From    Origin
}

// NamespaceMeta groups the metadata of a namespace's fields.
type NamespaceMeta struct {
	Fields map[string]Meta
}

// RecordMeta tracks a record collection. Value holds current per-entry
// metadata; Initial is a deep snapshot taken once when the record was
// initialized and never mutated afterward, so entries added later appear only
// in Value.
type RecordMeta struct {
	From    Origin
	Value   map[string]map[string]Meta
	Initial map[string]map[string]Meta
}

func (LeafMeta) isMeta()      {}
func (NamespaceMeta) isMeta() {}
func (RecordMeta) isMeta()    {}

// originalTree projects the initial values out of a metadata tree into a
// fresh data tree. Record entries come from the Initial snapshot, so entries
// created after initialization are absent.
func originalTree(meta map[string]Meta) map[string]any {
	out := make(map[string]any, len(meta))
	for key, node := range meta {
		switch typed := node.(type) {
		case LeafMeta:
			out[key] = layering.Clone(typed.Initial)
		case NamespaceMeta:
			out[key] = originalTree(typed.Fields)
		case RecordMeta:
			entries := make(map[string]any, len(typed.Initial))
			for entryKey, entryMeta := range typed.Initial {
				entries[entryKey] = originalTree(entryMeta)
			}
			out[key] = entries
		}
	}
	return out
}

// changesetTree projects the sparse tree of explicitly set values: leaves
// with From == OriginSet plus record entries that did not exist at
// initialization time (those are included whole, so the changeset can
// recreate them).
func changesetTree(meta map[string]Meta) map[string]any {
	out := map[string]any{}
	for key, node := range meta {
		switch typed := node.(type) {
		case LeafMeta:
			if typed.From == OriginSet {
				out[key] = layering.Clone(typed.Value)
			}
		case NamespaceMeta:
			if nested := changesetTree(typed.Fields); len(nested) > 0 {
				out[key] = nested
			}
		case RecordMeta:
			entries := map[string]any{}
			for entryKey, entryMeta := range typed.Value {
				if _, seeded := typed.Initial[entryKey]; !seeded {
					entries[entryKey] = currentTree(entryMeta)
					continue
				}
				if nested := changesetTree(entryMeta); len(nested) > 0 {
					entries[entryKey] = nested
				}
			}
			if len(entries) > 0 {
				out[key] = entries
			}
		}
	}
	return out
}

// currentTree projects the current values of a metadata tree regardless of
// provenance. Used for record entries that exist only as user state.
func currentTree(meta map[string]Meta) map[string]any {
	out := make(map[string]any, len(meta))
	for key, node := range meta {
		switch typed := node.(type) {
		case LeafMeta:
			out[key] = layering.Clone(typed.Value)
		case NamespaceMeta:
			out[key] = currentTree(typed.Fields)
		case RecordMeta:
			entries := make(map[string]any, len(typed.Value))
			for entryKey, entryMeta := range typed.Value {
				entries[entryKey] = currentTree(entryMeta)
			}
			out[key] = entries
		}
	}
	return out
}

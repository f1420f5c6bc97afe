package settings

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goliatone/go-settings/layering"
)

// Trace captures provenance for one dotted path: where the effective value
// came from, what it is, and what it was at initialization time.
type Trace struct {
	Path    string `json:"path"`
	From    Origin `json:"from"`
	Value   any    `json:"value,omitempty"`
	Initial any    `json:"initial,omitempty"`
}

// ToJSON serialises the trace into JSON for logging or transport helpers.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON deserialises a JSON payload that was previously generated via
// ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}

// Trace resolves a dotted path against the metadata tree. Paths descend
// namespace fields and record entries; the endpoint must be a leaf, a record,
// or a record entry. Returned values are detached copies.
//
// The dot is reserved as the path separator. Record entries are free to use
// keys containing dots, but such entries cannot be addressed directly:
// trace the record itself and read them from its Value map.
func (m *Manager) Trace(path string) (Trace, error) {
	if path == "" {
		return Trace{}, fmt.Errorf("settings: trace path must not be empty")
	}

	segments := strings.Split(path, ".")
	current := m.meta
	prefix := ""

	for i := 0; i < len(segments); i++ {
		segment := segments[i]
		name := joinPath(prefix, segment)
		node, ok := current[segment]
		if !ok {
			return Trace{}, &UnknownSettingError{Name: name}
		}
		last := i == len(segments)-1

		switch typed := node.(type) {
		case LeafMeta:
			if !last {
				return Trace{}, fmt.Errorf("settings: %q is a value, cannot descend to %q", name, path)
			}
			return Trace{
				Path:    path,
				From:    typed.From,
				Value:   layering.Clone(typed.Value),
				Initial: layering.Clone(typed.Initial),
			}, nil
		case NamespaceMeta:
			if last {
				return Trace{}, fmt.Errorf("settings: %q is a namespace, trace a leaf or record", path)
			}
			current = typed.Fields
			prefix = name
		case RecordMeta:
			if last {
				return traceRecord(path, typed), nil
			}
			i++
			entrySegment := segments[i]
			entryName := joinPath(name, entrySegment)
			entryMeta, ok := typed.Value[entrySegment]
			if !ok {
				return Trace{}, &UnknownSettingError{Name: entryName}
			}
			if i == len(segments)-1 {
				return traceEntry(path, typed, entrySegment, entryMeta), nil
			}
			current = entryMeta
			prefix = entryName
		}
	}
	return Trace{}, &UnknownSettingError{Name: path}
}

func traceRecord(path string, rm RecordMeta) Trace {
	value := make(map[string]any, len(rm.Value))
	for entryKey, entryMeta := range rm.Value {
		value[entryKey] = currentTree(entryMeta)
	}
	initial := make(map[string]any, len(rm.Initial))
	for entryKey, entryMeta := range rm.Initial {
		initial[entryKey] = originalTree(entryMeta)
	}
	return Trace{Path: path, From: rm.From, Value: value, Initial: initial}
}

// traceEntry reports an entry's provenance from its presence in the record's
// initial snapshot: seeded entries are initial, later additions are set.
func traceEntry(path string, rm RecordMeta, entryKey string, entryMeta map[string]Meta) Trace {
	from := OriginSet
	var initial any
	if snapshot, seeded := rm.Initial[entryKey]; seeded {
		from = OriginInitial
		initial = originalTree(snapshot)
	}
	return Trace{Path: path, From: from, Value: currentTree(entryMeta), Initial: initial}
}

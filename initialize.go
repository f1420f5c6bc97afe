package settings

import "github.com/goliatone/go-settings/layering"

// initialize builds the data and metadata trees for spec. Every spec key is
// present in the result; leaves without an initializer hold nil.
func (r *resolver) initialize(spec Spec, path string) (map[string]any, map[string]Meta, error) {
	return r.initializeWithSeed(spec, nil, path)
}

// initializeWithSeed walks spec with an optional base of raw field values
// supplied by an enclosing namespace initializer. Seeded fields skip their
// own initializers; uncovered fields still run them.
func (r *resolver) initializeWithSeed(spec Spec, seed map[string]any, path string) (map[string]any, map[string]Meta, error) {
	for _, key := range sortedKeys(seed) {
		if _, known := spec[key]; !known {
			return nil, nil, &UnknownSettingError{Name: joinPath(path, key)}
		}
	}

	data := make(map[string]any, len(spec))
	meta := make(map[string]Meta, len(spec))

	for _, key := range sortedKeys(spec) {
		name := joinPath(path, key)
		seeded, hasSeed := seed[key]

		switch typed := spec[key].(type) {
		case Leaf:
			if err := r.initializeLeaf(typed, key, name, seeded, hasSeed, data, meta); err != nil {
				return nil, nil, err
			}
		case Namespace:
			if err := r.initializeNamespace(typed, key, name, seeded, hasSeed, data, meta); err != nil {
				return nil, nil, err
			}
		case Record:
			if err := r.initializeRecord(typed, key, name, seeded, hasSeed, data, meta); err != nil {
				return nil, nil, err
			}
		}
	}
	return data, meta, nil
}

// initializeLeaf commits the seeded or initializer-produced value. Only the
// type mapper runs here: initializer output is trusted and never passes
// through fixup or validation.
func (r *resolver) initializeLeaf(leaf Leaf, key, name string, seeded any, hasSeed bool, data map[string]any, meta map[string]Meta) error {
	value := seeded
	produced := hasSeed
	if !hasSeed && leaf.Initial != nil {
		out, err := leaf.Initial()
		if err != nil {
			return &InitializerError{Name: name, Err: err}
		}
		value = out
		produced = true
	}

	if produced && leaf.Map != nil {
		mapped, err := leaf.Map(value)
		if err != nil {
			return &MapperError{Name: name, Err: err}
		}
		value = mapped
	}

	data[key] = value
	meta[key] = LeafMeta{Value: value, Initial: value, From: OriginInitial}
	return nil
}

func (r *resolver) initializeNamespace(ns Namespace, key, name string, seeded any, hasSeed bool, data map[string]any, meta map[string]Meta) error {
	combined := map[string]any{}
	if ns.Initial != nil {
		own, err := ns.Initial()
		if err != nil {
			return &InitializerError{Name: name, Err: err}
		}
		for fieldKey, fieldValue := range own {
			combined[fieldKey] = fieldValue
		}
	}
	if hasSeed {
		parentSeed, isObject := seeded.(map[string]any)
		if !isObject {
			return &NotANamespaceError{Name: name, Value: seeded}
		}
		for fieldKey, fieldValue := range parentSeed {
			combined[fieldKey] = fieldValue
		}
	}

	var childSeed map[string]any
	if len(combined) > 0 {
		childSeed = combined
	}

	childData, childMeta, err := r.initializeWithSeed(ns.Fields, childSeed, name)
	if err != nil {
		return err
	}
	data[key] = childData
	meta[key] = NamespaceMeta{Fields: childMeta}
	return nil
}

// initializeRecord seeds entries from the parent seed or the record's own
// initializer. Seed entries run the full commit pipeline flagged as initial:
// seeds are semi-trusted, unlike leaf initializer output. The per-entry
// metadata is snapshotted into Initial once all entries settle.
func (r *resolver) initializeRecord(rec Record, key, name string, seeded any, hasSeed bool, data map[string]any, meta map[string]Meta) error {
	var seedEntries map[string]map[string]any
	if hasSeed {
		switch typed := seeded.(type) {
		case map[string]map[string]any:
			seedEntries = typed
		case map[string]any:
			seedEntries = make(map[string]map[string]any, len(typed))
			for entryKey, entryValue := range typed {
				entryMap, isObject := entryValue.(map[string]any)
				if !isObject {
					return &NotANamespaceError{Name: joinPath(name, entryKey), Value: entryValue}
				}
				seedEntries[entryKey] = entryMap
			}
		default:
			return &NotARecordError{Name: name, Value: seeded}
		}
	} else if rec.Initial != nil {
		out, err := rec.Initial()
		if err != nil {
			return &InitializerError{Name: name, Err: err}
		}
		seedEntries = out
	}

	recordData := map[string]any{}
	recMeta := RecordMeta{
		From:    OriginInitial,
		Value:   map[string]map[string]Meta{},
		Initial: map[string]map[string]Meta{},
	}

	for _, entryKey := range sortedKeys(seedEntries) {
		raw := seedEntries[entryKey]
		entryPath := joinPath(name, entryKey)

		entryData, entryMeta, err := r.initialize(rec.Entry, entryPath)
		if err != nil {
			return err
		}
		if err := r.resolve(rec.Entry, raw, entryData, entryMeta, entryPath, OriginInitial); err != nil {
			return err
		}
		recordData[entryKey] = entryData
		recMeta.Value[entryKey] = entryMeta
	}

	recMeta.Initial = layering.Clone(recMeta.Value)

	data[key] = recordData
	meta[key] = recMeta
	return nil
}

package layering

// Merge composes two changesets, keeping explicit values from strong while
// filling any paths it leaves untouched from weak. Nested maps merge key by
// key; everything else is treated as a leaf value where strong wins outright.
// Neither input is mutated.
func Merge(strong, weak map[string]any) map[string]any {
	if strong == nil && weak == nil {
		return nil
	}
	out := make(map[string]any, len(strong)+len(weak))
	for key, value := range weak {
		out[key] = cloneAny(value)
	}
	for key, value := range strong {
		existing, ok := out[key]
		if !ok {
			out[key] = cloneAny(value)
			continue
		}
		strongChild, strongIsMap := value.(map[string]any)
		weakChild, weakIsMap := existing.(map[string]any)
		if strongIsMap && weakIsMap {
			out[key] = Merge(strongChild, weakChild)
			continue
		}
		out[key] = cloneAny(value)
	}
	return out
}

// MergeAll composes changesets ordered from strongest to weakest into a
// single changeset, the same way a scope chain resolves: a value set in a
// stronger scope shadows the same path in every weaker one.
func MergeAll(changesets ...map[string]any) map[string]any {
	if len(changesets) == 0 {
		return nil
	}
	merged := Clone(changesets[len(changesets)-1])
	for i := len(changesets) - 2; i >= 0; i-- {
		merged = Merge(changesets[i], merged)
	}
	return merged
}

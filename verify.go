package settings

import "strings"

// Verify checks a spec tree for structural misconfiguration: nil specifiers,
// empty setting names, names containing the path separator, namespaces
// without fields, and records without entry fields. New runs it
// unconditionally, so a malformed spec fails at construction.
func Verify(spec Spec) error {
	return verifySpec(spec, "")
}

func verifySpec(spec Spec, path string) error {
	for _, name := range sortedKeys(spec) {
		if name == "" {
			return &SpecError{Name: path, Reason: "setting names must not be empty"}
		}
		if strings.Contains(name, ".") {
			return &SpecError{Name: joinPath(path, name), Reason: "setting names must not contain '.'"}
		}

		childPath := joinPath(path, name)
		switch typed := spec[name].(type) {
		case Leaf:
			// Hooks are optional; nothing structural to check.
		case Namespace:
			if typed.Fields == nil {
				return &SpecError{Name: childPath, Reason: "namespace declares no fields"}
			}
			if err := verifySpec(typed.Fields, childPath); err != nil {
				return err
			}
		case Record:
			if typed.Entry == nil {
				return &SpecError{Name: childPath, Reason: "record declares no entry fields"}
			}
			if err := verifySpec(typed.Entry, childPath); err != nil {
				return err
			}
		case nil:
			return &SpecError{Name: childPath, Reason: "specifier is nil"}
		default:
			return &SpecError{Name: childPath, Reason: "unrecognized specifier kind"}
		}
	}
	return nil
}

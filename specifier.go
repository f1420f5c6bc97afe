package settings

// Spec declares the shape and behavior of a settings tree: each name maps to
// one Specifier describing a leaf value, a nested namespace, or a dynamically
// keyed record collection.
type Spec map[string]Specifier

// Specifier is the sealed union of spec node kinds. Exactly three types
// implement it: Leaf, Namespace, and Record.
type Specifier interface {
	isSpecifier()
}

// Leaf declares a single settings value and its behavior hooks.
//
// Initial produces the value committed at construction and on Reset; leaves
// without an initializer start out nil. Fixup may auto-correct an incoming
// value before validation, Validate may reject it, and Map converts the
// validated value into its committed representation. All hooks are optional.
type Leaf struct {
	Initial  func() (any, error)
	Fixup    func(value any) (*Correction, error)
	Validate func(value any) (*Violation, error)
	Map      func(value any) (any, error)
}

// Namespace groups child settings under one name. Shorthand, when declared,
// expands a non-object input value into the longhand field map before
// resolution. Initial seeds raw field values; fields the seed does not cover
// still run their own initializers.
type Namespace struct {
	Fields    Spec
	Shorthand func(value any) (map[string]any, error)
	Initial   func() (map[string]any, error)
}

// Record declares a dynamically keyed collection whose entries all share the
// Entry shape. Initial seeds entries keyed by name; seed values run the full
// commit pipeline flagged as initial.
type Record struct {
	Entry   Spec
	Initial func() (map[string]map[string]any, error)
}

func (Leaf) isSpecifier()      {}
func (Namespace) isSpecifier() {}
func (Record) isSpecifier()    {}

// Correction is a fixup result: the corrected value plus the human-readable
// reasons for the correction. A nil *Correction from a fixup hook means the
// value was already in convention.
type Correction struct {
	Value    any
	Messages []string
}

// Violation is a validation verdict. A nil *Violation from a validate hook
// means the value is acceptable; a non-nil one rejects it with the given
// messages.
type Violation struct {
	Messages []string
}

// Static adapts a constant into a Leaf initializer.
func Static(value any) func() (any, error) {
	return func() (any, error) {
		return value, nil
	}
}

// StaticFields adapts a constant field map into a Namespace initializer.
func StaticFields(fields map[string]any) func() (map[string]any, error) {
	return func() (map[string]any, error) {
		return fields, nil
	}
}

// StaticEntries adapts a constant entry mapping into a Record initializer.
func StaticEntries(entries map[string]map[string]any) func() (map[string]map[string]any, error) {
	return func() (map[string]map[string]any, error) {
		return entries, nil
	}
}

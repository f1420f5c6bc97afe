package settings

// FieldKind identifies what a descriptor's path names in the spec.
type FieldKind string

const (
	FieldKindLeaf      FieldKind = "leaf"
	FieldKindNamespace FieldKind = "namespace"
	FieldKindRecord    FieldKind = "record"
	// FieldKindEntry marks the wildcard path standing in for every entry of
	// a record.
	FieldKindEntry FieldKind = "entry"
)

// FieldDescriptor describes one addressable path in a spec tree. Record
// entry shapes appear under a "*" wildcard segment.
type FieldDescriptor struct {
	Path string
	Kind FieldKind
}

// DefaultSchemaGenerator returns the built-in descriptor-based schema
// generator.
func DefaultSchemaGenerator() SchemaGenerator {
	return descriptorGenerator{}
}

type descriptorGenerator struct{}

func (descriptorGenerator) Generate(spec Spec) (SchemaDocument, error) {
	descriptors := deriveFieldDescriptors(spec, "")
	if descriptors == nil {
		descriptors = []FieldDescriptor{}
	}
	return SchemaDocument{
		Format:   SchemaFormatDescriptors,
		Document: descriptors,
	}, nil
}

func deriveFieldDescriptors(spec Spec, prefix string) []FieldDescriptor {
	var fields []FieldDescriptor
	for _, key := range sortedKeys(spec) {
		path := joinPath(prefix, key)
		switch typed := spec[key].(type) {
		case Leaf:
			fields = append(fields, FieldDescriptor{Path: path, Kind: FieldKindLeaf})
		case Namespace:
			fields = append(fields, FieldDescriptor{Path: path, Kind: FieldKindNamespace})
			fields = append(fields, deriveFieldDescriptors(typed.Fields, path)...)
		case Record:
			fields = append(fields, FieldDescriptor{Path: path, Kind: FieldKindRecord})
			entryPath := joinPath(path, "*")
			fields = append(fields, FieldDescriptor{Path: entryPath, Kind: FieldKindEntry})
			fields = append(fields, deriveFieldDescriptors(typed.Entry, entryPath)...)
		}
	}
	return fields
}

// Schema generates a schema document for the manager's spec using the
// configured generator, or the descriptor generator by default.
func (m *Manager) Schema() (SchemaDocument, error) {
	return m.schemaGenerator().Generate(m.Spec())
}

func (m *Manager) schemaGenerator() SchemaGenerator {
	if m == nil {
		return DefaultSchemaGenerator()
	}
	if m.cfg.schemaGenerator != nil {
		return m.cfg.schemaGenerator
	}
	return DefaultSchemaGenerator()
}

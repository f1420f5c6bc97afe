// Package jsonschema generates draft-07-shaped JSON Schema documents from a
// settings spec tree. Namespaces become object properties, records become
// objects with additionalProperties shaped like the entry fields, and leaves
// become open schemas since leaf types are only known to their hooks.
package jsonschema

import (
	"fmt"
	"sort"

	settings "github.com/goliatone/go-settings"
)

type generator struct {
	config generatorConfig
}

// NewGenerator constructs a JSON Schema generator for settings specs.
func NewGenerator(opts ...GeneratorOption) settings.SchemaGenerator {
	cfg := defaultGeneratorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return generator{config: cfg}
}

// Option returns a settings.Option that wires the JSON Schema generator into
// a Manager.
func Option(opts ...GeneratorOption) settings.Option {
	return settings.WithSchemaGenerator(NewGenerator(opts...))
}

func (g generator) Generate(spec settings.Spec) (settings.SchemaDocument, error) {
	document := schemaForSpec(spec)
	document["$schema"] = g.config.schemaVersion
	if g.config.id != "" {
		document["$id"] = g.config.id
	}
	document["title"] = g.config.title
	if g.config.description != "" {
		document["description"] = g.config.description
	}
	if err := validateDocument(document); err != nil {
		return settings.SchemaDocument{}, err
	}
	return settings.SchemaDocument{
		Format:   settings.SchemaFormatJSONSchema,
		Document: document,
	}, nil
}

func schemaForSpec(spec settings.Spec) map[string]any {
	properties := make(map[string]any, len(spec))
	names := make([]string, 0, len(spec))
	for name := range spec {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		switch typed := spec[name].(type) {
		case settings.Leaf:
			// Leaf value types live in the hooks; the schema stays open.
			properties[name] = map[string]any{}
		case settings.Namespace:
			properties[name] = schemaForSpec(typed.Fields)
		case settings.Record:
			properties[name] = map[string]any{
				"type":                 "object",
				"additionalProperties": schemaForSpec(typed.Entry),
			}
		}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
}

func validateDocument(document map[string]any) error {
	if document == nil {
		return fmt.Errorf("jsonschema: document cannot be nil")
	}
	if version, _ := document["$schema"].(string); version == "" {
		return fmt.Errorf("jsonschema: document missing $schema")
	}
	if title, _ := document["title"].(string); title == "" {
		return fmt.Errorf("jsonschema: title must be set")
	}
	if _, ok := document["properties"].(map[string]any); !ok {
		return fmt.Errorf("jsonschema: document missing properties")
	}
	return nil
}

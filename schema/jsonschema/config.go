package jsonschema

const defaultSchemaVersion = "http://json-schema.org/draft-07/schema#"

type generatorConfig struct {
	schemaVersion string
	id            string
	title         string
	description   string
}

func defaultGeneratorConfig() generatorConfig {
	return generatorConfig{
		schemaVersion: defaultSchemaVersion,
		title:         "Settings Schema",
	}
}

// GeneratorOption configures the JSON Schema generator behaviour.
type GeneratorOption func(*generatorConfig)

// WithSchemaVersion overrides the $schema identifier (default: draft-07).
func WithSchemaVersion(version string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if version == "" {
			return
		}
		cfg.schemaVersion = version
	}
}

// WithID sets the $id the generated document is published under.
func WithID(id string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.id = id
	}
}

// WithTitle sets the document title. An empty string retains the default.
func WithTitle(title string) GeneratorOption {
	return func(cfg *generatorConfig) {
		if title == "" {
			return
		}
		cfg.title = title
	}
}

// WithDescription attaches a description to the document root.
func WithDescription(description string) GeneratorOption {
	return func(cfg *generatorConfig) {
		cfg.description = description
	}
}

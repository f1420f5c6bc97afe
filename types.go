package settings

import "github.com/goliatone/go-settings/pkg/activity"

// SchemaFormat identifies the representation a schema document encodes.
type SchemaFormat string

const (
	// SchemaFormatDescriptors represents the flattened field descriptors.
	SchemaFormatDescriptors SchemaFormat = "descriptors"
	// SchemaFormatJSONSchema represents JSON Schema documents.
	SchemaFormatJSONSchema SchemaFormat = "jsonschema"
)

// SchemaDocument encapsulates a generated schema output alongside its format
// identifier. Implementations must ensure Document is JSON-serialisable.
type SchemaDocument struct {
	Format   SchemaFormat
	Document any
}

// SchemaGenerator transforms a spec tree into a schema document. All
// implementations MUST be safe for concurrent use and handle nil specs by
// returning an empty schema document.
type SchemaGenerator interface {
	Generate(spec Spec) (SchemaDocument, error)
}

// Option configures a Manager at construction.
type Option func(*managerConfig)

type managerConfig struct {
	name            string
	notifier        Notifier
	fixupHandler    FixupHandler
	activityHooks   activity.Hooks
	activityChannel string
	emitter         *activity.Emitter
	schemaGenerator SchemaGenerator
}

func applyOptions(opts []Option) managerConfig {
	cfg := managerConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.emitter = activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: true,
		Channel: cfg.activityChannel,
	})
	return cfg
}

func (cfg *managerConfig) notifierOrNoop() Notifier {
	if cfg.notifier != nil {
		return cfg.notifier
	}
	return noopNotifier{}
}

func (cfg *managerConfig) displayName() string {
	if cfg.name != "" {
		return cfg.name
	}
	return "settings"
}

// WithName labels the manager; the label identifies it in activity events and
// hydration diagnostics.
func WithName(name string) Option {
	return func(cfg *managerConfig) {
		cfg.name = name
	}
}

// WithSchemaGenerator configures a custom schema generator implementation.
func WithSchemaGenerator(generator SchemaGenerator) Option {
	return func(cfg *managerConfig) {
		cfg.schemaGenerator = generator
	}
}

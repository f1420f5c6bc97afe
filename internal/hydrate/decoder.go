package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context carries identifiers tied to a changeset payload.
type Context struct {
	Name  string
	Scope string
}

// PreHook lets callers mutate or normalise the payload map before number
// normalization runs.
type PreHook func(Context, map[string]any) (map[string]any, error)

// PostHook lets callers adjust or validate the changeset after decoding.
type PostHook func(Context, map[string]any) error

// DecoderOption configures a Decoder instance.
type DecoderOption func(*Decoder)

// Decoder converts raw JSON payloads into changeset maps. Numbers are decoded
// through json.Number and rewritten as int64 when integral, float64 otherwise,
// so fixups and validators see predictable kinds.
type Decoder struct {
	preHooks  []PreHook
	postHooks []PostHook
}

// WithPreHook applies hook prior to number normalization.
func WithPreHook(hook PreHook) DecoderOption {
	return func(d *Decoder) {
		d.preHooks = append(d.preHooks, hook)
	}
}

// WithPostHook applies hook after decoding completes.
func WithPostHook(hook PostHook) DecoderOption {
	return func(d *Decoder) {
		d.postHooks = append(d.postHooks, hook)
	}
}

func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into a changeset map applying configured hooks.
func (d *Decoder) Decode(ctx Context, payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("hydrate: payload is empty for %q", ctx.Name)
	}

	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return nil, fmt.Errorf("hydrate: decode payload for %q: %w", ctx.Name, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("hydrate: payload for %q has trailing data", ctx.Name)
	}

	current, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("hydrate: payload for %q is not a JSON object", ctx.Name)
	}

	for _, hook := range d.preHooks {
		if hook == nil {
			continue
		}
		next, err := hook(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hydrate: pre-hook for %q failed: %w", ctx.Name, err)
		}
		if next != nil {
			current = next
		}
	}

	normalized, ok := NormalizeNumbers(current).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("hydrate: payload for %q lost its object shape", ctx.Name)
	}

	for _, hook := range d.postHooks {
		if hook == nil {
			continue
		}
		if err := hook(ctx, normalized); err != nil {
			return nil, fmt.Errorf("hydrate: post-hook for %q failed: %w", ctx.Name, err)
		}
	}

	return normalized, nil
}

// NormalizeNumbers walks value and rewrites every json.Number into int64 when
// the literal is integral and float64 otherwise. Containers are rebuilt so the
// input is never mutated.
func NormalizeNumbers(value any) any {
	switch typed := value.(type) {
	case json.Number:
		return normalizeNumber(typed)
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = NormalizeNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = NormalizeNumbers(item)
		}
		return out
	default:
		return value
	}
}

func normalizeNumber(number json.Number) any {
	if integer, err := number.Int64(); err == nil {
		return integer
	}
	if float, err := number.Float64(); err == nil {
		return float
	}
	return number.String()
}
